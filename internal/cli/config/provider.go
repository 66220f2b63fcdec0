package config

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a
// map provider.
var ErrReadBytesNotSupported = errors.New("config: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider backed by an in-memory map. Keys may
// be flat ("log.level") or nested; flat dotted keys are unflattened so
// they merge into the nested raw map instead of landing as literals.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}

// defaultsMap mirrors Default() as a koanf source, so that file, env
// and flag layers override it field by field.
func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"server":  d.Server,
		"output":  d.Output,
		"timeout": d.Timeout,
		"credentials": map[string]any{
			"path": d.Credentials.Path,
		},
		"tls": map[string]any{
			"ca": d.TLS.CA,
		},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
		"metrics": map[string]any{
			"address": d.Metrics.Address,
		},
	}
}

// Package config loads plume-cli configuration with the priority
// Flag > Env > File > Default. Environment variables use the PLUME_
// prefix; the file lives at ~/.plume/cli.yaml by default.
package config

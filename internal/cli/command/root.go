package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/apiclient"
	"github.com/plumehq/plume-go/internal/cli/config"
	"github.com/plumehq/plume-go/internal/cli/output"
	"github.com/plumehq/plume-go/internal/core/gate"
	"github.com/plumehq/plume-go/internal/core/session"
	"github.com/plumehq/plume-go/internal/infra/buildinfo"
	"github.com/plumehq/plume-go/internal/infra/credstore"
	"github.com/plumehq/plume-go/internal/infra/tlsroots"
	"github.com/plumehq/plume-go/internal/telemetry/logger"
	"github.com/plumehq/plume-go/internal/telemetry/metric"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "plume-cli",
		Usage:   "Plume social blogging from the terminal",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AuthCommand(),
			PostCommand(),
			ProfileCommand(),
			AdminCommand(),
			SessionCommand(),
			BrowseCommand(),
		},
		Before: setupEnv,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default ~/.plume/cli.yaml)",
			EnvVars: []string{"PLUME_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Plume API base URL",
			EnvVars: []string{"PLUME_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "credentials",
			Usage: "Credential file path (default ~/.plume/token)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// Env carries the wired application for command actions.
type Env struct {
	Config  *config.CLIConfig
	Log     logger.Logger
	Metrics *metric.Metrics
	Creds   *credstore.Store
	Client  *apiclient.Client
	Store   *session.Store
	Gate    *gate.Gate
}

// setupEnv loads configuration and wires the session store, transport
// client and gate. Flag values override env and file settings.
func setupEnv(c *cli.Context) error {
	overrides := map[string]any{}
	if c.IsSet("server") {
		overrides["server"] = c.String("server")
	}
	if c.IsSet("output") {
		overrides["output"] = c.String("output")
	}
	if c.IsSet("credentials") {
		overrides["credentials.path"] = c.String("credentials")
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}

	loader := config.NewLoader(config.WithConfigFile(c.String("config")))
	cfg, err := loader.Load(overrides)
	if err != nil {
		return err
	}

	env, err := buildEnv(cfg)
	if err != nil {
		return err
	}
	c.App.Metadata["env"] = env
	return nil
}

// buildEnv assembles the application from resolved configuration.
func buildEnv(cfg *config.CLIConfig) (*Env, error) {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)

	metrics := metric.New()
	creds := credstore.New(cfg.Credentials.Path)

	clientCfg := apiclient.Config{
		BaseURL: cfg.Server,
		Timeout: cfg.Timeout,
	}
	if cfg.TLS.CA != "" {
		pool, err := tlsroots.NewPool()
		if err != nil {
			return nil, fmt.Errorf("load system roots: %w", err)
		}
		if err := pool.AddCertFile(cfg.TLS.CA); err != nil {
			return nil, fmt.Errorf("load ca cert: %w", err)
		}
		clientCfg.TLSConfig = pool.TLSConfig()
	}
	client := apiclient.New(clientCfg)

	store := session.New(client, creds,
		session.WithLogger(log),
		session.WithMetrics(metrics),
	)
	// Requests read the token through the store at build time, so a
	// login or an external sync is visible to the next request without
	// reconfiguring the client.
	client.SetTokenSource(store.Token)

	g := gate.New(gate.DefaultTable(),
		gate.WithLogger(log),
		gate.WithMetrics(metrics),
	)

	return &Env{
		Config:  cfg,
		Log:     log,
		Metrics: metrics,
		Creds:   creds,
		Client:  client,
		Store:   store,
		Gate:    g,
	}, nil
}

// GetEnv retrieves the wired application from the CLI context.
func GetEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata["env"].(*Env); ok {
		return env
	}
	return nil
}

// Formatter builds the output formatter selected by config and flags.
func (e *Env) Formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(e.Config.Output), c.Bool("wide"))
}

// opContext bounds one command's work with the configured timeout.
func opContext(c *cli.Context) (context.Context, context.CancelFunc) {
	env := GetEnv(c)
	return context.WithTimeout(c.Context, env.Config.Timeout)
}

// requireSession hydrates the persisted session and checks it against
// a policy. Commands use it the way pages use the route gate: an
// anonymous caller of an authenticated command is told to log in, a
// non-admin caller of an admin command is refused.
func requireSession(c *cli.Context, policy gate.Policy) (*Env, session.Snapshot, error) {
	env := GetEnv(c)

	ctx, cancel := opContext(c)
	defer cancel()
	if err := env.Store.Hydrate(ctx); err != nil {
		return nil, session.Snapshot{}, err
	}

	snap := env.Store.Snapshot()
	switch d := gate.Evaluate(policy, snap); {
	case d.Kind == gate.Render:
		return env, snap, nil
	case d.Kind == gate.Redirect && d.Target == gate.LoginPath:
		return nil, snap, fmt.Errorf("not logged in, run: plume-cli auth login")
	case d.Kind == gate.Redirect && d.Target == gate.ForbiddenPath:
		return nil, snap, fmt.Errorf("admin role required")
	case d.Kind == gate.Redirect && d.Target == gate.HomePath:
		return nil, snap, fmt.Errorf("already logged in as %s, run: plume-cli auth logout", snap.User.Username)
	default:
		return nil, snap, fmt.Errorf("session not ready")
	}
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

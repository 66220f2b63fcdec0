package command

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/core/session"
	"github.com/plumehq/plume-go/internal/infra/credstore"
	"github.com/plumehq/plume-go/internal/infra/shutdown"
	"github.com/plumehq/plume-go/pkg/token"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and follow the login session",
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: sessionStatus,
			},
			{
				Name:  "watch",
				Usage: "Follow credential changes made by other processes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "metrics-address",
						Usage: "Expose Prometheus metrics on this address",
					},
				},
				Action: sessionWatch,
			},
		},
	}
}

func sessionStatus(c *cli.Context) error {
	env := GetEnv(c)

	ctx, cancel := opContext(c)
	defer cancel()
	if err := env.Store.Hydrate(ctx); err != nil {
		return err
	}

	snap := env.Store.Snapshot()
	status := map[string]any{
		"state":       snap.State.String(),
		"credentials": env.Creds.Path(),
	}
	if snap.Authenticated() {
		status["username"] = snap.User.Username
		status["role"] = snap.User.Role
		status["token"] = token.Fingerprint(snap.Token)
	} else {
		status["username"] = "-"
	}

	return env.Formatter(c).Format(c.App.Writer, status)
}

// sessionWatch mirrors what the GUI clients do across browser tabs: it
// observes the credential file and reconciles the session whenever
// another process logs in or out.
func sessionWatch(c *cli.Context) error {
	env := GetEnv(c)

	ctx, cancel := opContext(c)
	err := env.Store.Hydrate(ctx)
	cancel()
	if err != nil {
		return err
	}
	printSnapshot(c, env.Store.Snapshot())

	subID := env.Store.Subscribe(func(snap session.Snapshot) {
		printSnapshot(c, snap)
	})
	defer env.Store.Unsubscribe(subID)

	watcher, err := credstore.NewWatcher(env.Creds, credstore.WithWatcherLogger(env.Log))
	if err != nil {
		return fmt.Errorf("start credential watcher: %w", err)
	}
	watcher.OnChange(func() {
		syncCtx, syncCancel := context.WithTimeout(context.Background(), env.Config.Timeout)
		defer syncCancel()
		if err := env.Store.SyncExternal(syncCtx); err != nil {
			env.Log.Warn("credential sync failed", "error", err)
		}
	})

	sd := shutdown.NewHandler(5 * time.Second)
	sd.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})

	addr := c.String("metrics-address")
	if addr == "" {
		addr = env.Config.Metrics.Address
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", env.Metrics.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				env.Log.Error("metrics server failed", "error", err)
			}
		}()
		sd.OnShutdown(func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		})
		env.Log.Info("metrics listening", "address", addr)
	}

	watcher.StartAsync()
	fmt.Fprintln(c.App.Writer, "watching for session changes, ctrl-c to stop")
	return sd.Wait()
}

func printSnapshot(c *cli.Context, snap session.Snapshot) {
	ts := time.Now().Format("15:04:05")
	if snap.Authenticated() {
		fmt.Fprintf(c.App.Writer, "%s logged in as %s (%s)\n",
			ts, snap.User.Username, token.Fingerprint(snap.Token))
		return
	}
	fmt.Fprintf(c.App.Writer, "%s logged out\n", ts)
}

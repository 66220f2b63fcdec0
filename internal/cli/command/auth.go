package command

import (
	"fmt"
	"os"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/core/gate"
	"github.com/plumehq/plume-go/pkg/token"
)

// AuthCommand returns the auth subcommand group.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, register and inspect the current account",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password (prompted when omitted)",
					},
				},
				Action: authLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Public username",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password (prompted when omitted)",
					},
				},
				Action: authRegister,
			},
			{
				Name:   "logout",
				Usage:  "Log out and discard the stored credential",
				Action: authLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in account",
				Action: authWhoami,
			},
		},
	}
}

func authLogin(c *cli.Context) error {
	env, _, err := requireSession(c, gate.PublicOnly)
	if err != nil {
		return err
	}

	password, err := resolvePassword(c, "Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	if err := env.Store.Login(ctx, c.String("email"), password); err != nil {
		return fmt.Errorf("%s", domain.UserMessage(err))
	}

	snap := env.Store.Snapshot()
	fmt.Fprintf(c.App.Writer, "logged in as %s\n", snap.User.Username)
	return nil
}

func authRegister(c *cli.Context) error {
	env, _, err := requireSession(c, gate.PublicOnly)
	if err != nil {
		return err
	}

	password, err := resolvePassword(c, "Choose a password: ")
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	err = env.Store.Register(ctx, c.String("email"), c.String("username"), password)
	if err != nil {
		return fmt.Errorf("%s", domain.UserMessage(err))
	}

	snap := env.Store.Snapshot()
	fmt.Fprintf(c.App.Writer, "welcome to plume, %s\n", snap.User.Username)
	return nil
}

func authLogout(c *cli.Context) error {
	env := GetEnv(c)

	ctx, cancel := opContext(c)
	defer cancel()
	if err := env.Store.Hydrate(ctx); err != nil {
		return err
	}

	if !env.Store.Snapshot().Authenticated() {
		fmt.Fprintln(c.App.Writer, "not logged in")
		return nil
	}
	if err := env.Store.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "logged out")
	return nil
}

func authWhoami(c *cli.Context) error {
	env, snap, err := requireSession(c, gate.Authenticated)
	if err != nil {
		return err
	}

	formatter := env.Formatter(c)
	return formatter.Format(c.App.Writer, map[string]any{
		"id":       snap.User.ID,
		"email":    snap.User.Email,
		"username": snap.User.Username,
		"role":     snap.User.Role,
		"token":    token.Fingerprint(snap.Token),
	})
}

// resolvePassword takes the --password flag when given, otherwise
// prompts on the terminal without echo.
func resolvePassword(c *cli.Context, prompt string) (string, error) {
	if c.IsSet("password") {
		return c.String("password"), nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no terminal to prompt on, pass --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

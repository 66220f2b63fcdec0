package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/core/gate"
)

// ProfileCommand returns the profile subcommand.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:      "profile",
		Usage:     "Show an author profile",
		ArgsUsage: "USER_ID",
		Action:    profileGet,
	}
}

func profileGet(c *cli.Context) error {
	userID := c.Args().First()

	env, snap, err := requireSession(c, gate.Authenticated)
	if err != nil {
		return err
	}
	// Without an argument, show the caller's own profile.
	if userID == "" {
		userID = snap.User.ID
	}

	ctx, cancel := opContext(c)
	defer cancel()

	profile, err := env.Client.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	formatter := env.Formatter(c)
	if err := formatter.Format(c.App.Writer, profile.User); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nPosts: %d\n", profile.PostCount)
	return nil
}

package command

import (
	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/cli/repl"
)

// BrowseCommand returns the interactive browse command.
func BrowseCommand() *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Navigate pages interactively, with the same access rules as the app",
		Action: browse,
	}
}

func browse(c *cli.Context) error {
	env := GetEnv(c)
	b := repl.New(env.Store, env.Gate, env.Client)
	return b.Run(c.Context)
}

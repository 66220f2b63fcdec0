package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/apiclient"
	"github.com/plumehq/plume-go/internal/cli/output"
	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/core/gate"
)

// AdminCommand returns the admin subcommand group. Every subcommand
// requires the admin role.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Moderation commands (admin role required)",
		Subcommands: []*cli.Command{
			{
				Name:  "users",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Value: 1,
						Usage: "Page number",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Value: 20,
						Usage: "Page size",
					},
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Filter by email or username",
					},
				},
				Action: adminUserList,
			},
			{
				Name:      "set-role",
				Usage:     "Change an account's role",
				ArgsUsage: "USER_ID ROLE",
				Action:    adminSetRole,
			},
			{
				Name:      "delete-user",
				Usage:     "Delete an account",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: adminDeleteUser,
			},
			{
				Name:      "delete-post",
				Usage:     "Remove a post",
				ArgsUsage: "POST_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: adminDeletePost,
			},
		},
	}
}

func adminUserList(c *cli.Context) error {
	env, _, err := requireSession(c, gate.AdminOnly)
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := env.Client.ListUsers(ctx, apiclient.ListUsersOptions{
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
		Search:   c.String("search"),
	})
	if err != nil {
		return err
	}

	formatter := env.Formatter(c)
	if _, ok := formatter.(*output.TableFormatter); !ok {
		return formatter.Format(c.App.Writer, page)
	}
	if err := formatter.Format(c.App.Writer, page.Items); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nTotal: %d users\n", page.Total)
	return nil
}

func adminSetRole(c *cli.Context) error {
	userID := c.Args().Get(0)
	role := c.Args().Get(1)
	if userID == "" || role == "" {
		return fmt.Errorf("usage: plume-cli admin set-role USER_ID ROLE")
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return fmt.Errorf("unknown role %q", role)
	}

	env, _, err := requireSession(c, gate.AdminOnly)
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	user, err := env.Client.SetUserRole(ctx, userID, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s is now %s\n", user.Username, user.Role)
	return nil
}

func adminDeleteUser(c *cli.Context) error {
	userID := c.Args().First()
	if userID == "" {
		return fmt.Errorf("user ID required")
	}

	env, snap, err := requireSession(c, gate.AdminOnly)
	if err != nil {
		return err
	}
	if userID == snap.User.ID {
		return fmt.Errorf("refusing to delete the logged-in account")
	}
	if !c.Bool("force") && !confirm(c, fmt.Sprintf("delete user %s?", userID)) {
		return nil
	}

	ctx, cancel := opContext(c)
	defer cancel()

	if err := env.Client.DeleteUser(ctx, userID); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted user %s\n", userID)
	return nil
}

func adminDeletePost(c *cli.Context) error {
	postID := c.Args().First()
	if postID == "" {
		return fmt.Errorf("post ID required")
	}

	env, _, err := requireSession(c, gate.AdminOnly)
	if err != nil {
		return err
	}
	if !c.Bool("force") && !confirm(c, fmt.Sprintf("delete post %s?", postID)) {
		return nil
	}

	ctx, cancel := opContext(c)
	defer cancel()

	if err := env.Client.DeletePost(ctx, postID); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted post %s\n", postID)
	return nil
}

// confirm asks for a y/N answer on the app's reader.
func confirm(c *cli.Context, question string) bool {
	fmt.Fprintf(c.App.Writer, "%s [y/N] ", question)
	var answer string
	fmt.Fscanln(c.App.Reader, &answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/plumehq/plume-go/internal/apiclient"
	"github.com/plumehq/plume-go/internal/cli/output"
	"github.com/plumehq/plume-go/internal/core/gate"
)

// PostCommand returns the post subcommand group.
func PostCommand() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Browse and inspect posts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List posts from the feed",
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
						Usage:   "Filter posts by title or content",
					},
					&cli.StringFlag{
						Name:    "author",
						Aliases: []string{"a"},
						Usage:   "Filter posts by author ID",
					},
				},
				Action: postList,
			},
			{
				Name:      "get",
				Usage:     "Show one post",
				ArgsUsage: "POST_ID",
				Action:    postGet,
			},
		},
	}
}

func postList(c *cli.Context) error {
	env, _, err := requireSession(c, gate.Authenticated)
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := env.Client.ListPosts(ctx, apiclient.ListPostsOptions{
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
		Search:   c.String("search"),
		AuthorID: c.String("author"),
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
	fmt.Fprintf(c.App.Writer, "\nTotal: %d posts\n", page.Total)
	return nil
}

func postGet(c *cli.Context) error {
	postID := c.Args().First()
	if postID == "" {
		return fmt.Errorf("post ID required")
	}

	env, _, err := requireSession(c, gate.Authenticated)
	if err != nil {
		return err
	}

	ctx, cancel := opContext(c)
	defer cancel()

	post, err := env.Client.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	return env.Formatter(c).Format(c.App.Writer, post)
}

package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/plumehq/plume-go/internal/apiclient"
	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/core/gate"
	"github.com/plumehq/plume-go/internal/core/session"
)

// maxRedirects bounds a redirect chain; the gate's policies cannot
// loop, so hitting it means a broken route table.
const maxRedirects = 5

// Browser is the interactive navigation loop.
type Browser struct {
	input     io.Reader
	output    io.Writer
	store     *session.Store
	gate      *gate.Gate
	client    *apiclient.Client
	completer *Completer
	history   *History

	path string
}

// New creates a Browser starting at the home path.
func New(store *session.Store, g *gate.Gate, client *apiclient.Client) *Browser {
	return &Browser{
		input:     os.Stdin,
		output:    os.Stdout,
		store:     store,
		gate:      g,
		client:    client,
		completer: NewCompleter(),
		history:   NewHistory(),
		path:      gate.HomePath,
	}
}

// SetIO redirects input and output, used by tests.
func (b *Browser) SetIO(in io.Reader, out io.Writer) {
	b.input = in
	b.output = out
}

// Run starts the navigation loop. It returns when the user exits or
// input ends.
func (b *Browser) Run(ctx context.Context) error {
	if err := b.history.Load(); err != nil {
		fmt.Fprintf(b.output, "warning: history unavailable: %v\n", err)
	}
	defer b.history.Save()

	b.navigate(ctx, b.path)

	reader := bufio.NewReader(b.input)
	for {
		fmt.Fprintf(b.output, "plume:%s> ", b.path)

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(b.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.history.Add(line)

		switch {
		case line == "exit" || line == "quit":
			return nil
		case line == "help":
			b.printHelp()
		case line == "routes":
			b.printRoutes()
		case line == "whereami":
			fmt.Fprintln(b.output, b.path)
		case strings.HasPrefix(line, "login "):
			b.login(ctx, line)
		case line == "logout":
			b.logout(ctx)
		case strings.HasPrefix(line, "go "):
			b.navigate(ctx, strings.TrimSpace(strings.TrimPrefix(line, "go ")))
		case strings.HasPrefix(line, "/"):
			b.navigate(ctx, line)
		default:
			fmt.Fprintf(b.output, "unknown command %q, try help\n", line)
		}
	}
}

// login signs in without leaving the shell and re-runs the gate on the
// current path so a pending redirect resolves immediately.
func (b *Browser) login(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		fmt.Fprintln(b.output, "usage: login EMAIL PASSWORD")
		return
	}
	if err := b.store.Login(ctx, fields[1], fields[2]); err != nil {
		fmt.Fprintf(b.output, "login failed: %s\n", domain.UserMessage(err))
		return
	}
	snap := b.store.Snapshot()
	fmt.Fprintf(b.output, "logged in as %s\n", snap.User.Username)
	b.navigate(ctx, b.path)
}

func (b *Browser) logout(ctx context.Context) {
	if err := b.store.Logout(); err != nil {
		fmt.Fprintf(b.output, "logout failed: %s\n", domain.UserMessage(err))
		return
	}
	fmt.Fprintln(b.output, "logged out")
	b.navigate(ctx, b.path)
}

// navigate resolves a path through the gate, following redirects, and
// renders the final decision.
func (b *Browser) navigate(ctx context.Context, path string) {
	for i := 0; i < maxRedirects; i++ {
		snap := b.store.Snapshot()
		decision := b.gate.Decide(path, snap)

		switch decision.Kind {
		case gate.NotFound:
			fmt.Fprintf(b.output, "no such page: %s\n", path)
			return
		case gate.ShowLoading:
			fmt.Fprintln(b.output, "loading session...")
			if err := b.store.Hydrate(ctx); err != nil {
				fmt.Fprintf(b.output, "error: %v\n", err)
				return
			}
			continue
		case gate.Redirect:
			fmt.Fprintf(b.output, "-> %s\n", decision.Target)
			path = decision.Target
			continue
		case gate.Render:
			b.path = path
			b.render(ctx, path)
			return
		}
	}
	fmt.Fprintf(b.output, "redirect loop at %s\n", path)
}

// render shows the content behind a path that passed the gate.
func (b *Browser) render(ctx context.Context, path string) {
	route, params, ok := b.gate.Table().Match(path)
	if !ok {
		return
	}

	switch route.Pattern {
	case "/":
		b.renderFeed(ctx)
	case "/posts/:id":
		b.renderPost(ctx, params["id"])
	case "/profile/:id":
		b.renderProfile(ctx, params["id"])
	case "/login", "/register":
		fmt.Fprintln(b.output, "type: login EMAIL PASSWORD (or register via plume-cli auth register)")
	case "/403":
		fmt.Fprintln(b.output, "403: you do not have access to that page")
	case "/admin", "/admin/users":
		b.renderUsers(ctx)
	case "/admin/posts":
		b.renderFeed(ctx)
	default:
		fmt.Fprintf(b.output, "(%s)\n", path)
	}
}

func (b *Browser) renderFeed(ctx context.Context) {
	page, err := b.client.ListPosts(ctx, apiclient.ListPostsOptions{PageSize: 10})
	if err != nil {
		fmt.Fprintf(b.output, "error: %v\n", err)
		return
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(b.output, "no posts yet")
		return
	}
	for _, p := range page.Items {
		fmt.Fprintf(b.output, "%-12s %-30s by %s (%d likes)\n", p.ID, p.Title, p.Author, p.LikeCount)
	}
}

func (b *Browser) renderPost(ctx context.Context, id string) {
	post, err := b.client.GetPost(ctx, id)
	if err != nil {
		fmt.Fprintf(b.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(b.output, "%s\nby %s\n\n%s\n", post.Title, post.Author, post.Content)
}

func (b *Browser) renderProfile(ctx context.Context, id string) {
	profile, err := b.client.GetProfile(ctx, id)
	if err != nil {
		fmt.Fprintf(b.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(b.output, "%s (%s), %d posts\n",
		profile.User.Username, profile.User.Email, profile.PostCount)
}

func (b *Browser) renderUsers(ctx context.Context) {
	page, err := b.client.ListUsers(ctx, apiclient.ListUsersOptions{PageSize: 20})
	if err != nil {
		fmt.Fprintf(b.output, "error: %v\n", err)
		return
	}
	for _, u := range page.Items {
		fmt.Fprintf(b.output, "%-12s %-20s %s\n", u.ID, u.Username, u.Role)
	}
}

func (b *Browser) printHelp() {
	fmt.Fprintln(b.output, `commands:
  go PATH               navigate to a page (or just type the path)
  routes                list known pages
  whereami              show the current path
  login EMAIL PASSWORD  sign in without leaving the shell
  logout                drop the current session
  exit                  leave browse mode`)
}

func (b *Browser) printRoutes() {
	for _, r := range b.gate.Table().Routes() {
		fmt.Fprintf(b.output, "%-20s %s\n", r.Pattern, r.Policy)
	}
}

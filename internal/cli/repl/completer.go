package repl

import "strings"

// Completer suggests paths and commands for the browse prompt.
type Completer struct {
	entries []string
}

// NewCompleter creates a Completer seeded with the app's pages.
func NewCompleter() *Completer {
	return &Completer{
		entries: []string{
			"/", "/create", "/settings",
			"/posts/", "/profile/",
			"/login", "/register", "/403",
			"/admin", "/admin/users", "/admin/posts",
			"go", "routes", "whereami", "login", "logout", "help", "exit", "quit",
		},
	}
}

// Complete returns suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, e := range c.entries {
		if strings.HasPrefix(e, prefix) {
			suggestions = append(suggestions, e)
		}
	}
	return suggestions
}

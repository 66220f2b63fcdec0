package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plumehq/plume-go/internal/apiclient"
	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/core/gate"
	"github.com/plumehq/plume-go/internal/core/session"
	"github.com/plumehq/plume-go/internal/telemetry/logger"
)

// memCreds keeps the credential in memory for tests.
type memCreds struct {
	tok string
	set bool
}

func (m *memCreds) Load() (string, bool, error) { return m.tok, m.set, nil }
func (m *memCreds) Save(tok string) error       { m.tok, m.set = tok, true; return nil }
func (m *memCreds) Clear() error                { m.tok, m.set = "", false; return nil }

func newBrowserFixture(t *testing.T, handler http.Handler, creds *memCreds) (*Browser, *bytes.Buffer, func()) {
	t.Helper()
	server := httptest.NewServer(handler)

	client := apiclient.New(apiclient.Config{BaseURL: server.URL})
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	store := session.New(client, creds, session.WithLogger(log))
	client.SetTokenSource(store.Token)
	g := gate.New(gate.DefaultTable(), gate.WithLogger(log))

	b := New(store, g, client)
	var out bytes.Buffer
	b.SetIO(strings.NewReader(""), &out)
	return b, &out, server.Close
}

func apiHandler(t *testing.T, user *domain.User) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiclient.PostPage{
			Items: []apiclient.Post{{ID: "p1", Title: "hello", Author: "alice", LikeCount: 2}},
			Total: 1,
		})
	})
	return mux
}

func TestNavigateAnonymousRedirectsToLogin(t *testing.T) {
	b, out, closeFn := newBrowserFixture(t, apiHandler(t, nil), &memCreds{})
	defer closeFn()

	b.navigate(context.Background(), "/")

	text := out.String()
	if !strings.Contains(text, "-> /login") {
		t.Errorf("expected redirect notice, got:\n%s", text)
	}
	if !strings.Contains(text, "login EMAIL PASSWORD") {
		t.Errorf("login page hint missing:\n%s", text)
	}
	if b.path != "/login" {
		t.Errorf("path = %q, want /login", b.path)
	}
}

func TestNavigateAuthenticatedRendersFeed(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}
	creds := &memCreds{tok: "tok", set: true}
	b, out, closeFn := newBrowserFixture(t, apiHandler(t, user), creds)
	defer closeFn()

	b.navigate(context.Background(), "/")

	text := out.String()
	if !strings.Contains(text, "loading session...") {
		t.Errorf("hydration notice missing:\n%s", text)
	}
	if !strings.Contains(text, "hello") || !strings.Contains(text, "alice") {
		t.Errorf("feed content missing:\n%s", text)
	}
}

func TestNavigateMemberToAdminIsForbidden(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}
	creds := &memCreds{tok: "tok", set: true}
	b, out, closeFn := newBrowserFixture(t, apiHandler(t, user), creds)
	defer closeFn()

	b.navigate(context.Background(), "/admin/users")

	text := out.String()
	if !strings.Contains(text, "-> /403") {
		t.Errorf("expected forbidden redirect:\n%s", text)
	}
	if !strings.Contains(text, "403:") {
		t.Errorf("forbidden page missing:\n%s", text)
	}
}

func TestNavigateUnknownPath(t *testing.T) {
	b, out, closeFn := newBrowserFixture(t, apiHandler(t, nil), &memCreds{})
	defer closeFn()

	b.navigate(context.Background(), "/no/such/page")

	if !strings.Contains(out.String(), "no such page") {
		t.Errorf("not-found notice missing:\n%s", out.String())
	}
}

func TestInShellLoginAndLogout(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user":    user,
			"session": map[string]string{"access_token": "tok-alice"},
		})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiclient.PostPage{
			Items: []apiclient.Post{{ID: "p1", Title: "hello", Author: "alice"}},
			Total: 1,
		})
	})

	creds := &memCreds{}
	b, _, closeFn := newBrowserFixture(t, mux, creds)
	defer closeFn()

	var out bytes.Buffer
	b.SetIO(strings.NewReader("login alice@plume.app hunter22\nlogout\nexit\n"), &out)
	b.history.file = t.TempDir() + "/history"

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "logged in as alice") {
		t.Errorf("login confirmation missing:\n%s", text)
	}
	// Login re-runs the gate on the login page, which now redirects home
	// and renders the feed.
	if !strings.Contains(text, "-> /") || !strings.Contains(text, "hello") {
		t.Errorf("post-login navigation missing:\n%s", text)
	}
	if !strings.Contains(text, "logged out") {
		t.Errorf("logout confirmation missing:\n%s", text)
	}
	if _, ok, _ := creds.Load(); ok {
		t.Error("credential should be cleared after in-shell logout")
	}
}

func TestRunExitCommand(t *testing.T) {
	b, _, closeFn := newBrowserFixture(t, apiHandler(t, nil), &memCreds{})
	defer closeFn()

	var out bytes.Buffer
	b.SetIO(strings.NewReader("routes\nexit\n"), &out)
	b.history.file = t.TempDir() + "/history"

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "/admin/users") {
		t.Errorf("routes listing missing:\n%s", out.String())
	}
}

package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plumehq/plume-go/internal/core/domain"
)

// mockServer is a test HTTP server with path-prefix handlers.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer() *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for pattern, handler := range m.handlers {
			if strings.HasPrefix(r.URL.Path, pattern) {
				handler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	return m
}

func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.handlers[pattern] = handler
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// fixture bundles the pieces a command test needs.
type fixture struct {
	server    *mockServer
	credsPath string
	out       bytes.Buffer
	stdin     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		server:    newMockServer(),
		credsPath: filepath.Join(t.TempDir(), "token"),
	}
	t.Cleanup(f.server.Close)
	return f
}

// saveCredential seeds the credential file, as a previous login would.
func (f *fixture) saveCredential(t *testing.T, tok string) {
	t.Helper()
	if err := os.WriteFile(f.credsPath, []byte(tok+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) credential(t *testing.T) (string, bool) {
	t.Helper()
	data, err := os.ReadFile(f.credsPath)
	if os.IsNotExist(err) {
		return "", false
	}
	if err != nil {
		t.Fatal(err)
	}
	tok := strings.TrimSpace(string(data))
	return tok, tok != ""
}

// run executes plume-cli with the fixture's server and credential
// file, capturing all output.
func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()

	// A minimal config file keeps the test independent of any config
	// in the developer's home directory.
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	app := App()
	app.Writer = &f.out
	app.ErrWriter = &f.out
	if f.stdin != "" {
		app.Reader = strings.NewReader(f.stdin)
	}

	full := []string{
		"plume-cli",
		"--config", cfgPath,
		"--server", f.server.URL,
		"--credentials", f.credsPath,
	}
	return app.Run(append(full, args...))
}

func (f *fixture) output() string {
	return f.out.String()
}

// handleMe serves /auth/me for the given user, rejecting when nil.
func (f *fixture) handleMe(user *domain.User) {
	f.server.handle("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if user == nil || r.Header.Get("Authorization") == "" {
			errorResponse(w, http.StatusUnauthorized, "PL-AUTH-4010", "invalid token")
			return
		}
		jsonResponse(w, http.StatusOK, user)
	})
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:       "u-alice",
		Email:    "alice@plume.app",
		Username: "alice",
		Role:     domain.RoleUser,
	}
}

func sampleAdmin() *domain.User {
	return &domain.User{
		ID:       "u-root",
		Email:    "root@plume.app",
		Username: "root",
		Role:     domain.RoleAdmin,
	}
}

func authPayload(user *domain.User, tok string) map[string]any {
	return map[string]any{
		"user": user,
		"session": map[string]string{
			"access_token": tok,
		},
	}
}

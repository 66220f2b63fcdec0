package command

import (
	"net/http"
	"strings"
	"testing"
)

func TestAuthLogin(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)
	f.server.handle("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, authPayload(sampleUser(), "tok-alice"))
	})

	err := f.run(t, "auth", "login", "--email", "alice@plume.app", "--password", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !strings.Contains(f.output(), "logged in as alice") {
		t.Errorf("output = %q", f.output())
	}
	if tok, ok := f.credential(t); !ok || tok != "tok-alice" {
		t.Errorf("credential = %q, %v; want persisted token", tok, ok)
	}
}

func TestAuthLoginRejected(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)
	f.server.handle("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusUnauthorized, "PL-AUTH-4010", "invalid email or password")
	})

	err := f.run(t, "auth", "login", "--email", "alice@plume.app", "--password", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("error = %v, want server message", err)
	}
	if _, ok := f.credential(t); ok {
		t.Error("failed login should not persist a credential")
	}
}

func TestAuthLoginWhileLoggedIn(t *testing.T) {
	f := newFixture(t)
	f.saveCredential(t, "tok-alice")
	f.handleMe(sampleUser())

	err := f.run(t, "auth", "login", "--email", "alice@plume.app", "--password", "hunter22")
	if err == nil || !strings.Contains(err.Error(), "already logged in") {
		t.Errorf("error = %v, want already-logged-in refusal", err)
	}
}

func TestAuthRegister(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)
	f.server.handle("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, authPayload(sampleUser(), "tok-alice"))
	})

	err := f.run(t, "auth", "register",
		"--email", "alice@plume.app", "--username", "alice", "--password", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.Contains(f.output(), "welcome to plume, alice") {
		t.Errorf("output = %q", f.output())
	}
	if tok, ok := f.credential(t); !ok || tok != "tok-alice" {
		t.Errorf("credential = %q, %v", tok, ok)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)

	err := f.run(t, "auth", "register",
		"--email", "alice@plume.app", "--username", "al", "--password", "hunter22")
	if err == nil {
		t.Fatal("expected validation error for short username")
	}
}

func TestAuthLogout(t *testing.T) {
	f := newFixture(t)
	f.saveCredential(t, "tok-alice")
	f.handleMe(sampleUser())

	if err := f.run(t, "auth", "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(f.output(), "logged out") {
		t.Errorf("output = %q", f.output())
	}
	if _, ok := f.credential(t); ok {
		t.Error("credential should be cleared")
	}
}

func TestAuthLogoutWhenAnonymous(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)

	if err := f.run(t, "auth", "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(f.output(), "not logged in") {
		t.Errorf("output = %q", f.output())
	}
}

func TestAuthWhoami(t *testing.T) {
	f := newFixture(t)
	f.saveCredential(t, "tok-alice-secret")
	f.handleMe(sampleUser())

	if err := f.run(t, "--output", "json", "auth", "whoami"); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}

	out := f.output()
	if !strings.Contains(out, `"username": "alice"`) {
		t.Errorf("output missing username:\n%s", out)
	}
	// Only the fingerprint may appear, never the raw token.
	if strings.Contains(out, "tok-alice-secret") {
		t.Errorf("raw token leaked into output:\n%s", out)
	}
}

func TestAuthWhoamiAnonymous(t *testing.T) {
	f := newFixture(t)
	f.handleMe(nil)

	err := f.run(t, "auth", "whoami")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("error = %v, want not-logged-in", err)
	}
}

func TestAuthWhoamiExpiredToken(t *testing.T) {
	// A stored token the server rejects is cleared silently and the
	// command reports the anonymous state instead of a server error.
	f := newFixture(t)
	f.saveCredential(t, "tok-dead")
	f.handleMe(nil)

	err := f.run(t, "auth", "whoami")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("error = %v, want not-logged-in", err)
	}
	if _, ok := f.credential(t); ok {
		t.Error("dead credential should be cleared")
	}
}

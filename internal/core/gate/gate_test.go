package gate

import (
	"testing"

	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/core/session"
)

func anonymous() session.Snapshot {
	return session.Snapshot{State: session.Ready}
}

func pending() session.Snapshot {
	return session.Snapshot{State: session.Pending, Token: "tok"}
}

func member() session.Snapshot {
	return session.Snapshot{
		State: session.Ready,
		Token: "tok",
		User:  &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser},
	}
}

func admin() session.Snapshot {
	return session.Snapshot{
		State: session.Ready,
		Token: "tok",
		User:  &domain.User{ID: "u2", Username: "root", Role: domain.RoleAdmin},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		snap   session.Snapshot
		want   Decision
	}{
		{"open ignores hydration", Open, pending(), Decision{Kind: Render}},
		{"open anonymous", Open, anonymous(), Decision{Kind: Render}},

		{"public only pending", PublicOnly, pending(), Decision{Kind: ShowLoading}},
		{"public only anonymous", PublicOnly, anonymous(), Decision{Kind: Render}},
		{"public only member", PublicOnly, member(), Decision{Kind: Redirect, Target: HomePath, Replace: true}},
		{"public only admin", PublicOnly, admin(), Decision{Kind: Redirect, Target: HomePath, Replace: true}},

		{"authenticated pending", Authenticated, pending(), Decision{Kind: ShowLoading}},
		{"authenticated anonymous", Authenticated, anonymous(), Decision{Kind: Redirect, Target: LoginPath, Replace: true}},
		{"authenticated member", Authenticated, member(), Decision{Kind: Render}},

		{"admin only pending", AdminOnly, pending(), Decision{Kind: ShowLoading}},
		{"admin only anonymous goes to login", AdminOnly, anonymous(), Decision{Kind: Redirect, Target: LoginPath, Replace: true}},
		{"admin only member is forbidden", AdminOnly, member(), Decision{Kind: Redirect, Target: ForbiddenPath, Replace: true}},
		{"admin only admin", AdminOnly, admin(), Decision{Kind: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.policy, tt.snap); got != tt.want {
				t.Errorf("Evaluate(%v) = %+v, want %+v", tt.policy, got, tt.want)
			}
		})
	}
}

func TestTableMatch(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path       string
		wantOK     bool
		wantPolicy Policy
		wantParams map[string]string
	}{
		{"/", true, Authenticated, nil},
		{"/login", true, PublicOnly, nil},
		{"/register", true, PublicOnly, nil},
		{"/403", true, Open, nil},
		{"/posts/p-42", true, Authenticated, map[string]string{"id": "p-42"}},
		{"/posts/p-42/edit", true, Authenticated, map[string]string{"id": "p-42"}},
		{"/profile/u-7", true, Authenticated, map[string]string{"id": "u-7"}},
		{"/settings", true, Authenticated, nil},
		{"/admin", true, AdminOnly, nil},
		{"/admin/users", true, AdminOnly, nil},
		{"/admin/posts", true, AdminOnly, nil},
		{"/admin/users/", true, AdminOnly, nil},
		{"/nope", false, Open, nil},
		{"/posts", false, Open, nil},
		{"/posts/p-42/extra/deep", false, Open, nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, params, ok := table.Match(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if route.Policy != tt.wantPolicy {
				t.Errorf("policy = %v, want %v", route.Policy, tt.wantPolicy)
			}
			for k, v := range tt.wantParams {
				if params[k] != v {
					t.Errorf("param %q = %q, want %q", k, params[k], v)
				}
			}
		})
	}
}

func TestGateDecide(t *testing.T) {
	g := New(DefaultTable())

	tests := []struct {
		name string
		path string
		snap session.Snapshot
		want Decision
	}{
		{"unknown path", "/no/such/page", member(), Decision{Kind: NotFound}},
		{"home anonymous", "/", anonymous(), Decision{Kind: Redirect, Target: LoginPath, Replace: true}},
		{"home member", "/", member(), Decision{Kind: Render}},
		{"login while authenticated", "/login", member(), Decision{Kind: Redirect, Target: HomePath, Replace: true}},
		{"admin as member", "/admin/users", member(), Decision{Kind: Redirect, Target: ForbiddenPath, Replace: true}},
		{"admin anonymous ordering", "/admin/users", anonymous(), Decision{Kind: Redirect, Target: LoginPath, Replace: true}},
		{"forbidden page always renders", "/403", pending(), Decision{Kind: Render}},
		{"post during hydration", "/posts/p-1", pending(), Decision{Kind: ShowLoading}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Decide(tt.path, tt.snap); got != tt.want {
				t.Errorf("Decide(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

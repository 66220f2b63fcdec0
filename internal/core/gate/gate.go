package gate

import (
	"github.com/plumehq/plume-go/internal/core/session"
	"github.com/plumehq/plume-go/internal/telemetry/logger"
	"github.com/plumehq/plume-go/internal/telemetry/metric"
)

// Policy declares who may see a route.
type Policy int

const (
	// Open routes render for everyone, including during hydration.
	Open Policy = iota
	// PublicOnly routes (login, register) reject authenticated users.
	PublicOnly
	// Authenticated routes require a resolved user.
	Authenticated
	// AdminOnly routes require a resolved user with the admin role.
	AdminOnly
)

func (p Policy) String() string {
	switch p {
	case PublicOnly:
		return "public_only"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	default:
		return "open"
	}
}

// Kind is the category of a gate decision.
type Kind int

const (
	// Render means the route may show its content.
	Render Kind = iota
	// ShowLoading means hydration has not finished; show a placeholder
	// and decide again once it has.
	ShowLoading
	// Redirect means navigate to Target instead of rendering.
	Redirect
	// NotFound means no route matched the path.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case ShowLoading:
		return "loading"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return "render"
	}
}

// Decision is the outcome of evaluating a route against a session.
type Decision struct {
	Kind   Kind
	Target string
	// Replace asks the navigator to overwrite the current history
	// entry, so the back button never returns to the gated page.
	Replace bool
}

// Redirect targets used by the built-in policies.
const (
	LoginPath     = "/login"
	HomePath      = "/"
	ForbiddenPath = "/403"
)

func render() Decision      { return Decision{Kind: Render} }
func showLoading() Decision { return Decision{Kind: ShowLoading} }
func notFound() Decision    { return Decision{Kind: NotFound} }

func redirect(target string) Decision {
	return Decision{Kind: Redirect, Target: target, Replace: true}
}

// Evaluate applies a policy to a session snapshot. While hydration is
// pending, every policy that depends on the user yields ShowLoading
// rather than a premature redirect. A missing user always wins over a
// missing role: an anonymous visitor to an admin route is sent to the
// login page, not the forbidden page.
func Evaluate(policy Policy, snap session.Snapshot) Decision {
	if policy == Open {
		return render()
	}
	if snap.State != session.Ready {
		return showLoading()
	}

	switch policy {
	case PublicOnly:
		if snap.Authenticated() {
			return redirect(HomePath)
		}
		return render()
	case Authenticated:
		if !snap.Authenticated() {
			return redirect(LoginPath)
		}
		return render()
	case AdminOnly:
		if !snap.Authenticated() {
			return redirect(LoginPath)
		}
		if !snap.User.IsAdmin() {
			return redirect(ForbiddenPath)
		}
		return render()
	default:
		return render()
	}
}

// Gate evaluates paths against a route table, recording each decision.
type Gate struct {
	table   *Table
	log     logger.Logger
	metrics *metric.Metrics
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(log logger.Logger) Option {
	return func(g *Gate) { g.log = log }
}

// WithMetrics sets the gate metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// New creates a Gate over the given route table.
func New(table *Table, opts ...Option) *Gate {
	g := &Gate{
		table: table,
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Table returns the gate's route table.
func (g *Gate) Table() *Table {
	return g.table
}

// Decide resolves a path through the route table and evaluates the
// matched route's policy against the snapshot.
func (g *Gate) Decide(path string, snap session.Snapshot) Decision {
	route, _, ok := g.table.Match(path)
	if !ok {
		g.metrics.GateDecision("none", NotFound.String())
		return notFound()
	}

	d := Evaluate(route.Policy, snap)
	g.metrics.GateDecision(route.Policy.String(), d.Kind.String())
	if d.Kind == Redirect {
		g.log.Debug("gated navigation redirected",
			"path", path, "policy", route.Policy.String(), "target", d.Target)
	}
	return d
}

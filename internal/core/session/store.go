package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/plumehq/plume-go/internal/core/domain"
	"github.com/plumehq/plume-go/internal/telemetry/logger"
	"github.com/plumehq/plume-go/internal/telemetry/metric"
	"github.com/plumehq/plume-go/pkg/cmap"
	"github.com/plumehq/plume-go/pkg/token"
)

// HydrationState reports whether the stored credential has been
// resolved against the server yet.
type HydrationState int

const (
	// Pending means a credential may exist but its user is unknown.
	Pending HydrationState = iota
	// Ready means resolution finished, with or without a user.
	Ready
)

func (s HydrationState) String() string {
	if s == Ready {
		return "ready"
	}
	return "pending"
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	User  *domain.User
	Token string
	State HydrationState
}

// Authenticated reports whether the snapshot carries a resolved user.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// API is the subset of the transport client the store depends on.
type API interface {
	Me(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, email, username, password string) (*domain.User, string, error)
}

// Credentials persists the access token across processes.
type Credentials interface {
	Load() (string, bool, error)
	Save(tok string) error
	Clear() error
}

// Login attempts per identity are throttled client-side.
const (
	loginInterval = 2 * time.Second
	loginBurst    = 5
)

// Store is the single writer for session state. Every mutation happens
// under one mutex, and each network-backed operation is tagged with a
// monotonically increasing attempt id so that a response arriving after
// a newer attempt began is discarded instead of applied.
type Store struct {
	api     API
	creds   Credentials
	log     logger.Logger
	metrics *metric.Metrics

	mu      sync.Mutex
	token   string
	user    *domain.User
	state   HydrationState
	attempt uint64

	subs    map[int]func(Snapshot)
	nextSub int

	limiters *cmap.Map[string, *rate.Limiter]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics sets the store metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a Store in the Pending state. Call Hydrate to resolve
// any persisted credential.
func New(api API, creds Credentials, opts ...Option) *Store {
	s := &Store{
		api:      api,
		creds:    creds,
		log:      logger.Default(),
		state:    Pending,
		subs:     make(map[int]func(Snapshot)),
		limiters: cmap.New[string, *rate.Limiter](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{User: s.user, Token: s.token, State: s.state}
}

// Token returns the current access token, or "" when anonymous. It is
// safe to hand this method to a transport client as its token source:
// each request reads the live value instead of a captured copy.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to be called with a snapshot after every
// state change. The returned id cancels the subscription via
// Unsubscribe. Callbacks run on the mutating goroutine, outside the
// store lock, so they may call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// notifyLocked captures the subscriber list and snapshot under the
// lock; the caller must invoke the returned function after unlocking.
func (s *Store) notifyLocked() func() {
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// beginAttemptLocked starts a new network-backed attempt, implicitly
// invalidating any attempt still in flight.
func (s *Store) beginAttemptLocked() uint64 {
	s.attempt++
	return s.attempt
}

func (s *Store) staleLocked(id uint64) bool {
	return id != s.attempt
}

// Hydrate resolves the persisted credential into a session. A missing
// or empty credential completes immediately as anonymous. A credential
// the server no longer recognizes is cleared silently; hydration never
// returns an authentication failure to the caller.
func (s *Store) Hydrate(ctx context.Context) error {
	tok, ok, err := s.creds.Load()
	if err != nil {
		s.log.Warn("credential load failed", "error", err)
		ok = false
	}

	s.mu.Lock()
	if !ok {
		s.token = ""
		s.user = nil
		s.state = Ready
		notify := s.notifyLocked()
		s.mu.Unlock()
		s.metrics.Hydration(metric.ResultAbsent)
		notify()
		return nil
	}
	// The raw token is adopted before resolution so that requests made
	// while hydration is in flight already carry it.
	s.token = tok
	id := s.beginAttemptLocked()
	s.mu.Unlock()

	user, err := s.api.Me(ctx, tok)

	s.mu.Lock()
	if s.staleLocked(id) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		// The credential is dead. Drop it everywhere and finish as
		// anonymous; the user is never shown an error for this.
		s.token = ""
		s.user = nil
		s.state = Ready
		notify := s.notifyLocked()
		s.mu.Unlock()
		if cerr := s.creds.Clear(); cerr != nil {
			s.log.Warn("credential clear failed", "error", cerr)
		}
		s.metrics.Hydration(metric.ResultExpired)
		s.metrics.SessionActive(false)
		s.log.Info("stored session expired, cleared")
		notify()
		return nil
	}
	s.user = user
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()
	s.metrics.Hydration(metric.ResultSuccess)
	s.metrics.SessionActive(true)
	s.log.Info("session hydrated", "user", user.Username)
	notify()
	return nil
}

// Login authenticates with email and password. On success the token is
// persisted and the session becomes authenticated. Validation failures
// and throttled attempts never reach the network.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return domain.ErrValidation.WithDetails("password is required")
	}
	if !s.loginLimiter(email).Allow() {
		s.metrics.Login(metric.ResultRateLimited)
		return domain.ErrTooManyAttempts
	}

	s.mu.Lock()
	id := s.beginAttemptLocked()
	s.mu.Unlock()

	user, tok, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	if s.staleLocked(id) {
		s.mu.Unlock()
		return domain.ErrSuperseded
	}
	if err != nil {
		pending := s.state == Pending
		s.mu.Unlock()
		s.metrics.Login(metric.ResultFailure)
		if pending {
			// This attempt displaced an in-flight hydration, so the
			// discarded hydration can no longer resolve the session.
			// Re-run it; the persisted credential is untouched.
			s.rehydrate(ctx)
		}
		return err
	}
	s.token = tok
	s.user = user
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()

	if err := s.creds.Save(tok); err != nil {
		// The in-memory session is still valid; only cross-process
		// sharing is lost.
		s.log.Warn("credential save failed", "error", err)
	}
	s.metrics.Login(metric.ResultSuccess)
	s.metrics.SessionActive(true)
	s.log.Info("logged in", "user", user.Username)
	notify()
	return nil
}

// Register creates an account and logs the new user in.
func (s *Store) Register(ctx context.Context, email, username, password string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	s.mu.Lock()
	id := s.beginAttemptLocked()
	s.mu.Unlock()

	user, tok, err := s.api.Register(ctx, email, username, password)

	s.mu.Lock()
	if s.staleLocked(id) {
		s.mu.Unlock()
		return domain.ErrSuperseded
	}
	if err != nil {
		pending := s.state == Pending
		s.mu.Unlock()
		s.metrics.Registration(metric.ResultFailure)
		if pending {
			s.rehydrate(ctx)
		}
		return err
	}
	s.token = tok
	s.user = user
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()

	if err := s.creds.Save(tok); err != nil {
		s.log.Warn("credential save failed", "error", err)
	}
	s.metrics.Registration(metric.ResultSuccess)
	s.metrics.SessionActive(true)
	s.log.Info("registered", "user", user.Username)
	notify()
	return nil
}

// rehydrate resumes credential resolution after a failed attempt left
// the session unresolved.
func (s *Store) rehydrate(ctx context.Context) {
	if err := s.Hydrate(ctx); err != nil {
		s.log.Warn("rehydration after failed attempt", "error", err)
	}
}

// Logout clears the session and the persisted credential. It also
// invalidates any attempt in flight, so a login response racing a
// logout cannot resurrect the session.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.beginAttemptLocked()
	s.token = ""
	s.user = nil
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()

	err := s.creds.Clear()
	if err != nil {
		s.log.Warn("credential clear failed", "error", err)
	}
	s.metrics.SessionActive(false)
	s.log.Info("logged out")
	notify()
	return err
}

// SyncExternal reconciles the session with a credential change made by
// another process. Wire it to a credential watcher. A removed
// credential logs this session out; a new or different credential is
// adopted and resolved against the server.
func (s *Store) SyncExternal(ctx context.Context) error {
	tok, ok, err := s.creds.Load()
	if err != nil {
		s.log.Warn("credential load failed during sync", "error", err)
		return err
	}

	s.mu.Lock()
	switch {
	case !ok && s.token == "":
		s.mu.Unlock()
		return nil
	case ok && token.Equal(tok, s.token):
		s.mu.Unlock()
		return nil
	case !ok:
		// Logged out elsewhere.
		s.beginAttemptLocked()
		s.token = ""
		s.user = nil
		s.state = Ready
		notify := s.notifyLocked()
		s.mu.Unlock()
		s.metrics.CredentialSync(metric.ResultAbsent)
		s.metrics.SessionActive(false)
		s.log.Info("session ended by another process")
		notify()
		return nil
	}

	// A different credential appeared; adopt it and resolve its user.
	s.token = tok
	id := s.beginAttemptLocked()
	s.mu.Unlock()

	user, err := s.api.Me(ctx, tok)

	s.mu.Lock()
	if s.staleLocked(id) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.token = ""
		s.user = nil
		s.state = Ready
		notify := s.notifyLocked()
		s.mu.Unlock()
		s.metrics.CredentialSync(metric.ResultExpired)
		s.metrics.SessionActive(false)
		notify()
		return nil
	}
	s.user = user
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()
	s.metrics.CredentialSync(metric.ResultAdopted)
	s.metrics.SessionActive(true)
	s.log.Info("adopted session from another process", "user", user.Username)
	notify()
	return nil
}

func (s *Store) loginLimiter(email string) *rate.Limiter {
	return s.limiters.GetOrSet(email, func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(loginInterval), loginBurst)
	})
}

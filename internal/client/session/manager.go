// Package session composes the token store and the /api/me resolver into the
// single source of truth for authentication state. Consumers read State();
// they never track user or token presence themselves.
package session

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mbelkin/geoauth/internal/apperr"
	"github.com/mbelkin/geoauth/internal/models"
)

// meStaleTime is how long a resolved user may be served from cache without a
// new /api/me request. A performance optimization, not a correctness
// requirement.
const meStaleTime = time.Minute

const meCacheKey = "auth:me"

// State is a snapshot of the session.
//
// IsAuthenticated is recomputed on every read, never stored: it holds only
// when a token is present AND a user has been resolved, so a stale user can
// never outlive a cleared token. IsLoading holds only while a token exists
// and a resolution is outstanding.
type State struct {
	User            *models.AuthUser
	IsAuthenticated bool
	IsLoading       bool
	Err             *apperr.AppError
}

// Resolver fetches the current user for the persisted token. *api.Client
// satisfies it.
type Resolver interface {
	Me(ctx context.Context) (*models.AuthUser, error)
}

// TokenStore is the slice of the token store the manager needs.
type TokenStore interface {
	Get() string
	Set(token string)
	Clear()
	Has() bool
}

// Manager is the auth state machine. Construct one per process with
// NewManager and inject it; it is not a package singleton.
type Manager struct {
	mu       sync.Mutex
	tokens   TokenStore
	resolver Resolver
	cache    *gocache.Cache

	user    *models.AuthUser
	err     *apperr.AppError
	loading bool

	// gen guards against in-flight resolutions landing after a login or
	// logout changed the session. Stale responses are discarded, never
	// applied: a logout is authoritative.
	gen uint64
}

func NewManager(tokens TokenStore, resolver Resolver) *Manager {
	return &Manager{
		tokens:   tokens,
		resolver: resolver,
		cache:    gocache.New(meStaleTime, 2*meStaleTime),
	}
}

// State returns the current session snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	hasToken := m.tokens.Has()
	return State{
		User:            m.user,
		IsAuthenticated: hasToken && m.user != nil,
		IsLoading:       hasToken && m.loading,
		Err:             m.err,
	}
}

// Bootstrap drives the machine out of its initial state. With no token it
// settles on anonymous immediately and issues no network call; with a token
// it resolves the user (served from cache within the staleness window).
func (m *Manager) Bootstrap(ctx context.Context) {
	if !m.tokens.Has() {
		m.mu.Lock()
		m.user = nil
		m.err = nil
		m.loading = false
		m.mu.Unlock()
		return
	}
	m.resolve(ctx)
}

// Refresh re-reads the current user on demand, honoring the cache.
func (m *Manager) Refresh(ctx context.Context) {
	m.resolve(ctx)
}

// Login installs a freshly minted token and eagerly refetches the session.
// The token is persisted before the refetch is issued, so the outgoing
// request is guaranteed to carry it.
func (m *Manager) Login(ctx context.Context, token string) {
	m.tokens.Set(token)

	m.mu.Lock()
	m.gen++
	m.err = nil
	m.cache.Delete(meCacheKey)
	m.mu.Unlock()

	m.resolve(ctx)
}

// Logout tears the session down locally: token cleared, user and error reset,
// cached session data invalidated. No network call is made, and any
// resolution still in flight is discarded when it lands.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.tokens.Clear()
	m.user = nil
	m.err = nil
	m.loading = false
	m.cache.Flush()
}

func (m *Manager) resolve(ctx context.Context) {
	m.mu.Lock()
	if cached, ok := m.cache.Get(meCacheKey); ok {
		m.user = cached.(*models.AuthUser)
		m.err = nil
		m.loading = false
		m.mu.Unlock()
		return
	}
	gen := m.gen
	m.loading = true
	m.mu.Unlock()

	user, err := m.resolver.Me(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// Superseded by a login or logout while in flight.
		return
	}
	m.loading = false

	if err != nil {
		m.err = apperr.Normalize(err)
		if apperr.IsUnauthorized(m.err) {
			// Invalid or expired token: clear the session. Any other
			// failure keeps the token so a transient server error does
			// not forcibly log the user out.
			m.tokens.Clear()
			m.user = nil
			m.cache.Flush()
		}
		return
	}

	m.user = user
	m.err = nil
	m.cache.Set(meCacheKey, user, gocache.DefaultExpiration)
}

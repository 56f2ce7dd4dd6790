// Package session holds the state shared by every acquisition of one run.
//
// The main piece of state is the per-host credential cache: credentials
// entered at a prompt, or harvested from an existing checkout's remote, are
// kept so later packages from the same host reuse them. A [Session] is
// passed explicitly to every downloader call; nothing is global.
//
// # Persistence
//
// Credentials live only as long as the session unless the caller opts in to
// a [FileStore], which reads and writes them in the "http-basic" section of
// an auth.json file:
//
//	store, err := session.NewFileStore("")  // ~/.config/composer
//	sess := session.New()
//	if err := store.Load(ctx, sess); err != nil {
//	    return err
//	}
//	// ... run downloads ...
//	store.Save(ctx, sess)
package session

import (
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Credential is a username/password pair for one host.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the per-run acquisition context.
//
// All methods are safe for concurrent use.
type Session struct {
	// ID correlates log lines of one run.
	ID        string
	CreatedAt time.Time

	mu    sync.RWMutex
	auths map[string]Credential
}

// New creates an empty session with a fresh ID.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		auths:     make(map[string]Credential),
	}
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}

// HasAuthorization reports whether a credential is cached for host.
func (s *Session) HasAuthorization(host string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.auths[normalizeHost(host)]
	return ok
}

// Authorization returns the credential cached for host.
func (s *Session) Authorization(host string) (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.auths[normalizeHost(host)]
	return c, ok
}

// SetAuthorization caches a credential for host, replacing any previous one.
func (s *Session) SetAuthorization(host, username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auths == nil {
		s.auths = make(map[string]Credential)
	}
	s.auths[normalizeHost(host)] = Credential{Username: username, Password: password}
}

// Authorizations returns a snapshot of every cached credential by host.
func (s *Session) Authorizations() map[string]Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.auths)
}

// Package session holds the per-origin login state of the POS client: the
// cookie jar, the optional bearer token and the on-disk snapshot that lets
// a session survive restarts.
//
// Persistence is best effort. Load, Save and Clear never return errors;
// they log the cause and report the outcome as a boolean.
package session

import (
	"net/url"
	"sync"

	"github.com/touchpos/touchpos/pkg/logger"
)

// SessionCookie is the cookie that marks a logged-in session.
const SessionCookie = "sessionid"

// Session is the explicit login state passed to every API call.
type Session struct {
	origin *url.URL
	jar    *Jar
	store  *Store
	log    logger.Logger

	mu     sync.RWMutex
	bearer string
}

// New creates an empty (logged out) session for origin. store may be nil,
// in which case nothing is persisted.
func New(origin *url.URL, store *Store, l logger.Logger) *Session {
	o := *origin
	return &Session{
		origin: &o,
		jar:    NewJar(),
		store:  store,
		log:    logger.OrNop(l),
	}
}

// Origin returns a copy of the origin the session is bound to.
func (s *Session) Origin() *url.URL {
	o := *s.origin
	return &o
}

// Jar returns the live cookie jar.
func (s *Session) Jar() *Jar {
	return s.jar
}

// Load restores cookies from the snapshot. On any failure the jar is left
// untouched and false is returned.
func (s *Session) Load() bool {
	if s.store == nil {
		return false
	}
	cookies, err := s.store.Read()
	if err != nil {
		s.log.Debug("session: load %s: %v", s.store.Path(), err)
		return false
	}
	for _, c := range cookies {
		s.jar.Add(c)
	}
	s.log.Info("session: restored %d cookies", len(cookies))
	return true
}

// Save writes every cookie held for the origin to the snapshot.
func (s *Session) Save() bool {
	if s.store == nil {
		return false
	}
	if err := s.store.Write(s.jar.Records(s.origin)); err != nil {
		s.log.Warning("session: save %s: %v", s.store.Path(), err)
		return false
	}
	return true
}

// Clear deletes the snapshot. It reports whether no snapshot remains.
func (s *Session) Clear() bool {
	if s.store == nil {
		return true
	}
	if err := s.store.Remove(); err != nil {
		s.log.Warning("session: clear %s: %v", s.store.Path(), err)
		return false
	}
	return true
}

// Reset drops the in-memory cookies and bearer token.
func (s *Session) Reset() {
	s.jar.Clear()
	s.SetBearer("")
}

// End logs the session out locally: Reset followed by Clear.
func (s *Session) End() bool {
	s.Reset()
	return s.Clear()
}

// Cookie returns the value of cookie name as sent to the origin.
func (s *Session) Cookie(name string) (string, bool) {
	return s.jar.Get(s.origin, name)
}

// SessionID returns the sessionid cookie value.
func (s *Session) SessionID() (string, bool) {
	v, ok := s.Cookie(SessionCookie)
	if v == "" {
		return "", false
	}
	return v, ok
}

// LoggedIn reports whether a sessionid cookie is present.
func (s *Session) LoggedIn() bool {
	_, ok := s.SessionID()
	return ok
}

// SetBearer sets the token sent as "Authorization: Bearer". Empty clears it.
func (s *Session) SetBearer(token string) {
	s.mu.Lock()
	s.bearer = token
	s.mu.Unlock()
}

// Bearer returns the current bearer token, if any.
func (s *Session) Bearer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bearer
}

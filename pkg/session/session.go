package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"video-portal/pkg/auth"
	"video-portal/pkg/logger"
)

type State int

const (
	Initializing State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Authenticator is the part of the API client the session delegates to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, username, email, password string) (string, error)
	Logout() error
}

type tokenReader interface {
	Token() (string, bool)
}

// Session is the process-wide authentication state. Authenticated means a
// token is stored, nothing more: it is never checked against the service.
type Session struct {
	mu     sync.RWMutex
	state  State
	name   string
	api    Authenticator
	tokens tokenReader
	log    *logrus.Logger
}

func New(api Authenticator, tokens tokenReader, log *logrus.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	return &Session{state: Initializing, api: api, tokens: tokens, log: log}
}

// Init leaves the initializing state based on token presence.
func (s *Session) Init() {
	token, ok := s.tokens.Token()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.state = Authenticated
		s.name = auth.DisplayName(token)
	} else {
		s.state = Anonymous
		s.name = ""
	}
	s.log.WithField("state", s.state.String()).Info("session initialized")
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool { return s.State() == Authenticated }

func (s *Session) IsLoading() bool { return s.State() == Initializing }

// Username is a display name from the token claims, possibly empty.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Login leaves the state untouched on failure.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).Info("login failed")
		return err
	}
	s.authenticated(token)
	return nil
}

func (s *Session) Signup(ctx context.Context, username, email, password string) error {
	token, err := s.api.Signup(ctx, username, email, password)
	if err != nil {
		s.log.WithError(err).Info("signup failed")
		return err
	}
	s.authenticated(token)
	return nil
}

func (s *Session) authenticated(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.name = auth.DisplayName(token)
}

// Logout always ends anonymous. The returned error only reports that the
// stored token could not be removed.
func (s *Session) Logout() error {
	err := s.api.Logout()
	s.mu.Lock()
	s.state = Anonymous
	s.name = ""
	s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).Error("logout could not clear token")
	}
	return err
}

// Close ends the session's lifetime. The stored token is kept for the next
// start.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Initializing
	s.name = ""
}

package api

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"

	"moviebrowser/internal/domain"
	"moviebrowser/internal/service"
)

// SessionStore maps bearer tokens to logged-in account handles. One handle
// per token; the model itself stays single-user-per-handle.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*service.Account
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*service.Account),
	}
}

func (s *SessionStore) Create(account *service.Account) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = account
	s.mu.Unlock()

	return token, nil
}

func (s *SessionStore) Get(token string) (*service.Account, bool) {
	s.mu.RLock()
	account, ok := s.sessions[token]
	s.mu.RUnlock()
	return account, ok
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// FromRequest resolves the account handle for the request's bearer token.
func (s *SessionStore) FromRequest(r *http.Request) (*service.Account, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, domain.AuthorizationError("missing bearer token")
	}

	account, ok := s.Get(token)
	if !ok {
		return nil, domain.AuthorizationError("invalid or expired session")
	}

	return account, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

package storage

import (
	"jackut/internal/apperrors"
	"jackut/internal/models"
)

// SessionRepository maps session tokens to logins. Sessions live only in memory.
type SessionRepository struct {
	sessions map[string]*models.Session
}

// Get returns the session for token or a SessionNotFound error.
func (r *SessionRepository) Get(token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, apperrors.SessionNotFound()
	}
	return s, nil
}

func (r *SessionRepository) Exists(token string) bool {
	_, ok := r.sessions[token]
	return ok
}

func (r *SessionRepository) Put(s *models.Session) {
	r.sessions[s.Token] = s
}

// Delete invalidates token and reports whether it existed.
func (r *SessionRepository) Delete(token string) bool {
	if !r.Exists(token) {
		return false
	}
	delete(r.sessions, token)
	return true
}

// DeleteByLogin drops every session opened by login and returns how many were removed.
func (r *SessionRepository) DeleteByLogin(login string) int {
	n := 0
	for token, s := range r.sessions {
		if s.Login == login {
			delete(r.sessions, token)
			n++
		}
	}
	return n
}

// RekeyLogin points every session of old at new. Tokens stay valid across a rename.
func (r *SessionRepository) RekeyLogin(old, new string) {
	for _, s := range r.sessions {
		if s.Login == old {
			s.Login = new
		}
	}
}

func (r *SessionRepository) Len() int { return len(r.sessions) }

package storage

import (
	"slices"
	"strings"

	"jackut/internal/apperrors"
	"jackut/internal/models"
)

// UserRepository gives access to users keyed by login. It is only reachable through a Tx.
type UserRepository struct {
	users map[string]*models.User
}

// Get returns the stored user or a UserNotFound error.
func (r *UserRepository) Get(login string) (*models.User, error) {
	u, ok := r.users[login]
	if !ok {
		return nil, apperrors.UserNotFound(login)
	}
	return u, nil
}

func (r *UserRepository) Exists(login string) bool {
	_, ok := r.users[login]
	return ok
}

// Create inserts a new user. The login must be free.
func (r *UserRepository) Create(user *models.User) error {
	if r.Exists(user.Login) {
		return apperrors.DuplicateUser(user.Login)
	}
	r.users[user.Login] = user
	return nil
}

// Delete removes the user record only and reports whether it existed. Cleaning up
// references held by other records is the caller's job.
func (r *UserRepository) Delete(login string) bool {
	if !r.Exists(login) {
		return false
	}
	delete(r.users, login)
	return true
}

// Rekey moves the record stored under old to new and updates its Login.
func (r *UserRepository) Rekey(old, new string) error {
	u, err := r.Get(old)
	if err != nil {
		return err
	}
	if old == new {
		return nil
	}
	if r.Exists(new) {
		return apperrors.DuplicateUser(new)
	}
	delete(r.users, old)
	u.Login = new
	r.users[new] = u
	return nil
}

// All returns every user sorted by login.
func (r *UserRepository) All() []*models.User {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b *models.User) int { return strings.Compare(a.Login, b.Login) })
	return out
}

func (r *UserRepository) Len() int { return len(r.users) }

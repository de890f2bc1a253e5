package storage

import (
	"slices"
	"strings"

	"jackut/internal/apperrors"
	"jackut/internal/models"
)

// CommunityRepository gives access to communities keyed by name.
type CommunityRepository struct {
	communities map[string]*models.Community
}

func (r *CommunityRepository) Get(name string) (*models.Community, error) {
	c, ok := r.communities[name]
	if !ok {
		return nil, apperrors.CommunityNotFound(name)
	}
	return c, nil
}

func (r *CommunityRepository) Exists(name string) bool {
	_, ok := r.communities[name]
	return ok
}

func (r *CommunityRepository) Create(c *models.Community) error {
	if r.Exists(c.Name) {
		return apperrors.DuplicateCommunity(c.Name)
	}
	r.communities[c.Name] = c
	return nil
}

func (r *CommunityRepository) Delete(name string) bool {
	if !r.Exists(name) {
		return false
	}
	delete(r.communities, name)
	return true
}

// All returns every community sorted by name.
func (r *CommunityRepository) All() []*models.Community {
	out := make([]*models.Community, 0, len(r.communities))
	for _, c := range r.communities {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *models.Community) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// ManagedBy returns the communities whose manager is login, sorted by name.
func (r *CommunityRepository) ManagedBy(login string) []*models.Community {
	var out []*models.Community
	for _, c := range r.All() {
		if c.IsManager(login) {
			out = append(out, c)
		}
	}
	return out
}

package models

import "strings"

// OrderedSet is a list of unique strings kept in insertion order. Jackut uses it for
// every login or community list so output order follows the order events happened.
type OrderedSet []string

func (s OrderedSet) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Add appends v unless present and reports whether it was added.
func (s *OrderedSet) Add(v string) bool {
	if s.Contains(v) {
		return false
	}
	*s = append(*s, v)
	return true
}

// Remove deletes v and reports whether it was present.
func (s *OrderedSet) Remove(v string) bool {
	for i, item := range *s {
		if item == v {
			*s = append((*s)[:i:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Replace renames old to new in place, keeping its position. If new is already present
// the old entry is dropped instead, so the set stays unique.
func (s *OrderedSet) Replace(old, new string) {
	if old == new || !s.Contains(old) {
		return
	}
	if s.Contains(new) {
		s.Remove(old)
		return
	}
	for i, item := range *s {
		if item == old {
			(*s)[i] = new
			return
		}
	}
}

func (s OrderedSet) Clone() OrderedSet {
	if s == nil {
		return nil
	}
	out := make(OrderedSet, len(s))
	copy(out, s)
	return out
}

// String renders the set as {a,b,c}; an empty set is {}.
func (s OrderedSet) String() string {
	return FormatList(s)
}

// FormatList renders items with Jackut's list convention: braces, comma separated, no spaces.
func FormatList(items []string) string {
	return "{" + strings.Join(items, ",") + "}"
}

package models

import "time"

// Community is a named group with exactly one manager. Members always include the
// manager and are kept in join order. Messages is the append-only broadcast log.
type Community struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Manager     string       `json:"manager"`
	Members     OrderedSet   `json:"members"`
	Messages    MessageQueue `json:"messages,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func NewCommunity(name, description, manager string, now time.Time) *Community {
	return &Community{
		Name:        name,
		Description: description,
		Manager:     manager,
		Members:     OrderedSet{manager},
		CreatedAt:   now,
	}
}

func (c *Community) IsMember(login string) bool  { return c.Members.Contains(login) }
func (c *Community) IsManager(login string) bool { return c.Manager == login }

func (c *Community) Clone() *Community {
	out := *c
	out.Members = c.Members.Clone()
	out.Messages = c.Messages.Clone()
	return &out
}

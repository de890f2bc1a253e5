package models

import (
	"maps"
	"time"
)

// Fixed profile fields. Every other attribute name is a free-form profile attribute.
const (
	AttrName     = "nome"
	AttrPassword = "senha"
	AttrLogin    = "login"
)

// User is a registered Jackut account. Login is the only stable identifier and every
// reference to another user is by login.
type User struct {
	Login        string            `json:"login"`
	Name         string            `json:"name"`
	PasswordHash string            `json:"passwordHash"`
	Attributes   map[string]string `json:"attributes,omitempty"`

	Friends        OrderedSet `json:"friends,omitempty"`        // confirmed, in acceptance order
	FriendRequests OrderedSet `json:"friendRequests,omitempty"` // pending requests received, in arrival order
	Idols          OrderedSet `json:"idols,omitempty"`
	Fans           OrderedSet `json:"fans,omitempty"`
	Crushes        OrderedSet `json:"crushes,omitempty"`
	Enemies        OrderedSet `json:"enemies,omitempty"`
	Communities    OrderedSet `json:"communities,omitempty"` // joined, in join order

	Inbox          MessageQueue `json:"inbox,omitempty"`
	CommunityInbox MessageQueue `json:"communityInbox,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func NewUser(login, name, passwordHash string, now time.Time) *User {
	return &User{
		Login:        login,
		Name:         name,
		PasswordHash: passwordHash,
		Attributes:   map[string]string{},
		CreatedAt:    now,
	}
}

// Attribute returns a free-form profile attribute. Empty values count as missing.
func (u *User) Attribute(name string) (string, bool) {
	v, ok := u.Attributes[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (u *User) SetAttribute(name, value string) {
	if u.Attributes == nil {
		u.Attributes = map[string]string{}
	}
	u.Attributes[name] = value
}

// Forget removes every reference to login from this user's relationship lists and
// queued messages.
func (u *User) Forget(login string) {
	u.Friends.Remove(login)
	u.FriendRequests.Remove(login)
	u.Idols.Remove(login)
	u.Fans.Remove(login)
	u.Crushes.Remove(login)
	u.Enemies.Remove(login)
	u.Inbox.DropFrom(login)
	u.CommunityInbox.DropFrom(login)
}

// RenameReferences re-points every reference to old at new.
func (u *User) RenameReferences(old, new string) {
	u.Friends.Replace(old, new)
	u.FriendRequests.Replace(old, new)
	u.Idols.Replace(old, new)
	u.Fans.Replace(old, new)
	u.Crushes.Replace(old, new)
	u.Enemies.Replace(old, new)
	u.Inbox.RenameParty(old, new)
	u.CommunityInbox.RenameParty(old, new)
}

// Clone returns a deep copy safe to hand out of the store.
func (u *User) Clone() *User {
	out := *u
	out.Attributes = maps.Clone(u.Attributes)
	out.Friends = u.Friends.Clone()
	out.FriendRequests = u.FriendRequests.Clone()
	out.Idols = u.Idols.Clone()
	out.Fans = u.Fans.Clone()
	out.Crushes = u.Crushes.Clone()
	out.Enemies = u.Enemies.Clone()
	out.Communities = u.Communities.Clone()
	out.Inbox = u.Inbox.Clone()
	out.CommunityInbox = u.CommunityInbox.Clone()
	return &out
}

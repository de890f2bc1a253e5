// Package jackut exposes every Jackut business operation as one method. List results use
// the {a,b,c} text convention and booleans are returned as Go bools; callers that need
// text (the scenario runner, the CLI) format them.
package jackut

import (
	"context"

	"jackut/internal/services"
)

type Facade struct {
	svc *services.Set
}

func New(svc *services.Set) *Facade {
	return &Facade{svc: svc}
}

// Services returns the underlying service set for callers that need structured data.
func (f *Facade) Services() *services.Set { return f.svc }

// System lifecycle

func (f *Facade) ResetSystem(ctx context.Context) error { return f.svc.System.Reset(ctx) }
func (f *Facade) LoadSystem(ctx context.Context) error  { return f.svc.System.Load(ctx) }
func (f *Facade) SaveSystem(ctx context.Context) error  { return f.svc.System.Save(ctx) }

// Accounts and sessions

func (f *Facade) CreateUser(ctx context.Context, login, password, name string) error {
	return f.svc.Users.Create(ctx, login, password, name)
}

func (f *Facade) UserAttribute(ctx context.Context, login, attribute string) (string, error) {
	return f.svc.Users.Attribute(ctx, login, attribute)
}

func (f *Facade) OpenSession(ctx context.Context, login, password string) (string, error) {
	return f.svc.Auth.OpenSession(ctx, login, password)
}

func (f *Facade) CloseSession(ctx context.Context, session string) (bool, error) {
	return f.svc.Auth.CloseSession(ctx, session)
}

func (f *Facade) EditProfile(ctx context.Context, session, attribute, value string) error {
	return f.svc.Users.EditProfile(ctx, session, attribute, value)
}

func (f *Facade) RemoveUser(ctx context.Context, session string) error {
	return f.svc.Users.Remove(ctx, session)
}

// Friends

func (f *Facade) IsFriend(ctx context.Context, login, other string) (bool, error) {
	return f.svc.Friends.IsFriend(ctx, login, other)
}

func (f *Facade) AddFriend(ctx context.Context, session, login string) error {
	return f.svc.Friends.AddFriend(ctx, session, login)
}

func (f *Facade) Friends(ctx context.Context, login string) (string, error) {
	set, err := f.svc.Friends.Friends(ctx, login)
	return set.String(), err
}

func (f *Facade) PendingRequests(ctx context.Context, login string) (string, error) {
	set, err := f.svc.Friends.PendingRequests(ctx, login)
	return set.String(), err
}

func (f *Facade) RejectFriend(ctx context.Context, session, login string) error {
	return f.svc.Friends.RejectRequest(ctx, session, login)
}

// Messages

func (f *Facade) SendMessage(ctx context.Context, session, to, body string) error {
	return f.svc.Messages.Send(ctx, session, to, body)
}

func (f *Facade) ReadMessage(ctx context.Context, session string) (string, error) {
	msg, err := f.svc.Messages.Read(ctx, session)
	return msg.Body, err
}

func (f *Facade) SendCommunityMessage(ctx context.Context, session, community, body string) error {
	return f.svc.Messages.Broadcast(ctx, session, community, body)
}

func (f *Facade) ReadCommunityMessage(ctx context.Context, session string) (string, error) {
	msg, err := f.svc.Messages.ReadCommunity(ctx, session)
	return msg.Body, err
}

// Communities

func (f *Facade) CreateCommunity(ctx context.Context, session, name, description string) error {
	return f.svc.Communities.Create(ctx, session, name, description)
}

func (f *Facade) EditCommunity(ctx context.Context, session, name, description string) error {
	return f.svc.Communities.Edit(ctx, session, name, description)
}

func (f *Facade) DeleteCommunity(ctx context.Context, session, name string) error {
	return f.svc.Communities.Delete(ctx, session, name)
}

func (f *Facade) TransferCommunity(ctx context.Context, session, name, login string) error {
	return f.svc.Communities.Transfer(ctx, session, name, login)
}

func (f *Facade) JoinCommunity(ctx context.Context, session, name string) error {
	return f.svc.Communities.Join(ctx, session, name)
}

func (f *Facade) LeaveCommunity(ctx context.Context, session, name string) error {
	return f.svc.Communities.Leave(ctx, session, name)
}

func (f *Facade) Communities(ctx context.Context, login string) (string, error) {
	set, err := f.svc.Communities.OfUser(ctx, login)
	return set.String(), err
}

func (f *Facade) SearchCommunities(ctx context.Context, term string) (string, error) {
	set, err := f.svc.Communities.Search(ctx, term)
	return set.String(), err
}

func (f *Facade) CommunityDescription(ctx context.Context, name string) (string, error) {
	c, err := f.svc.Communities.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return c.Description, nil
}

func (f *Facade) CommunityOwner(ctx context.Context, name string) (string, error) {
	c, err := f.svc.Communities.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return c.Manager, nil
}

func (f *Facade) CommunityMembers(ctx context.Context, name string) (string, error) {
	c, err := f.svc.Communities.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return c.Members.String(), nil
}

// Idols, crushes and enemies

func (f *Facade) AddIdol(ctx context.Context, session, login string) error {
	return f.svc.Relationships.AddIdol(ctx, session, login)
}

func (f *Facade) RemoveIdol(ctx context.Context, session, login string) error {
	return f.svc.Relationships.RemoveIdol(ctx, session, login)
}

func (f *Facade) IsFan(ctx context.Context, login, idol string) (bool, error) {
	return f.svc.Relationships.IsFan(ctx, login, idol)
}

func (f *Facade) Fans(ctx context.Context, login string) (string, error) {
	set, err := f.svc.Relationships.Fans(ctx, login)
	return set.String(), err
}

func (f *Facade) Idols(ctx context.Context, session string) (string, error) {
	set, err := f.svc.Relationships.Idols(ctx, session)
	return set.String(), err
}

func (f *Facade) AddCrush(ctx context.Context, session, login string) error {
	return f.svc.Relationships.AddCrush(ctx, session, login)
}

func (f *Facade) RemoveCrush(ctx context.Context, session, login string) error {
	return f.svc.Relationships.RemoveCrush(ctx, session, login)
}

func (f *Facade) IsCrush(ctx context.Context, session, login string) (bool, error) {
	return f.svc.Relationships.IsCrush(ctx, session, login)
}

func (f *Facade) Crushes(ctx context.Context, session string) (string, error) {
	set, err := f.svc.Relationships.Crushes(ctx, session)
	return set.String(), err
}

func (f *Facade) AddEnemy(ctx context.Context, session, login string) error {
	return f.svc.Relationships.AddEnemy(ctx, session, login)
}

func (f *Facade) RemoveEnemy(ctx context.Context, session, login string) error {
	return f.svc.Relationships.RemoveEnemy(ctx, session, login)
}

func (f *Facade) IsEnemy(ctx context.Context, session, login string) (bool, error) {
	return f.svc.Relationships.IsEnemy(ctx, session, login)
}

func (f *Facade) Enemies(ctx context.Context, session string) (string, error) {
	set, err := f.svc.Relationships.Enemies(ctx, session)
	return set.String(), err
}

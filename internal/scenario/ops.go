package scenario

import (
	"context"
	"sort"
	"strconv"

	"jackut/internal/jackut"
)

// operation binds an op name to a facade call. params lists the argument keys the call
// needs, in the order they are passed to call.
type operation struct {
	params []string
	call   func(ctx context.Context, f *jackut.Facade, v []string) (string, error)
}

func none(err error) (string, error) { return "", err }

func boolean(ok bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(ok), nil
}

var operations = map[string]operation{
	"reset-system": {nil, func(ctx context.Context, f *jackut.Facade, _ []string) (string, error) {
		return none(f.ResetSystem(ctx))
	}},
	"load-system": {nil, func(ctx context.Context, f *jackut.Facade, _ []string) (string, error) {
		return none(f.LoadSystem(ctx))
	}},
	"save-system": {nil, func(ctx context.Context, f *jackut.Facade, _ []string) (string, error) {
		return none(f.SaveSystem(ctx))
	}},

	"create-user": {[]string{"login", "password", "name"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.CreateUser(ctx, v[0], v[1], v[2]))
	}},
	"get-user-attribute": {[]string{"login", "attribute"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.UserAttribute(ctx, v[0], v[1])
	}},
	"open-session": {[]string{"login", "password"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.OpenSession(ctx, v[0], v[1])
	}},
	"logout": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return boolean(f.CloseSession(ctx, v[0]))
	}},
	"edit-profile": {[]string{"session", "attribute", "value"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.EditProfile(ctx, v[0], v[1], v[2]))
	}},
	"remove-user": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.RemoveUser(ctx, v[0]))
	}},

	"is-friend": {[]string{"login", "other"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return boolean(f.IsFriend(ctx, v[0], v[1]))
	}},
	"add-friend": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.AddFriend(ctx, v[0], v[1]))
	}},
	"list-friends": {[]string{"login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Friends(ctx, v[0])
	}},
	"list-pending-requests": {[]string{"login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.PendingRequests(ctx, v[0])
	}},
	"reject-friend-request": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.RejectFriend(ctx, v[0], v[1]))
	}},

	"send-message": {[]string{"session", "to", "body"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.SendMessage(ctx, v[0], v[1], v[2]))
	}},
	"read-message": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.ReadMessage(ctx, v[0])
	}},

	"create-community": {[]string{"session", "community", "description"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.CreateCommunity(ctx, v[0], v[1], v[2]))
	}},
	"edit-community": {[]string{"session", "community", "description"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.EditCommunity(ctx, v[0], v[1], v[2]))
	}},
	"delete-community": {[]string{"session", "community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.DeleteCommunity(ctx, v[0], v[1]))
	}},
	"transfer-community": {[]string{"session", "community", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.TransferCommunity(ctx, v[0], v[1], v[2]))
	}},
	"join-community": {[]string{"session", "community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.JoinCommunity(ctx, v[0], v[1]))
	}},
	"leave-community": {[]string{"session", "community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.LeaveCommunity(ctx, v[0], v[1]))
	}},
	"list-communities": {[]string{"login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Communities(ctx, v[0])
	}},
	"search-communities": {[]string{"term"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.SearchCommunities(ctx, v[0])
	}},
	"get-community-description": {[]string{"community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.CommunityDescription(ctx, v[0])
	}},
	"get-community-owner": {[]string{"community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.CommunityOwner(ctx, v[0])
	}},
	"get-community-members": {[]string{"community"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.CommunityMembers(ctx, v[0])
	}},
	"send-community-message": {[]string{"session", "community", "body"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.SendCommunityMessage(ctx, v[0], v[1], v[2]))
	}},
	"read-community-message": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.ReadCommunityMessage(ctx, v[0])
	}},

	"add-idol": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.AddIdol(ctx, v[0], v[1]))
	}},
	"remove-idol": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.RemoveIdol(ctx, v[0], v[1]))
	}},
	"is-fan": {[]string{"login", "idol"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return boolean(f.IsFan(ctx, v[0], v[1]))
	}},
	"list-fans": {[]string{"login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Fans(ctx, v[0])
	}},
	"list-idols": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Idols(ctx, v[0])
	}},
	"add-crush": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.AddCrush(ctx, v[0], v[1]))
	}},
	"remove-crush": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.RemoveCrush(ctx, v[0], v[1]))
	}},
	"is-crush": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return boolean(f.IsCrush(ctx, v[0], v[1]))
	}},
	"list-crushes": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Crushes(ctx, v[0])
	}},
	"add-enemy": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.AddEnemy(ctx, v[0], v[1]))
	}},
	"remove-enemy": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return none(f.RemoveEnemy(ctx, v[0], v[1]))
	}},
	"is-enemy": {[]string{"session", "login"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return boolean(f.IsEnemy(ctx, v[0], v[1]))
	}},
	"list-enemies": {[]string{"session"}, func(ctx context.Context, f *jackut.Facade, v []string) (string, error) {
		return f.Enemies(ctx, v[0])
	}},
}

// Operations lists every op name a step may use, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/middleware"
	"jackut/internal/services"
)

// NewRouter wires every handler. Public reads and account creation sit at the root,
// session-scoped operations under /api/v1 and system lifecycle under /admin.
func NewRouter(svc *services.Set, adminToken string, log zerolog.Logger) *mux.Router {
	accounts := NewAccountHandler(svc.Users, svc.Auth, log)
	friends := NewFriendHandler(svc.Friends, log)
	relationships := NewRelationshipHandler(svc.Relationships, log)
	messages := NewMessageHandler(svc.Messages, log)
	communities := NewCommunityHandler(svc.Communities, log)
	admin := NewAdminHandler(svc.System, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "route not found", http.StatusNotFound)
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// public routes
	r.HandleFunc("/users", accounts.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/sessions", accounts.OpenSession).Methods(http.MethodPost)
	r.HandleFunc("/users/{login}/attributes/{attribute}", accounts.UserAttribute).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/friends", friends.ListFriends).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/friends/{other}", friends.IsFriend).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/friend-requests", friends.ListPending).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/fans", relationships.ListFans).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/idols/{idol}", relationships.IsFan).Methods(http.MethodGet)
	r.HandleFunc("/users/{login}/communities", communities.OfUser).Methods(http.MethodGet)
	r.HandleFunc("/communities", communities.Search).Methods(http.MethodGet)
	r.HandleFunc("/communities/{name}", communities.Get).Methods(http.MethodGet)

	// session-scoped routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SessionAuth(svc.Auth))

	api.HandleFunc("/session", accounts.CloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/profile", accounts.RemoveAccount).Methods(http.MethodDelete)
	api.HandleFunc("/profile/attributes/{attribute}", accounts.EditProfile).Methods(http.MethodPut)

	api.HandleFunc("/friends/{login}", friends.AddFriend).Methods(http.MethodPost)
	api.HandleFunc("/friend-requests/{login}", friends.RejectRequest).Methods(http.MethodDelete)

	api.HandleFunc("/messages", messages.Send).Methods(http.MethodPost)
	api.HandleFunc("/messages/next", messages.ReadNext).Methods(http.MethodPost)
	api.HandleFunc("/community-messages/next", messages.ReadNextCommunity).Methods(http.MethodPost)

	api.HandleFunc("/communities", communities.Create).Methods(http.MethodPost)
	api.HandleFunc("/communities/{name}", communities.Edit).Methods(http.MethodPut)
	api.HandleFunc("/communities/{name}", communities.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/communities/{name}/manager", communities.Transfer).Methods(http.MethodPut)
	api.HandleFunc("/communities/{name}/members", communities.Join).Methods(http.MethodPost)
	api.HandleFunc("/communities/{name}/members", communities.Leave).Methods(http.MethodDelete)
	api.HandleFunc("/communities/{name}/messages", messages.Broadcast).Methods(http.MethodPost)

	for _, kind := range relationships.Kinds() {
		api.HandleFunc("/"+kind, relationships.List(kind)).Methods(http.MethodGet)
		api.HandleFunc("/"+kind+"/{login}", relationships.Check(kind)).Methods(http.MethodGet)
		api.HandleFunc("/"+kind+"/{login}", relationships.Add(kind)).Methods(http.MethodPost)
		api.HandleFunc("/"+kind+"/{login}", relationships.Remove(kind)).Methods(http.MethodDelete)
	}

	// operator routes
	ops := r.PathPrefix("/admin").Subrouter()
	ops.Use(middleware.AdminAuth(adminToken))
	ops.HandleFunc("/reset", admin.Reset).Methods(http.MethodPost)
	ops.HandleFunc("/load", admin.Load).Methods(http.MethodPost)
	ops.HandleFunc("/save", admin.Save).Methods(http.MethodPost)

	return r
}

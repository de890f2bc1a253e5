package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/services"
)

// FriendHandler serves friendship queries and requests.
type FriendHandler struct {
	friends services.FriendshipService
	log     zerolog.Logger
}

func NewFriendHandler(friends services.FriendshipService, log zerolog.Logger) *FriendHandler {
	return &FriendHandler{friends: friends, log: log}
}

// ListFriends handles GET /users/{login}/friends.
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	set, err := h.friends.Friends(r.Context(), mux.Vars(r)["login"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, listOf(set))
}

// IsFriend handles GET /users/{login}/friends/{other}.
func (h *FriendHandler) IsFriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := h.friends.IsFriend(r.Context(), vars["login"], vars["other"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, BoolResponse{Result: ok})
}

// ListPending handles GET /users/{login}/friend-requests.
func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	set, err := h.friends.PendingRequests(r.Context(), mux.Vars(r)["login"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, listOf(set))
}

// AddFriend handles POST /api/v1/friends/{login}: a request, or an acceptance when the
// other user already asked.
func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.friends.AddFriend(r.Context(), s, mux.Vars(r)["login"]); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// RejectRequest handles DELETE /api/v1/friend-requests/{login}.
func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.friends.RejectRequest(r.Context(), s, mux.Vars(r)["login"]); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

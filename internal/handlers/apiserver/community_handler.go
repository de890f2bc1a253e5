package apiserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/services"
)

// CommunityHandler serves community queries and management.
type CommunityHandler struct {
	communities services.CommunityService
	log         zerolog.Logger
}

func NewCommunityHandler(communities services.CommunityService, log zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{communities: communities, log: log}
}

// CommunityView is the public shape of a community; the broadcast log stays private.
type CommunityView struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Manager     string    `json:"manager"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type EditCommunityRequest struct {
	Description string `json:"description"`
}

type TransferCommunityRequest struct {
	Login string `json:"login"`
}

// Search handles GET /communities?q=term.
func (h *CommunityHandler) Search(w http.ResponseWriter, r *http.Request) {
	set, err := h.communities.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, listOf(set))
}

// Get handles GET /communities/{name}.
func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.communities.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, CommunityView{
		Name:        c.Name,
		Description: c.Description,
		Manager:     c.Manager,
		Members:     listOf(c.Members).Items,
		CreatedAt:   c.CreatedAt,
	})
}

// OfUser handles GET /users/{login}/communities.
func (h *CommunityHandler) OfUser(w http.ResponseWriter, r *http.Request) {
	set, err := h.communities.OfUser(r.Context(), mux.Vars(r)["login"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, listOf(set))
}

// Create handles POST /api/v1/communities.
func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req CreateCommunityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.communities.Create(r.Context(), s, req.Name, req.Description); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, ValueResponse{Value: req.Name})
}

// Edit handles PUT /api/v1/communities/{name}.
func (h *CommunityHandler) Edit(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req EditCommunityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.communities.Edit(r.Context(), s, mux.Vars(r)["name"], req.Description); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/v1/communities/{name}.
func (h *CommunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.communities.Delete(r.Context(), s, mux.Vars(r)["name"]); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// Transfer handles PUT /api/v1/communities/{name}/manager.
func (h *CommunityHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req TransferCommunityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.communities.Transfer(r.Context(), s, mux.Vars(r)["name"], req.Login); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// Join handles POST /api/v1/communities/{name}/members.
func (h *CommunityHandler) Join(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.communities.Join(r.Context(), s, mux.Vars(r)["name"]); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// Leave handles DELETE /api/v1/communities/{name}/members.
func (h *CommunityHandler) Leave(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.communities.Leave(r.Context(), s, mux.Vars(r)["name"]); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

package apiserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/middleware"
	"jackut/internal/models"
	"jackut/internal/services"
)

// relation bundles the session-scoped operations of one relationship kind.
type relation struct {
	add    func(ctx context.Context, session, login string) error
	remove func(ctx context.Context, session, login string) error
	list   func(ctx context.Context, session string) (models.OrderedSet, error)
	check  func(ctx context.Context, session, login string) (bool, error)
}

// RelationshipHandler serves idols, crushes and enemies. Routes are registered per kind
// under /api/v1/{kind}.
type RelationshipHandler struct {
	rel       services.RelationshipService
	relations map[string]relation
	log       zerolog.Logger
}

func NewRelationshipHandler(rel services.RelationshipService, log zerolog.Logger) *RelationshipHandler {
	h := &RelationshipHandler{rel: rel, log: log}
	h.relations = map[string]relation{
		// is-fan needs the caller's login rather than the session, see isIdol
		"idols":   {add: rel.AddIdol, remove: rel.RemoveIdol, list: rel.Idols},
		"crushes": {add: rel.AddCrush, remove: rel.RemoveCrush, list: rel.Crushes, check: rel.IsCrush},
		"enemies": {add: rel.AddEnemy, remove: rel.RemoveEnemy, list: rel.Enemies, check: rel.IsEnemy},
	}
	return h
}

// Kinds lists the relation path segments.
func (h *RelationshipHandler) Kinds() []string { return []string{"idols", "crushes", "enemies"} }

// ListFans handles GET /users/{login}/fans.
func (h *RelationshipHandler) ListFans(w http.ResponseWriter, r *http.Request) {
	set, err := h.rel.Fans(r.Context(), mux.Vars(r)["login"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, listOf(set))
}

// IsFan handles GET /users/{login}/idols/{idol}.
func (h *RelationshipHandler) IsFan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := h.rel.IsFan(r.Context(), vars["login"], vars["idol"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, BoolResponse{Result: ok})
}

// Add handles POST /api/v1/{kind}/{login}.
func (h *RelationshipHandler) Add(kind string) http.HandlerFunc {
	rel := h.relations[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session(w, r)
		if !ok {
			return
		}
		if err := rel.add(r.Context(), s, mux.Vars(r)["login"]); err != nil {
			writeAppError(w, h.log, err)
			return
		}
		writeJSONResponse(w, http.StatusNoContent, nil)
	}
}

// Remove handles DELETE /api/v1/{kind}/{login}.
func (h *RelationshipHandler) Remove(kind string) http.HandlerFunc {
	rel := h.relations[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session(w, r)
		if !ok {
			return
		}
		if err := rel.remove(r.Context(), s, mux.Vars(r)["login"]); err != nil {
			writeAppError(w, h.log, err)
			return
		}
		writeJSONResponse(w, http.StatusNoContent, nil)
	}
}

// List handles GET /api/v1/{kind}.
func (h *RelationshipHandler) List(kind string) http.HandlerFunc {
	rel := h.relations[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session(w, r)
		if !ok {
			return
		}
		set, err := rel.list(r.Context(), s)
		if err != nil {
			writeAppError(w, h.log, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, listOf(set))
	}
}

// Check handles GET /api/v1/{kind}/{login}.
func (h *RelationshipHandler) Check(kind string) http.HandlerFunc {
	rel := h.relations[kind]
	if rel.check == nil {
		return h.isIdol
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session(w, r)
		if !ok {
			return
		}
		yes, err := rel.check(r.Context(), s, mux.Vars(r)["login"])
		if err != nil {
			writeAppError(w, h.log, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, BoolResponse{Result: yes})
	}
}

// isIdol answers whether the caller is a fan of {login}.
func (h *RelationshipHandler) isIdol(w http.ResponseWriter, r *http.Request) {
	login, ok := middleware.GetLoginFromContext(r.Context())
	if !ok {
		writeJSONError(w, "request is not authenticated", http.StatusUnauthorized)
		return
	}
	yes, err := h.rel.IsFan(r.Context(), login, mux.Vars(r)["login"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, BoolResponse{Result: yes})
}

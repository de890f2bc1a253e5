package apiserver

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/apperrors"
	"jackut/internal/services"
)

// AccountHandler serves registration, sessions and the caller's profile.
type AccountHandler struct {
	users services.UserService
	auth  services.AuthService
	log   zerolog.Logger
}

func NewAccountHandler(users services.UserService, auth services.AuthService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{users: users, auth: auth, log: log}
}

type CreateUserRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type OpenSessionRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// OpenSessionResponse carries the session token for the API and, when it could be
// minted, a stream token for the notification socket.
type OpenSessionResponse struct {
	Session     string `json:"session"`
	StreamToken string `json:"streamToken,omitempty"`
}

type CloseSessionRequest struct {
	StreamToken string `json:"streamToken,omitempty"`
}

type EditProfileRequest struct {
	Value string `json:"value"`
}

// CreateUser handles POST /users.
func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.Create(r.Context(), req.Login, req.Password, req.Name); err != nil {
		// malformed credentials are a bad request here, not an authentication failure
		if errors.Is(err, apperrors.ErrInvalidCredential) {
			writeJSONError(w, apperrors.MessageOf(err), http.StatusBadRequest)
			return
		}
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, ValueResponse{Value: req.Login})
}

// UserAttribute handles GET /users/{login}/attributes/{attribute}.
func (h *AccountHandler) UserAttribute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, err := h.users.Attribute(r.Context(), vars["login"], vars["attribute"])
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, ValueResponse{Value: value})
}

// OpenSession handles POST /sessions.
func (h *AccountHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.auth.OpenSession(r.Context(), req.Login, req.Password)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}

	resp := OpenSessionResponse{Session: token}
	stream, err := h.auth.IssueStreamToken(r.Context(), token)
	if err != nil {
		h.log.Warn().Err(err).Str("login", req.Login).Msg("could not issue stream token")
	} else {
		resp.StreamToken = stream
	}
	writeJSONResponse(w, http.StatusCreated, resp)
}

// CloseSession handles DELETE /api/v1/session. A stream token in the body is revoked too.
func (h *AccountHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req CloseSessionRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	existed, err := h.auth.CloseSession(r.Context(), s)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	if req.StreamToken != "" {
		if err := h.auth.RevokeStreamToken(r.Context(), req.StreamToken); err != nil && !errors.Is(err, services.ErrStreamTokensDisabled) {
			h.log.Warn().Err(err).Msg("could not revoke stream token")
		}
	}
	writeJSONResponse(w, http.StatusOK, BoolResponse{Result: existed})
}

// EditProfile handles PUT /api/v1/profile/attributes/{attribute}.
func (h *AccountHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req EditProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.EditProfile(r.Context(), s, mux.Vars(r)["attribute"], req.Value); err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredential) {
			writeJSONError(w, apperrors.MessageOf(err), http.StatusBadRequest)
			return
		}
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// RemoveAccount handles DELETE /api/v1/profile.
func (h *AccountHandler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.users.Remove(r.Context(), s); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

package apiserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"jackut/internal/apperrors"
	"jackut/internal/middleware"
	"jackut/internal/models"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse carries a login or community list in its stored order.
type ListResponse struct {
	Items []string `json:"items"`
}

// BoolResponse answers yes/no queries.
type BoolResponse struct {
	Result bool `json:"result"`
}

// ValueResponse answers single-value queries.
type ValueResponse struct {
	Value string `json:"value"`
}

func listOf(set models.OrderedSet) ListResponse {
	items := make([]string, len(set))
	copy(items, set)
	return ListResponse{Items: items}
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindUserNotFound, apperrors.KindCommunityNotFound, apperrors.KindNoMessages,
		apperrors.KindNoPendingRequest, apperrors.KindNotInRelation:
		return http.StatusNotFound
	case apperrors.KindSessionNotFound, apperrors.KindInvalidCredential:
		return http.StatusUnauthorized
	case apperrors.KindDuplicateUser, apperrors.KindDuplicateCommunity, apperrors.KindAlreadyMember,
		apperrors.KindAlreadyAdded, apperrors.KindAlreadyFriends, apperrors.KindAlreadyPending:
		return http.StatusConflict
	case apperrors.KindSelfReference, apperrors.KindNotFilledAttribute:
		return http.StatusBadRequest
	case apperrors.KindNotManager, apperrors.KindEnemyBlock, apperrors.KindManagerCannotLeave, apperrors.KindNotMember:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeAppError renders err with its user-facing message. Failures outside the domain
// are logged and hidden behind a generic message.
func writeAppError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := statusFor(err)
	var appErr *apperrors.Error
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		if !errors.As(err, &appErr) {
			writeJSONError(w, "internal server error", status)
			return
		}
		writeJSONError(w, appErr.Message(), status)
		return
	}
	writeJSONError(w, apperrors.MessageOf(err), status)
}

// decodeJSON decodes the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// session returns the authenticated session token put in the context by SessionAuth.
func session(w http.ResponseWriter, r *http.Request) (string, bool) {
	s, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSONError(w, "request is not authenticated", http.StatusUnauthorized)
	}
	return s, ok
}

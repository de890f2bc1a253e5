package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jackut/internal/services"
)

// MessageHandler serves direct and community messages.
type MessageHandler struct {
	messages services.MessageService
	log      zerolog.Logger
}

func NewMessageHandler(messages services.MessageService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

type SendMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type BroadcastRequest struct {
	Body string `json:"body"`
}

// Send handles POST /api/v1/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.messages.Send(r.Context(), s, req.To, req.Body); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, nil)
}

// ReadNext handles POST /api/v1/messages/next. Reading consumes the message, hence POST.
func (h *MessageHandler) ReadNext(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	msg, err := h.messages.Read(r.Context(), s)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, msg)
}

// Broadcast handles POST /api/v1/communities/{name}/messages.
func (h *MessageHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req BroadcastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.messages.Broadcast(r.Context(), s, mux.Vars(r)["name"], req.Body); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, nil)
}

// ReadNextCommunity handles POST /api/v1/community-messages/next.
func (h *MessageHandler) ReadNextCommunity(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	msg, err := h.messages.ReadCommunity(r.Context(), s)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, msg)
}

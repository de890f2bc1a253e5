package chatserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"jackut/internal/auth"
	"jackut/internal/config"
	ws "jackut/internal/websocket"
)

// WebSocketHandler authenticates notification sockets with a stream token.
type WebSocketHandler struct {
	hub       *ws.Hub
	cfg       config.Config
	blacklist auth.TokenBlacklist
	log       zerolog.Logger
}

func NewWebSocketHandler(hub *ws.Hub, cfg config.Config, blacklist auth.TokenBlacklist, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, cfg: cfg, blacklist: blacklist, log: log}
}

// ServeWS expects GET <path>?token=<stream token>.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(r.Context(), token, h.cfg.Auth.JWTSecretKey, h.blacklist)
	if err != nil {
		h.log.Info().Err(err).Msg("websocket connection rejected")
		if errors.Is(err, auth.ErrTokenRevoked) {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	h.log.Debug().Str("login", claims.Login).Msg("websocket connection accepted")
	ws.ServeWs(h.hub, claims.Login, w, r, h.cfg.WebSocket)
}

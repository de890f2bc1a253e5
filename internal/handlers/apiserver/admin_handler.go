package apiserver

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"jackut/internal/services"
)

// AdminHandler exposes the system lifecycle to operators.
type AdminHandler struct {
	system services.SystemService
	log    zerolog.Logger
}

func NewAdminHandler(system services.SystemService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{system: system, log: log}
}

func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "reset", h.system.Reset)
}

func (h *AdminHandler) Load(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "load", h.system.Load)
}

func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "save", h.system.Save)
}

func (h *AdminHandler) run(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context) error) {
	if err := fn(r.Context()); err != nil {
		writeAppError(w, h.log, err)
		return
	}
	h.log.Info().Str("op", op).Str("remote", r.RemoteAddr).Msg("admin operation done")
	writeJSONResponse(w, http.StatusNoContent, nil)
}

package history

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/db"
	"hris/internal/middleware"
	"hris/internal/project"
)

type Handler struct {
	DB db.Querier
}

func NewHandler(q db.Querier) *Handler {
	return &Handler{DB: q}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}/all-contract-history", h.handleListByUser)
	r.Get("/contract-history/stats", h.handleStats)
}

func (h *Handler) recorder(r *http.Request) (*Recorder, error) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		return nil, err
	}
	return NewRecorder(h.DB, cfg), nil
}

func (h *Handler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recorder(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	entries, err := rec.ListByUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, "contract history", entries)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recorder(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	stats, err := rec.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, "contract history stats", stats)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, project.ErrUnknownProject) {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("contract history query failed", "path", r.URL.Path, "requestId", middleware.GetRequestID(r.Context()), "err", err)
	api.Fail(w, http.StatusInternalServerError, "internal server error")
}

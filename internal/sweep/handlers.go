package sweep

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/employee"
	"hris/internal/project"
)

type Handler struct {
	DB db.Querier
}

func NewHandler(q db.Querier) *Handler {
	return &Handler{DB: q}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/check-expired", h.handleCheckExpired)
}

func (h *Handler) handleCheckExpired(w http.ResponseWriter, r *http.Request) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	result, err := Run(r.Context(), h.DB, cfg, dateutil.Today())
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	slog.Info("expired contracts swept", "project", cfg.Key, "marked", result.Marked)
	api.Success(w, "expired contracts marked", result)
}

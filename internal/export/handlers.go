package export

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/employee"
	"hris/internal/history"
	"hris/internal/project"
)

type Handler struct {
	DB db.Querier
}

func NewHandler(q db.Querier) *Handler {
	return &Handler{DB: q}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}/contract-summary/pdf", h.handleContractSummary)
}

func (h *Handler) handleContractSummary(w http.ResponseWriter, r *http.Request) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	rec, err := employee.NewStore(h.DB, cfg).GetByID(r.Context(), id)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}
	entries, err := history.NewRecorder(h.DB, cfg).ListByUser(r.Context(), id)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	data, err := ContractSummaryPDF(cfg, rec, entries, dateutil.Today())
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"kontrak_%s_%d.pdf\"", cfg.Key, id))
	w.Write(data)
}

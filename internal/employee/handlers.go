package employee

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/contract"
	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/history"
	"hris/internal/middleware"
	"hris/internal/project"
	"hris/internal/requestctx"
)

type Handler struct {
	DB db.Pool
}

func NewHandler(pool db.Pool) *Handler {
	return &Handler{DB: pool}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/edit", h.handleListActive)
	r.Get("/na", h.handleListNA)
	r.Get("/view", h.handleView)

	r.Post("/users", h.handleCreate)
	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
		r.Put("/na", h.handleSetInactive)
		r.Put("/restore", h.handleRestore)
	})
}

func (h *Handler) service(r *http.Request) (*Service, project.Config, error) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		return nil, project.Config{}, err
	}
	store := NewStore(h.DB, cfg)
	recorder := history.NewRecorder(h.DB, cfg)
	return NewService(store, recorder, h.DB), cfg, nil
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	svc, cfg, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	records, err := svc.Store.ListActive(r.Context(), dateutil.Today())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if !wantsJSON(r) {
		renderListHTML(w, cfg.Label+" - Karyawan Aktif", records)
		return
	}
	api.Success(w, "active employees", records)
}

func (h *Handler) handleListNA(w http.ResponseWriter, r *http.Request) {
	svc, cfg, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	records, err := svc.Store.ListNA(r.Context(), dateutil.Today())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if !wantsJSON(r) {
		renderListHTML(w, cfg.Label+" - Karyawan Non-Aktif", records)
		return
	}
	api.Success(w, "non-active employees", records)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	rows, err := svc.Store.ListView(r.Context(), dateutil.Today())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, "employee view", rows)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := svc.Create(r.Context(), in, dateutil.Today())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Created(w, "employee created", rec)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	rec, err := svc.Store.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, "employee found", rec)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := svc.Update(r.Context(), id, in, requestctx.GetActor(r.Context()), dateutil.Today())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, "employee updated", result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := svc.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, "employee deleted", nil)
}

func (h *Handler) handleSetInactive(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var body struct {
		SebabNA string `json:"sebab_na"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := svc.SetInactive(r.Context(), id, strings.TrimSpace(body.SebabNA))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, "employee marked non-active", rec)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.service(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	result, err := svc.Restore(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	api.Success(w, result.Message, result)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// WriteError maps domain errors onto the response envelope. Shared by the
// sibling handler packages so every endpoint fails the same way.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		api.FailWithDetails(w, http.StatusBadRequest, "payload validation failed", vErr.Issues)
	case errors.Is(err, contract.ErrRestoreRequiresContractChange),
		errors.Is(err, contract.ErrAlreadyActive):
		api.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDocTypeInvalid):
		api.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoDocument), errors.Is(err, project.ErrUnknownProject):
		api.Fail(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "path", r.URL.Path, "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	// Browsers advertise text/html; API clients do not.
	return !strings.Contains(r.Header.Get("Accept"), "text/html")
}

var listTemplate = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html><head><title>{{.Title}}</title></head><body>
<h1>{{.Title}}</h1>
<table border="1">
<tr><th>Nama</th><th>Jabatan</th><th>No Kontrak</th><th>Kontrak Awal</th><th>Kontrak Akhir</th><th>Sebab NA</th></tr>
{{range .Records}}<tr>
<td>{{.NamaKaryawan}}</td>
<td>{{if .Jabatan}}{{.Jabatan}}{{else}}-{{end}}</td>
<td>{{.NoKontrak}}</td>
<td>{{.KontrakAwalDisplay}}</td>
<td>{{.KontrakAkhirDisplay}}</td>
<td>{{if .SebabNA}}{{.SebabNA}}{{else}}-{{end}}</td>
</tr>{{end}}
</table></body></html>
`))

type listRow struct {
	NamaKaryawan        string
	Jabatan             *string
	NoKontrak           string
	KontrakAwalDisplay  string
	KontrakAkhirDisplay string
	SebabNA             *string
}

func renderListHTML(w http.ResponseWriter, title string, records []Record) {
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, listRow{
			NamaKaryawan:        rec.NamaKaryawan,
			Jabatan:             rec.Jabatan,
			NoKontrak:           rec.NoKontrak,
			KontrakAwalDisplay:  dateutil.ToDisplay(rec.KontrakAwal),
			KontrakAkhirDisplay: dateutil.ToDisplay(rec.KontrakAkhir),
			SebabNA:             rec.SebabNA,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listTemplate.Execute(w, map[string]any{"Title": title, "Records": rows}); err != nil {
		slog.Warn("render list html failed", "err", err)
	}
}

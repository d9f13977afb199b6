package certificate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/dateutil"
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
	r.Get("/users/{id}/certificates", h.handleList)
	r.Post("/users/{id}/certificates", h.handleCreate)
	r.Put("/certificates/{certID}", h.handleUpdate)
	r.Delete("/certificates/{certID}", h.handleDelete)
}

type input struct {
	JudulSertifikat string `json:"judul_sertifikat"`
	BerlakuMulai    string `json:"berlaku_mulai"`
	BerlakuSampai   string `json:"berlaku_sampai"`
}

func (in input) clean() (Certificate, error) {
	if strings.TrimSpace(in.JudulSertifikat) == "" {
		return Certificate{}, errors.New("judul_sertifikat is required")
	}
	cert := Certificate{JudulSertifikat: strings.TrimSpace(in.JudulSertifikat)}

	for _, field := range []struct {
		raw  string
		dest **string
	}{
		{in.BerlakuMulai, &cert.BerlakuMulai},
		{in.BerlakuSampai, &cert.BerlakuSampai},
	} {
		if field.raw == "" {
			continue
		}
		if err := dateutil.ValidateStrict(field.raw); err != nil {
			return Certificate{}, err
		}
		normalized := dateutil.ToStorage(field.raw)
		*field.dest = &normalized
	}
	return cert, nil
}

func (h *Handler) store(r *http.Request) (*Store, error) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		return nil, err
	}
	return NewStore(h.DB, cfg), nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	certs, err := store.ListByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, "certificates", certs)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var in input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cert, err := in.clean()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := store.Create(r.Context(), userID, cert)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, "certificate created", created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	certID, err := strconv.ParseInt(chi.URLParam(r, "certID"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid certificate id")
		return
	}

	var in input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cert, err := in.clean()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := store.Update(r.Context(), certID, cert)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, "certificate updated", updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}

	certID, err := strconv.ParseInt(chi.URLParam(r, "certID"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid certificate id")
		return
	}

	if err := store.Delete(r.Context(), certID); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, "certificate deleted", nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		api.Fail(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("certificate operation failed", "path", r.URL.Path, "requestId", middleware.GetRequestID(r.Context()), "err", err)
	api.Fail(w, http.StatusInternalServerError, "internal server error")
}

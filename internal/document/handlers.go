package document

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/db"
	"hris/internal/employee"
	"hris/internal/project"
)

type Handler struct {
	DB       db.Querier
	Storage  *Storage
	MaxBytes int64
}

func NewHandler(q db.Querier, storage *Storage, maxBytes int64) *Handler {
	return &Handler{DB: q, Storage: storage, MaxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users/{id}/upload/{docType}", h.handleUpload)
	r.Get("/users/{id}/download/{docType}", h.handleDownload)
	r.Delete("/users/{id}/delete-file/{docType}", h.handleDelete)
}

func (h *Handler) store(r *http.Request) (*employee.Store, project.Config, error) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		return nil, project.Config{}, err
	}
	return employee.NewStore(h.DB, cfg), cfg, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	store, cfg, err := h.store(r)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	docType := chi.URLParam(r, "docType")
	if !cfg.AllowsDocType(docType) {
		employee.WriteError(w, r, employee.ErrDocTypeInvalid)
		return
	}

	// Reject oversized uploads before buffering the whole body.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		api.Fail(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	// Ensure the employee exists before touching the disk.
	if _, err := store.GetByID(r.Context(), id); err != nil {
		employee.WriteError(w, r, err)
		return
	}

	path, mimetype, size, err := h.Storage.Save(cfg.Key, id, docType, header, file)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	meta := employee.FileMeta{
		Filename: header.Filename,
		Filepath: path,
		Mimetype: mimetype,
		Filesize: size,
	}
	prevPath, err := store.AttachDocument(r.Context(), id, docType, meta)
	if err != nil {
		h.Storage.Remove(path)
		employee.WriteError(w, r, err)
		return
	}
	if prevPath != "" && prevPath != path {
		h.Storage.Remove(prevPath)
	}

	api.Success(w, "document uploaded", meta)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	store, _, err := h.store(r)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	meta, err := store.GetDocument(r.Context(), id, chi.URLParam(r, "docType"))
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	if meta.Mimetype != "" {
		w.Header().Set("Content-Type", meta.Mimetype)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+meta.Filename+"\"")
	http.ServeFile(w, r, meta.Filepath)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	store, _, err := h.store(r)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	prevPath, err := store.ClearDocument(r.Context(), id, chi.URLParam(r, "docType"))
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}
	h.Storage.Remove(prevPath)

	api.Success(w, "document deleted", nil)
}

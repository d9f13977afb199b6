package bulkimport

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/api"
	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/employee"
	"hris/internal/project"
)

type Handler struct {
	DB       db.TxBeginner
	MaxBytes int64
}

func NewHandler(beginner db.TxBeginner, maxBytes int64) *Handler {
	return &Handler{DB: beginner, MaxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/template/csv", h.handleTemplateCSV)
	r.Get("/template/xlsx", h.handleTemplateXLSX)
	r.Post("/upload-bulk", h.handleUpload)
}

func (h *Handler) handleTemplateCSV(w http.ResponseWriter, r *http.Request) {
	data, err := TemplateCSV()
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"template_import.csv\"")
	w.Write(data)
}

func (h *Handler) handleTemplateXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := TemplateXLSX()
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"template_import.xlsx\"")
	w.Write(data)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	cfg, err := project.Lookup(chi.URLParam(r, "project"))
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

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

	data, err := io.ReadAll(file)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	rows, err := Parse(header.Filename, data)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(rows) == 0 {
		api.Fail(w, http.StatusBadRequest, "file contains no data rows")
		return
	}

	result, err := h.importRows(r, cfg, rows)
	if err != nil {
		employee.WriteError(w, r, err)
		return
	}

	if result.Failed > 0 {
		api.WriteJSON(w, http.StatusOK, api.Envelope{
			Success: true,
			Message: "import finished with errors",
			Data:    result,
			Error:   result.Errors,
		})
		return
	}
	api.Success(w, "import finished", result)
}

func (h *Handler) importRows(r *http.Request, cfg project.Config, rows []Row) (Result, error) {
	return Import(r.Context(), h.DB, cfg, rows, dateutil.Today())
}

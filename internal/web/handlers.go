package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/staffdeck/importer/internal/core"
)

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDownloadTemplate returns the canonical import template. The format
// query parameter selects the encoding: "csv" (default) or "xlsx".
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	contract := s.service.Contract()
	example := core.ExampleRow()

	switch r.URL.Query().Get("format") {
	case "", "csv":
		data, err := core.EmitTemplateCSV(contract, example)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="employee_template.csv"`)
		w.Write(data)

	case "xlsx":
		data, err := core.EmitTemplateXLSX(contract, example)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="employee_template.xlsx"`)
		w.Write(data)

	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

// handleImport accepts a multipart upload and runs the full import.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	fileName, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.service.ProcessImport(r.Context(), fileName, data)
	if err != nil {
		s.respondError(w, r, err, importStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// importStatus maps a service error to an HTTP status: an upload the service
// could not decode is the client's problem, anything else (transaction
// begin/commit, query failures) is ours.
func importStatus(err error) int {
	if errors.Is(err, core.ErrUnreadableFile) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// handlePreview accepts a multipart upload and runs a read-only dry run.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	fileName, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	preview, err := s.service.AnalyzeImport(r.Context(), fileName, data)
	if err != nil {
		s.respondError(w, r, err, importStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// handleListEmployees returns a page of imported employees.
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	employees, err := s.service.ListEmployees(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"employees": employees,
		"limit":     limit,
		"offset":    offset,
	})
}

// readUpload extracts the uploaded file from a multipart request, enforcing
// the configured size cap. On failure it writes the error response and
// returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d byte limit", maxSize))
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `missing "file" form field`)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return "", nil, false
	}

	return header.Filename, data, true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

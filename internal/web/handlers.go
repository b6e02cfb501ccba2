package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/tablediff"
	"github.com/nao1215/tablediff/domain/model"
	"github.com/nao1215/tablediff/internal/logging"
)

// compareResponse is the JSON body returned by the compare endpoint.
type compareResponse struct {
	ID             string              `json:"id"`
	TableA         string              `json:"table_a"`
	TableB         string              `json:"table_b"`
	Key            []string            `json:"key,omitempty"`
	Positional     bool                `json:"positional"`
	Summary        summaryResponse     `json:"summary"`
	ColumnsAdded   []string            `json:"columns_added,omitempty"`
	ColumnsRemoved []string            `json:"columns_removed,omitempty"`
	Candidates     []candidateResponse `json:"candidates,omitempty"`
}

type summaryResponse struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

type candidateResponse struct {
	Columns []string `json:"columns"`
	Score   float64  `json:"score"`
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleCompare loads two uploaded files, diffs them and stores the
// result for download. Optional SQL scripts are attached as a line diff.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tableA, err := s.loadFormTable(r, "fileA")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tableB, err := s.loadFormTable(r, "fileB")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := s.compareOptions(r)
	// Rules-file key pins apply when the request names no key
	if len(opts.Key) == 0 && !opts.Positional {
		if key := s.cfg.Compare.KeyFor(tableA.Name()); key != nil {
			opts = opts.WithKey(key...)
		}
	}

	result, err := tablediff.Compare(r.Context(), tableA, tableB, opts)
	if err != nil {
		writeError(w, compareStatus(err), err.Error())
		return
	}

	if err := s.attachScripts(r, result); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.store.Put(result)
	logger.Info("comparison finished",
		"id", id,
		"table_a", result.TableA,
		"table_b", result.TableB,
		"key", strings.Join(result.Key, ","),
		"positional", result.Positional,
	)

	writeJSON(w, newCompareResponse(id, result))
}

// handleSuggest loads two uploaded files and returns the ranked key
// candidates without running the diff.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tableA, err := s.loadFormTable(r, "fileA")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tableB, err := s.loadFormTable(r, "fileB")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates := tablediff.SuggestKeys(tableA, tableB, s.compareOptions(r))
	response := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		response = append(response, candidateResponse{Columns: c.Columns, Score: c.Score})
	}
	writeJSON(w, map[string]interface{}{"candidates": response})
}

// handleDownloadResult streams a stored comparison result as an XLSX
// workbook.
func (s *Server) handleDownloadResult(w http.ResponseWriter, r *http.Request) {
	resultID := chi.URLParam(r, "resultID")
	result := s.store.Get(resultID)
	if result == nil {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison_results.xlsx"`)
	if err := result.WriteXLSX(w); err != nil {
		// Headers are already sent; log and drop the connection
		logging.FromContext(r.Context()).Error("workbook write failed", "id", resultID, "error", err)
	}
}

// loadFormTable reads one multipart file field into a table.
func (s *Server) loadFormTable(r *http.Request, field string) (*model.Table, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file field %q", field)
	}
	defer file.Close()

	table, err := tablediff.LoadTableFromReader(file, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return table, nil
}

// attachScripts adds a line diff of the optional sqlA/sqlB uploads.
// Both must be present for an overlay; one without the other is an error.
func (s *Server) attachScripts(r *http.Request, result *tablediff.Result) error {
	scriptA, err := s.loadFormScript(r, "sqlA")
	if err != nil {
		return err
	}
	scriptB, err := s.loadFormScript(r, "sqlB")
	if err != nil {
		return err
	}
	if scriptA == nil && scriptB == nil {
		return nil
	}
	if scriptA == nil || scriptB == nil {
		return errors.New("sqlA and sqlB must be uploaded together")
	}

	tablediff.CompareScripts(result, scriptA, scriptB)
	return nil
}

// loadFormScript reads an optional multipart SQL field. A missing field
// is not an error; it returns (nil, nil).
func (s *Server) loadFormScript(r *http.Request, field string) (*model.Table, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid file field %q", field)
	}
	defer file.Close()

	script, err := tablediff.LoadTableFromReader(file, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return script, nil
}

// compareOptions builds comparison options from the server tuning plus
// per-request form overrides.
func (s *Server) compareOptions(r *http.Request) tablediff.Options {
	opts := tablediff.NewOptions().
		WithUniquenessThreshold(s.cfg.Compare.UniquenessThreshold).
		WithNamePenalty(s.cfg.Compare.NamePenalty)
	if len(s.cfg.Compare.NullLiterals) > 0 {
		opts = opts.WithNullLiterals(s.cfg.Compare.NullLiterals...)
	}

	if key := r.FormValue("key"); key != "" {
		columns := strings.Split(key, ",")
		for i := range columns {
			columns[i] = strings.TrimSpace(columns[i])
		}
		opts = opts.WithKey(columns...)
	}
	if r.FormValue("positional") == "true" {
		opts = opts.WithPositional()
	}
	return opts
}

// newCompareResponse converts a result to its JSON form.
func newCompareResponse(id string, result *tablediff.Result) compareResponse {
	summary := result.Summary()
	candidates := make([]candidateResponse, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		candidates = append(candidates, candidateResponse{Columns: c.Columns, Score: c.Score})
	}

	return compareResponse{
		ID:         id,
		TableA:     result.TableA,
		TableB:     result.TableB,
		Key:        result.Key,
		Positional: result.Positional,
		Summary: summaryResponse{
			Added:     summary.Added,
			Removed:   summary.Removed,
			Changed:   summary.Changed,
			Unchanged: summary.Unchanged,
		},
		ColumnsAdded:   result.ColumnsAdded,
		ColumnsRemoved: result.ColumnsRemoved,
		Candidates:     candidates,
	}
}

// compareStatus maps a comparison failure to an HTTP status.
func compareStatus(err error) int {
	switch {
	case errors.Is(err, tablediff.ErrDuplicateKey),
		errors.Is(err, tablediff.ErrKeyColumnNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}


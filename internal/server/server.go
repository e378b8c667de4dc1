// Package server exposes the quality pipeline over HTTP: upload a
// spreadsheet, get the quality report back as JSON.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tserra/finqc/internal/ingest"
	"github.com/tserra/finqc/internal/normalize"
	"github.com/tserra/finqc/internal/pipeline"
	"github.com/tserra/finqc/internal/rules"
)

const maxUploadBytes = 32 << 20

// Server wires the pipeline behind a chi router.
type Server struct {
	engine   *rules.Engine
	synonyms normalize.SynonymTable
}

// New builds a Server. Nil arguments fall back to the baseline rule
// set and default synonyms.
func New(engine *rules.Engine, synonyms normalize.SynonymTable) *Server {
	if engine == nil {
		engine = rules.NewEngine()
	}
	return &Server{engine: engine, synonyms: synonyms}
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/v1/rules", s.handleRules)
	r.Post("/v1/check", s.handleCheck)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRules lists the registered rule set.
func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	type ruleInfo struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	}
	out := make([]ruleInfo, 0, len(s.engine.Rules()))
	for _, r := range s.engine.Rules() {
		out = append(out, ruleInfo{Code: r.Code, Description: r.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCheck accepts a multipart upload (field "file", .xlsx or .csv)
// plus optional "sheet", "header_row", and "decimal" form values, runs
// the pipeline, and returns the quality report. Data problems come
// back inside the report; only structural problems are HTTP errors.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close() //nolint:errcheck

	headerRow := 1
	if v := r.FormValue("header_row"); v != "" {
		headerRow, err = strconv.Atoi(v)
		if err != nil || headerRow < 1 {
			writeError(w, http.StatusBadRequest, "header_row must be a positive integer")
			return
		}
	}

	// ingest dispatches on extension, so keep the upload's name.
	tmp, err := os.CreateTemp("", "finqc-upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot buffer upload")
		return
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close() //nolint:errcheck
		writeError(w, http.StatusInternalServerError, "cannot buffer upload")
		return
	}
	tmp.Close() //nolint:errcheck

	tbl, err := ingest.Read(tmp.Name(), ingest.Options{
		Sheet:     r.FormValue("sheet"),
		HeaderRow: headerRow,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := pipeline.RunTable(r.Context(), tbl, pipeline.Options{
		Synonyms: s.synonyms,
		Decimal:  normalize.DecimalConvention(r.FormValue("decimal")),
		Engine:   s.engine,
	})
	if err != nil {
		var schemaErr *normalize.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusUnprocessableEntity, schemaErr.Error())
			return
		}
		zap.L().Error("server: pipeline run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "pipeline run failed")
		return
	}

	zap.L().Info("server: check complete",
		zap.String("file", fileHeader.Filename),
		zap.Int("records", res.Report.Records),
		zap.Int("flagged", res.Report.Flagged),
	)
	writeJSON(w, http.StatusOK, res.Report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

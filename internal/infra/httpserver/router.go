package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/forensic-audit/internal/application"
	appaudit "github.com/bryanwahyu/forensic-audit/internal/application/audit"
	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	domain "github.com/bryanwahyu/forensic-audit/internal/domain/audit"
	"github.com/bryanwahyu/forensic-audit/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Deps is everything the router mounts besides the session controller.
type Deps struct {
	Logger      *zap.Logger
	Metrics     *middleware.Metrics
	RateLimiter *middleware.RateLimiter
	Checkers    map[string]middleware.HealthChecker
	CORSOrigins []string
}

type Router struct {
	svc    *appaudit.Service
	logger *zap.Logger
}

func NewRouter(svc *appaudit.Service, deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = middleware.NewMetrics()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{svc: svc, logger: deps.Logger}
	mux := chi.NewRouter()
	mux.Use(middleware.Logging(deps.Logger))
	mux.Use(deps.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RateLimit(deps.RateLimiter))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(deps.Checkers))
	mux.Get("/metrics", deps.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/session", r.wrap(r.handleSession))
		rt.Post("/session/reset", r.wrap(r.handleReset))

		rt.Put("/profile", r.wrap(r.handleProfile))
		rt.Get("/profile/tax-id/{id}", r.wrap(r.handleTaxID))

		rt.Get("/evidence", r.wrap(r.handleEvidence))
		rt.Get("/evidence/export.xlsx", r.wrap(r.handleExport))
		rt.Post("/evidence/{category}", r.wrap(r.handleUpload))

		rt.Post("/analysis", r.wrap(r.handleTrigger))
		rt.Get("/analysis", r.wrap(r.handleAnalysis))

		rt.Get("/journal", r.wrap(r.handleJournal))
		rt.Delete("/journal", r.wrap(r.handleClearJournal))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status, code := statusFor(err)
		if status >= 500 {
			r.logger.Error("handler failed", zap.String("path", req.URL.Path), zap.Error(err))
		}
		writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
	}
}

func statusFor(err error) (int, string) {
	var appErr *application.AppError
	switch {
	case errors.As(err, &appErr):
		return http.StatusBadRequest, appErr.Code
	case errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest, "UNKNOWN_CATEGORY"
	case errors.Is(err, domain.ErrInvalidProfile), errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, application.ErrNotReady):
		return http.StatusPreconditionFailed, "NOT_READY"
	case errors.Is(err, analysis.ErrAnalysisRunning):
		return http.StatusConflict, "ANALYSIS_RUNNING"
	case errors.Is(err, application.ErrNoResult):
		return http.StatusNotFound, "NO_RESULT"
	}
	return http.StatusInternalServerError, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decode(req *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return application.NewAppError("INVALID_JSON", "malformed request body", err)
	}
	return nil
}

// GET /v1/session
func (r *Router) handleSession(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.Session())
}

// POST /v1/session/reset
// Body: {"confirm": true}
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if !body.Confirm {
		return application.InvalidInput("reset requires confirm=true")
	}
	r.svc.Reset()
	return writeJSON(w, http.StatusOK, r.svc.Session())
}

// PUT /v1/profile
func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name     *string `json:"name"`
		TaxID    *string `json:"tax_id"`
		Platform *string `json:"platform"`
		Year     *int    `json:"year"`
		Period   *string `json:"period"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.Name != nil {
		name := middleware.SanitizeString(*body.Name)
		if err := middleware.ValidateClientName(name); err != nil {
			return application.InvalidInput("%v", err)
		}
		body.Name = &name
	}

	view, err := r.svc.UpdateProfile(req.Context(), appaudit.ProfileUpdate{
		Name:     body.Name,
		TaxID:    body.TaxID,
		Platform: body.Platform,
		Year:     body.Year,
		Period:   body.Period,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /v1/profile/tax-id/{id}
func (r *Router) handleTaxID(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	return writeJSON(w, http.StatusOK, map[string]any{
		"tax_id": id,
		"valid":  domain.ValidTaxID(id),
		"status": domain.TaxIDStatus(id),
	})
}

// POST /v1/evidence/{category}
// Body: {"files": [{"name": "...", "size": 123}]}
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Files []domain.FileDescriptor `json:"files"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateBatch(len(body.Files)); err != nil {
		return application.InvalidInput("%v", err)
	}
	for i, f := range body.Files {
		if err := middleware.ValidateFileName(f.Name); err != nil {
			return application.InvalidInput("files[%d]: %v", i, err)
		}
		if err := middleware.ValidateFileSize(f.Size); err != nil {
			return application.InvalidInput("files[%d]: %v", i, err)
		}
	}

	res, err := r.svc.AddEvidence(req.Context(), chi.URLParam(req, "category"), body.Files)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/evidence
func (r *Router) handleEvidence(w http.ResponseWriter, req *http.Request) error {
	items := r.svc.Evidence()
	return writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// GET /v1/evidence/export.xlsx
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	b, contentType, err := r.svc.Export(req.Context())
	if err != nil {
		return err
	}
	sess := r.svc.Session().Session
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, sess.ID))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, err = w.Write(b)
	return err
}

// POST /v1/analysis
func (r *Router) handleTrigger(w http.ResponseWriter, req *http.Request) error {
	runID, err := r.svc.Trigger(req.Context())
	if err != nil {
		return err
	}
	// engine jalan di background, client polling GET /v1/analysis
	return writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "running",
		"run_id":   runID,
		"queuedAt": time.Now(),
	})
}

// GET /v1/analysis
func (r *Router) handleAnalysis(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.Analysis())
}

// GET /v1/journal?limit=100
func (r *Router) handleJournal(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	entries := r.svc.Journal()
	total := len(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

// DELETE /v1/journal
func (r *Router) handleClearJournal(w http.ResponseWriter, req *http.Request) error {
	r.svc.ClearJournal()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

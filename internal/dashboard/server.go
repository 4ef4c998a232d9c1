package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/export"
	"github.com/sells-group/leadscope/internal/geo"
	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/pipeline"
	"github.com/sells-group/leadscope/internal/source"
)

// Runner executes one pipeline run. *pipeline.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Server serves the dashboard.
type Server struct {
	runner         Runner
	cfg            config.DashboardConfig
	defaultSources []model.Source
	limiter        *rate.Limiter
}

// NewServer creates a Server. defaultSources are used when a request does not
// name any.
func NewServer(runner Runner, cfg config.DashboardConfig, defaultSources []model.Source) (*Server, error) {
	if runner == nil {
		return nil, eris.New("dashboard: runner is required")
	}
	if len(defaultSources) == 0 {
		defaultSources = model.AllSources
	}
	return &Server{
		runner:         runner,
		cfg:            cfg,
		defaultSources: defaultSources,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RunsPerSecond), cfg.Burst),
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handlePage)

	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", s.handleLeads)
		r.Get("/map", s.handleMap)
		r.Get("/export.csv", s.handleExport(export.FormatCSV))
		r.Get("/export.xlsx", s.handleExport(export.FormatXLSX))
	})

	return r
}

// Query is a parsed dashboard request.
type Query struct {
	Request pipeline.Request
	Filter  Filter
}

// View is the outcome of one run after filtering.
type View struct {
	Metrics Metrics      `json:"metrics"`
	Leads   []model.Lead `json:"leads"`
}

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// ParseQuery reads sources, limit, min_score, location and seed from q.
func (s *Server) ParseQuery(q map[string][]string) (Query, error) {
	out := Query{
		Request: pipeline.Request{Sources: s.defaultSources, Limit: s.cfg.DefaultLimit},
		Filter:  Filter{MinScore: s.cfg.DefaultMinScore},
	}

	if raw, ok := q["sources"]; ok {
		var names []string
		for _, v := range raw {
			names = append(names, strings.Split(v, ",")...)
		}
		srcs, err := source.ParseSourceList(names)
		if err != nil {
			return out, badRequest("invalid sources: %v", err)
		}
		if len(srcs) == 0 {
			return out, badRequest("select at least one source")
		}
		out.Request.Sources = srcs
	}

	if v := first(q, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < s.cfg.MinLimit || n > s.cfg.MaxLimit {
			return out, badRequest("limit must be an integer between %d and %d", s.cfg.MinLimit, s.cfg.MaxLimit)
		}
		out.Request.Limit = n
	}

	if v := first(q, "min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			return out, badRequest("min_score must be an integer between 0 and 100")
		}
		out.Filter.MinScore = n
	}

	out.Filter.Location = strings.TrimSpace(first(q, "location"))

	if v := first(q, "seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return out, badRequest("seed must be a non-negative integer")
		}
		out.Request.Seed = n
	}

	return out, nil
}

func first(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// execute parses the request, checks the run budget, runs the pipeline and
// filters the result.
func (s *Server) execute(r *http.Request) (Query, *View, error) {
	q, err := s.ParseQuery(r.URL.Query())
	if err != nil {
		return q, nil, err
	}
	if !s.limiter.Allow() {
		return q, nil, &httpError{status: http.StatusTooManyRequests, msg: "too many runs, try again shortly"}
	}

	res, err := s.runner.Run(r.Context(), q.Request)
	if err != nil {
		return q, nil, eris.Wrap(err, "dashboard: run pipeline")
	}

	qualified := Apply(res.Leads, q.Filter)
	return q, &View{
		Metrics: Summarize(res.TotalFound, qualified, s.cfg.TopHubs),
		Leads:   qualified,
	}, nil
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.execute(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.execute(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEncoded(w, "application/geo+json", http.StatusOK, geo.FeatureCollection(view.Leads))
}

func (s *Server) handleExport(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, view, err := s.execute(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		// Buffer so an encoding failure can still become a 500.
		var buf bytes.Buffer
		if err := export.Write(&buf, f, view.Leads); err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads.%s"`, f))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			zap.L().Debug("dashboard: write export",
				zap.String("format", string(f)),
				zap.Int("bytes", buf.Len()),
				zap.Error(err),
			)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeEncoded(w, "application/json", status, v)
}

// writeEncoded sends v as JSON. Headers are already out when encoding fails,
// so the failure is only logged.
func writeEncoded(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("dashboard: encode response",
			zap.String("content_type", contentType),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpError
	if errors.As(err, &he) {
		writeJSON(w, he.status, map[string]string{"error": he.msg})
		return
	}
	zap.L().Error("dashboard: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Package server provides the HTTP front end: a JSON evaluation API and a
// browser form that renders the budget report.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes caps request bodies; a project is a few hundred bytes.
const maxBodyBytes = 1 << 20

// Config controls the server runtime behavior.
type Config struct {
	Addr   string
	Rates  *config.RateTable
	Logger *zap.Logger
}

// Status is served at /v1/status.
type Status struct {
	InstanceID  string    `json:"instance_id"`
	StartedAt   time.Time `json:"started_at"`
	UptimeSec   int64     `json:"uptime_sec"`
	Evaluations int64     `json:"evaluations"`
	Exports     int64     `json:"exports"`
	Machines    []string  `json:"machines"`
	LastError   string    `json:"last_error,omitempty"`
}

// Service serves the evaluation API. Each request evaluates its own input;
// the only shared state is the read-only rate table and the counters.
type Service struct {
	cfg        Config
	log        *zap.Logger
	pages      map[string]*template.Template
	startedAt  time.Time
	instanceID string

	evaluations atomic.Int64
	exports     atomic.Int64

	mu        sync.RWMutex
	lastError string
}

// New returns a service for the given config. Rates are required.
func New(cfg Config) (*Service, error) {
	if cfg.Rates == nil {
		return nil, errors.New("server: rate table is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:        cfg,
		log:        cfg.Logger,
		pages:      pages,
		startedAt:  time.Now(),
		instanceID: uuid.NewString(),
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/v1/rates", s.handleRates)
	r.Post("/v1/evaluate", s.handleEvaluate)
	r.Post("/v1/export", s.handleExport)
	r.Get("/", s.handleForm)
	r.Post("/", s.handleFormSubmit)
	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("budgetmon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("instance", s.instanceID))

	err := g.Wait()
	s.log.Info("stopped", zap.String("instance", s.instanceID))
	return err
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Service) evaluate(pf input.ProjectFile) (model.Project, model.Result, error) {
	p, err := pf.ToProject(s.cfg.Rates)
	if err != nil {
		s.recordError(err)
		return model.Project{}, model.Result{}, err
	}
	res := pipeline.Evaluate(p.Input, s.cfg.Rates)
	s.evaluations.Add(1)
	s.log.Info("evaluated",
		zap.String("project", p.Info.Name),
		zap.Bool("fallback", res.Fallback),
		zap.Float64("estimated_total", res.Summary.EstimatedTotal),
		zap.Float64("actual_total", res.Summary.ActualTotalFull),
		zap.Float64("gap", res.Summary.GapAbs),
	)
	return p, res, nil
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.log.Warn("rejected input", zap.Error(err))
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	lastErr := s.lastError
	s.mu.RUnlock()

	return Status{
		InstanceID:  s.instanceID,
		StartedAt:   s.startedAt,
		UptimeSec:   int64(time.Since(s.startedAt).Seconds()),
		Evaluations: s.evaluations.Load(),
		Exports:     s.exports.Load(),
		Machines:    s.cfg.Rates.MachineNames(),
		LastError:   lastErr,
	}
}

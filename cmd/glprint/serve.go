package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/cache"
	"github.com/gogpu/glprint/report"
)

// server renders a report per request. Probes of one host must not
// overlap, so they are serialized on mu. Results are kept per agent for
// cfg.CacheTTL.
type server struct {
	mu      sync.Mutex
	cfg     config
	host    glprint.Host
	opts    []glprint.Option
	results *cache.Cache[*glprint.Result]
	logger  *slog.Logger
}

func newRouter(cfg config, host glprint.Host, opts []glprint.Option, logger *slog.Logger) http.Handler {
	s := &server{
		cfg:     cfg,
		host:    host,
		opts:    opts,
		results: cache.New[*glprint.Result](cache.DefaultCapacity, cfg.CacheTTL),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleReport)
	r.Get("/hosts", s.handleHosts)
	return r
}

// handleReport probes the host and writes the report. The format comes
// from the "format" query parameter, falling back to the configured one.
func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = s.cfg.Format
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.Must(uuid.NewV7()).String()
	log := s.logger.With("probe", id, "request", middleware.GetReqID(r.Context()))

	agent := ""
	if s.cfg.RequestAgent {
		agent = r.UserAgent()
	}
	start := time.Now()
	res, err := s.results.GetOrCreate(agent, func() (*glprint.Result, error) {
		opts := s.opts
		if s.cfg.RequestAgent {
			opts = append(slices.Clip(opts), glprint.WithAgent(agent))
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return glprint.Probe(r.Context(), s.host, opts...)
	})
	if err != nil {
		log.Warn("probe failed", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, glprint.ErrUnsupported) || errors.Is(err, glprint.ErrBlocked) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	log.Info("report", "hash", res.Hash, "elapsed", time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Glprint-Probe", id)
	if err := report.New(res).Write(w, format); err != nil {
		log.Error("write report", "err", err)
	}
}

func (s *server) handleHosts(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range glprint.HostNames() {
		_, _ = w.Write([]byte(name + "\n"))
	}
}

// serve runs the HTTP server until ctx is done.
func serve(ctx context.Context, cfg config, host glprint.Host, opts []glprint.Option, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Serve,
		Handler:           newRouter(cfg, host, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Serve)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

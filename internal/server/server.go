package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Danondso/melodia/internal/compose"
	"github.com/Danondso/melodia/internal/config"
	"github.com/Danondso/melodia/internal/melody"
	"github.com/Danondso/melodia/internal/render"
)

// ErrDurationTooLong is returned when a requested duration exceeds the
// configured ceiling.
var ErrDurationTooLong = errors.New("duration exceeds limit")

// Saver persists a rendered container under a request id.
type Saver interface {
	Save(id string, data []byte) (string, error)
}

// SourceFunc returns the random source for one request.
type SourceFunc func() melody.Source

// Server serves the melody generation endpoint and static files.
type Server struct {
	Addr        string
	StaticDir   string
	MaxDuration float64
	ExportRate  int
	Saver       Saver // nil disables writing to disk
	Source      SourceFunc
	Logger      *log.Logger

	httpSrv *http.Server
	stopped chan struct{} // closed by Stop for the current run
	mu      sync.Mutex
}

// New creates a Server from the config. saver may be nil.
func New(cfg *config.Config, saver Saver, logger *log.Logger) *Server {
	return &Server{
		Addr:        cfg.Server.Addr,
		StaticDir:   cfg.Server.StaticDir,
		MaxDuration: cfg.Generation.MaxDurationSec,
		ExportRate:  cfg.Export.SampleRate,
		Saver:       saver,
		Source:      seededSources(cfg.Generation.Seed),
		Logger:      logger,
	}
}

// seededSources returns per-request sources. A non-zero seed yields seed,
// seed+1, ... so a restarted server replays the same sequence of melodies.
func seededSources(seed int64) SourceFunc {
	if seed == 0 {
		return func() melody.Source { return melody.NewSource(0) }
	}
	var next atomic.Int64
	next.Store(seed)
	return func() melody.Source {
		return melody.NewSource(next.Add(1) - 1)
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-melody", s.handleGenerate)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.StaticDir)))
	}
	return mux
}

// ParseDuration parses and admits a duration query value.
func ParseDuration(raw string, limit float64) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing duration", melody.ErrInvalidDuration)
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", melody.ErrInvalidDuration, raw)
	}
	if err := CheckDuration(d, limit); err != nil {
		return 0, err
	}
	return d, nil
}

// CheckDuration rejects negative or non-finite durations and, when limit is
// positive, durations above limit seconds.
func CheckDuration(d, limit float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: %v", melody.ErrInvalidDuration, d)
	}
	if limit > 0 && d > limit {
		return fmt.Errorf("%w: %v > %v seconds", ErrDurationTooLong, d, limit)
	}
	return nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET required", http.StatusMethodNotAllowed)
		return
	}

	id := uuid.NewString()
	duration, err := ParseDuration(r.URL.Query().Get("duration"), s.MaxDuration)
	if err != nil {
		s.logf("generate %s: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	start := time.Now()
	var src melody.Source
	if s.Source != nil {
		src = s.Source()
	}
	res, err := compose.Compose(duration, src)
	if err != nil {
		s.logf("generate %s: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if s.ExportRate != 0 {
		if res, err = res.Resampled(s.ExportRate); err != nil {
			s.logf("generate %s: %v", id, err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
	}
	data := res.WAV

	filename := id + ".wav"
	if s.Saver != nil {
		path, err := s.Saver.Save(id, data)
		if err != nil {
			s.logf("generate %s: save: %v", id, err)
			http.Error(w, "failed to save melody", http.StatusInternalServerError)
			return
		}
		s.logf("generate %s: saved %s", id, path)
	}

	s.logf("generate %s: duration=%v notes=%d bytes=%d latency=%s",
		id, duration, len(res.Melody), len(data), time.Since(start).Round(time.Millisecond))

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Request-Id", id)
	_, _ = w.Write(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, melody.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, ErrDurationTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, render.ErrResourceExhausted):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Start binds the listen address and serves in the background until ctx is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv != nil {
		return fmt.Errorf("server already running on %s", s.Addr)
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.Addr = ln.Addr().String()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	stopped := make(chan struct{})
	s.httpSrv = srv
	s.stopped = stopped
	s.logf("listening on %s", s.Addr)

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("serve error: %v", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.stopRun(stopped)
		case <-stopped:
		}
	}()
	return nil
}

// Stop shuts the server down, waiting up to 5 seconds for in-flight requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

// stopRun stops the server only if run is still the current one, so a
// cancelled context from an earlier Start cannot stop a later run.
func (s *Server) stopRun(run chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped != run {
		return
	}
	if err := s.shutdown(); err != nil {
		s.logf("shutdown: %v", err)
	}
}

// shutdown must be called with s.mu held.
func (s *Server) shutdown() error {
	if s.httpSrv == nil {
		return nil
	}
	s.logf("stopping server on %s", s.Addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpSrv.Shutdown(ctx)
	s.httpSrv = nil
	close(s.stopped)
	s.stopped = nil
	return err
}

// Running reports whether the server is serving.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpSrv != nil
}

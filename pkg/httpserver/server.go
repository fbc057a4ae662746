package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Server hosts the authz HTTP surface on a net/http server with deadline
// timeouts from Config and context-driven graceful shutdown. Lifecycle
// signals are the caller's job: cancel the context passed to Run (typically
// via signal.NotifyContext) to stop the server.
type Server struct {
	cfg Config
	log *slog.Logger

	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

// New returns a server for the given config. A nil logger discards output.
func New(cfg Config, log *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, log: log}
}

// Run serves handler on cfg.Addr and blocks until the context is cancelled
// or the listener fails. On cancellation it drains in-flight requests within
// cfg.ShutdownTimeout. Listener failures are wrapped with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		return errors.Join(ErrStart, errors.New("nil handler"))
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	s.log.InfoContext(ctx, "http server listening", slog.String("addr", s.cfg.Addr))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	var err error
	select {
	case <-ctx.Done():
		shutdownErr := s.Shutdown(context.Background())
		err = <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			err = shutdownErr
		}
	case err = <-serveErr:
	}

	switch {
	case err == nil || errors.Is(err, http.ErrServerClosed):
		return nil
	case errors.Is(err, ErrShutdown):
		return err
	default:
		return errors.Join(ErrStart, err)
	}
}

// Shutdown drains in-flight requests within cfg.ShutdownTimeout. Run calls
// it on context cancellation; calling it directly is also safe, including
// repeatedly. Drain failures are wrapped with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		s.log.InfoContext(ctx, "http server shutting down")
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

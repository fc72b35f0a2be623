// Package api provides HTTP handlers and the main API server logic for the
// spa assistant.
//
// It exposes RESTful endpoints for chat turns, conversation transcripts and
// classification statistics. The API integrates with the flow, intent, store
// and messaging modules.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/somOone/spa-assistant/internal/flow"
	"github.com/somOone/spa-assistant/internal/genai"
	"github.com/somOone/spa-assistant/internal/intent"
	"github.com/somOone/spa-assistant/internal/messaging"
	"github.com/somOone/spa-assistant/internal/spaapi"
	"github.com/somOone/spa-assistant/internal/store"
)

// Server configuration constants.
const (
	// DefaultAPIAddr is the default API server listen address
	DefaultAPIAddr = ":8080"
	// DefaultShutdownTimeout bounds graceful shutdown on exit
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultReadHeaderTimeout bounds slow-header clients
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr overrides the server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server hosts the spa assistant HTTP API.
type Server struct {
	addr   string
	engine *flow.Engine
	st     store.Store
}

// NewServer creates an API server around a dialogue engine and store.
func NewServer(engine *flow.Engine, st store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAPIAddr
	}
	return &Server{
		addr:   cfg.Addr,
		engine: engine,
		st:     st,
	}
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/conversations", s.newConversationHandler)
	mux.HandleFunc("/conversations/", s.conversationsHandler)
	mux.HandleFunc("/stats/classification", s.classificationStatsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Serve runs the HTTP server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Serve: API server listening", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("Server.Serve: shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server.Serve: graceful shutdown failed", "error", err)
			return err
		}
		slog.Info("Server.Serve: shutdown complete")
		return nil
	}
}

// Run assembles the application modules from options and serves the API
// until interrupted.
func Run(storeOpts []store.Option, genaiOpts []genai.Option, spaOpts []spaapi.Option, msgOpts []messaging.Option, apiOpts []Option) error {
	st, err := store.NewStore(storeOpts...)
	if err != nil {
		return err
	}
	defer st.Close()

	spaClient, err := spaapi.NewClient(spaOpts...)
	if err != nil {
		return err
	}

	// Optional LLM fallback tier; classification works without it.
	var intentOpts []intent.Option
	if gaClient, err := genai.NewClient(genaiOpts...); err != nil {
		slog.Warn("Run: GenAI client unavailable, classification runs without LLM fallback", "error", err)
	} else {
		intentOpts = append(intentOpts, intent.WithTier(intent.NewGenAIClassifier(gaClient)))
	}
	classifier := intent.NewEngine(intentOpts...)

	// Optional SMS notifications; the no-op service stands in otherwise.
	var notifier messaging.Service
	if twilioSvc, err := messaging.NewTwilioService(msgOpts...); err != nil {
		slog.Debug("Run: Twilio not configured, client notifications disabled", "error", err)
		notifier = messaging.NewNoopService()
	} else {
		notifier = twilioSvc
	}
	defer notifier.Stop()

	engine := flow.NewEngine(classifier, spaClient,
		flow.WithRecorder(st),
		flow.WithNotifier(notifier),
	)

	server := NewServer(engine, st, apiOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

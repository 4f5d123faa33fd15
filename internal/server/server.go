package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/voiceflow/config"
	"github.com/BaSui01/voiceflow/internal/metrics"
	"github.com/BaSui01/voiceflow/narrator"
	"github.com/BaSui01/voiceflow/types"
)

// EngineFactory builds a fresh narrator engine for each session. Engines
// are single-session by design, so the server never shares one across
// connections.
type EngineFactory func() *narrator.Engine

// Server serves the websocket ingest protocol plus health and metrics.
type Server struct {
	cfg       config.ServerConfig
	newEngine EngineFactory
	collector *metrics.Collector
	logger    *zap.Logger

	httpServer *http.Server
}

// NewServer creates a server.
func NewServer(cfg config.ServerConfig, newEngine EngineFactory, collector *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:       cfg,
		newEngine: newEngine,
		collector: collector,
		logger:    logger.With(zap.String("component", "server")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleSession)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.cfg.ListenAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// inboundMessage is one client request on the session socket.
type inboundMessage struct {
	Type    string             `json:"type"` // snippet, summarize, configure, clear
	Snippet *types.Snippet     `json:"snippet,omitempty"`
	Patch   *types.ConfigPatch `json:"patch,omitempty"`
}

// outboundMessage is one server reply.
type outboundMessage struct {
	Type     string                `json:"type"` // decision, summary, config, error
	Decision *types.Decision       `json:"decision,omitempty"`
	Summary  string                `json:"summary,omitempty"`
	Config   *types.NarratorConfig `json:"config,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// handleSession upgrades to websocket and runs one narrator session. The
// single read loop serializes all engine calls, which the engine's
// concurrency model requires.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session aborted")

	sessionID := uuid.NewString()
	logger := s.logger.With(zap.String("session_id", sessionID))
	logger.Info("session started")

	engine := s.newEngine()
	s.collector.RecordSessionStart()

	limiter := rate.NewLimiter(rate.Limit(s.cfg.IngestRate), s.cfg.IngestBurst)
	tracer := otel.Tracer("voiceflow/server")

	ctx := r.Context()
	for {
		var msg inboundMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				logger.Info("session closed")
			} else {
				logger.Warn("session read failed", zap.Error(err))
			}
			engine.ClearBuffer()
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		var reply outboundMessage
		switch msg.Type {
		case "snippet":
			reply = s.handleSnippet(ctx, engine, limiter, tracer, msg.Snippet, logger)

		case "summarize":
			reply = outboundMessage{Type: "summary", Summary: engine.Summarize(ctx)}

		case "configure":
			if msg.Patch != nil {
				engine.Configure(*msg.Patch)
			}
			cfg := engine.Config()
			reply = outboundMessage{Type: "config", Config: &cfg}

		case "clear":
			engine.ClearBuffer()
			cfg := engine.Config()
			reply = outboundMessage{Type: "config", Config: &cfg}

		default:
			reply = outboundMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)}
		}

		if err := wsjson.Write(ctx, conn, reply); err != nil {
			logger.Warn("session write failed", zap.Error(err))
			engine.ClearBuffer()
			return
		}
	}
}

func (s *Server) handleSnippet(ctx context.Context, engine *narrator.Engine, limiter *rate.Limiter, tracer trace.Tracer, snippet *types.Snippet, logger *zap.Logger) outboundMessage {
	if snippet == nil {
		return outboundMessage{Type: "error", Error: "snippet message without snippet payload"}
	}
	if err := limiter.Wait(ctx); err != nil {
		return outboundMessage{Type: "error", Error: "session closed while rate limited"}
	}
	if snippet.ID == "" {
		snippet.ID = uuid.NewString()
	}

	start := time.Now()
	spanCtx, span := tracer.Start(ctx, "narrator.ingest")
	decision := engine.Ingest(spanCtx, *snippet)
	span.SetAttributes(
		attribute.String("snippet.type", string(snippet.Type)),
		attribute.String("snippet.priority", string(snippet.Priority)),
		attribute.String("decision.kind", string(decision.Kind)),
	)
	span.End()

	s.collector.RecordDecision(string(decision.Kind), time.Since(start))
	s.collector.SetBufferSize(engine.BufferSize())

	if decision.IsVocalize() {
		logger.Debug("vocalizing",
			zap.String("snippet_id", snippet.ID),
			zap.String("utterance", decision.Utterance),
			zap.Int64("latency_ms", decision.LatencyMs),
		)
	}
	return outboundMessage{Type: "decision", Decision: &decision}
}

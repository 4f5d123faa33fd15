// voiceflow service entry point: websocket ingest server, health check,
// Prometheus metrics.
//
// Usage:
//
//	voiceflow serve                        # start the server
//	voiceflow serve --config config.yaml   # with a config file
//	voiceflow version
//	voiceflow health
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/voiceflow/config"
	"github.com/BaSui01/voiceflow/internal/metrics"
	"github.com/BaSui01/voiceflow/internal/server"
	"github.com/BaSui01/voiceflow/internal/telemetry"
	"github.com/BaSui01/voiceflow/llm/factory"
	"github.com/BaSui01/voiceflow/llm/tokenizer"
	"github.com/BaSui01/voiceflow/narrator"
)

// Build-time variables.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("starting voiceflow",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	collector := metrics.NewCollector("voiceflow", prometheus.DefaultRegisterer, logger)

	provider, err := factory.NewProviderFromConfig(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to build provider", zap.Error(err))
	}
	provider = metrics.InstrumentProvider(provider, collector)

	counter := buildTokenizer(cfg.LLM.TokenizerModel, logger)

	newEngine := func() *narrator.Engine {
		return narrator.NewEngine(cfg.Narrator, provider, logger).WithTokenizer(counter)
	}

	srv := server.NewServer(cfg.Server, newEngine, collector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", zap.Error(err))
	}

	logger.Info("voiceflow stopped")
}

// buildTokenizer prefers exact tiktoken counting, falling back to the
// estimator when the encoding cannot be loaded (offline hosts).
func buildTokenizer(model string, logger *zap.Logger) tokenizer.Tokenizer {
	if model == "" {
		return tokenizer.NewEstimatorTokenizer()
	}
	tok, err := tokenizer.NewTiktokenTokenizer(model)
	if err != nil {
		logger.Warn("tiktoken unavailable, using estimator",
			zap.String("model", model),
			zap.Error(err),
		)
		return tokenizer.NewEstimatorTokenizer()
	}
	return tok
}

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8090", "Server address")
	fs.Parse(args)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func printVersion() {
	fmt.Printf("voiceflow %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`voiceflow - voice narrator for AI agent activity

Usage:
  voiceflow <command> [options]

Commands:
  serve     Start the narrator server
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'serve':
  --config <path>   Path to configuration file (YAML)

Examples:
  voiceflow serve
  voiceflow serve --config /etc/voiceflow/config.yaml
  voiceflow health --addr http://localhost:8090`)
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	return zap.New(core, zap.AddCaller())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aescanero/dailyquote/internal/application/composer"
	"github.com/aescanero/dailyquote/internal/application/quote"
	"github.com/aescanero/dailyquote/internal/application/runner"
	"github.com/aescanero/dailyquote/internal/config"
	"github.com/aescanero/dailyquote/internal/ports"
	"github.com/aescanero/dailyquote/pkg/adapters/llm"
	"github.com/aescanero/dailyquote/pkg/adapters/mail/smtp"
	"github.com/aescanero/dailyquote/pkg/adapters/metrics/prometheus"
	redisstorage "github.com/aescanero/dailyquote/pkg/adapters/storage/redis"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

const exportTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)

	code := run(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

// run wires the adapters, performs one daily run and returns the process exit code
func run(cfg *config.Config, logger *zap.Logger) int {
	logger.Info("starting daily quote run",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("model", cfg.LLM.Model),
		zap.String("smtp_addr", cfg.GetSMTPAddr()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := promclient.NewRegistry()
	metricsCollector := prometheus.NewCollector(registry)

	guard, closeGuard, err := newRunGuard(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize run guard", zap.Error(err))
		return 1
	}
	defer closeGuard()

	llmClient, err := llm.NewClient(&llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		RequestTimeout: cfg.LLM.RequestTimeout,
		Metrics:        metricsCollector,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("failed to create LLM client", zap.Error(err))
		return 1
	}

	sender, err := smtp.NewSender(&smtp.Config{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SenderEmail,
		Password: cfg.Mail.SenderPassword,
		Timeout:  cfg.Mail.Timeout,
		Metrics:  metricsCollector,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create SMTP sender", zap.Error(err))
		return 1
	}

	// Initialize application components
	emailComposer := composer.New(&composer.Config{
		Quotes:      quote.NewGenerator(llmClient, logger),
		LLM:         llmClient,
		Sender:      sender,
		SenderEmail: cfg.Mail.SenderEmail,
		Logger:      logger,
	})

	dailyRunner := runner.New(&runner.Config{
		Mailer:        emailComposer,
		Guard:         guard,
		Metrics:       metricsCollector,
		RecipientName: cfg.Mail.RecipientName,
		MailingList:   cfg.Mail.MailingList,
		Logger:        logger,
	})

	result, runErr := dailyRunner.Run(ctx)

	exportMetrics(registry, cfg, logger)

	if errors.Is(runErr, context.Canceled) {
		logger.Warn("run interrupted by shutdown signal", zap.String("run_id", result.RunID))
	}

	return exitCode(runErr, cfg.ExitOnFailure)
}

// exitCode maps a run outcome to the process exit status.
// A failed run exits 0 unless exitOnFailure is set.
func exitCode(runErr error, exitOnFailure bool) int {
	if runErr != nil && exitOnFailure {
		return 1
	}
	return 0
}

// newRunGuard returns the Redis guard, or nil when Redis is not configured
func newRunGuard(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.RunGuard, func(), error) {
	if !cfg.GuardEnabled() {
		logger.Debug("redis not configured, running without run guard")
		return nil, func() {}, nil
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	return redisstorage.NewGuard(redisClient, cfg.Redis.GuardTTL, logger), closeFn, nil
}

func exportMetrics(registry *promclient.Registry, cfg *config.Config, logger *zap.Logger) {
	target := prometheus.ExportConfig{
		TextfilePath:   cfg.Metrics.TextfilePath,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
	}
	if !target.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	if err := prometheus.Export(ctx, registry, target); err != nil {
		logger.Error("failed to export metrics", zap.Error(err))
	}
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}

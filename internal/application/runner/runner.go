package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/dailyquote/internal/ports"
)

// GuardKeyLayout formats the per-day guard key
const GuardKeyLayout = "2006-01-02"

// Status is the outcome of a run
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// QuoteMailer composes and sends the daily quote email
type QuoteMailer interface {
	SendQuoteEmail(ctx context.Context, recipientName string, mailingList ...string) error
}

// Config holds the runner's collaborators. Guard and Metrics are optional.
type Config struct {
	Mailer        QuoteMailer
	Guard         ports.RunGuard
	Metrics       ports.MetricsCollector
	RecipientName string
	MailingList   []string
	Logger        *zap.Logger
	Now           func() time.Time
}

// Result describes a finished run
type Result struct {
	RunID    string
	Day      string
	Status   Status
	Duration time.Duration
}

// Runner coordinates a daily run
type Runner struct {
	mailer        QuoteMailer
	guard         ports.RunGuard
	metrics       ports.MetricsCollector
	recipientName string
	mailingList   []string
	logger        *zap.Logger
	now           func() time.Time
}

// New creates a new runner
func New(cfg *Config) *Runner {
	if cfg.Mailer == nil {
		panic("runner: mailer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		mailer:        cfg.Mailer,
		guard:         cfg.Guard,
		metrics:       cfg.Metrics,
		recipientName: cfg.RecipientName,
		mailingList:   append([]string(nil), cfg.MailingList...),
		logger:        logger,
		now:           now,
	}
}

// Run sends today's quote email once. The returned Result is never nil.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	startedAt := r.now()
	result := &Result{
		RunID: uuid.New().String(),
		Day:   startedAt.Format(GuardKeyLayout),
	}
	logger := r.logger.With(
		zap.String("run_id", result.RunID),
		zap.String("day", result.Day))

	logger.Info("run started",
		zap.String("recipient_name", r.recipientName),
		zap.Int("recipients", len(r.mailingList)))

	acquired, err := r.acquire(ctx, result.Day, logger)
	if err != nil {
		return r.finish(result, StatusFailed, startedAt, logger), err
	}
	if r.guard != nil && !acquired {
		logger.Info("quote already sent today, skipping run")
		return r.finish(result, StatusSkipped, startedAt, logger), nil
	}

	if err := r.mailer.SendQuoteEmail(ctx, r.recipientName, r.mailingList...); err != nil {
		if acquired {
			// the caller's context may already be cancelled
			if relErr := r.guard.Release(context.WithoutCancel(ctx), result.Day); relErr != nil {
				logger.Warn("failed to release run guard", zap.Error(relErr))
			}
		}
		logger.Error("run failed", zap.Error(err))
		return r.finish(result, StatusFailed, startedAt, logger), fmt.Errorf("run %s failed: %w", result.RunID, err)
	}

	return r.finish(result, StatusSuccess, startedAt, logger), nil
}

// acquire takes the day's guard. It reports false without error when no guard is configured.
func (r *Runner) acquire(ctx context.Context, day string, logger *zap.Logger) (bool, error) {
	if r.guard == nil {
		return false, nil
	}

	acquired, err := r.guard.Acquire(ctx, day)
	if err != nil {
		logger.Error("failed to acquire run guard", zap.Error(err))
		return false, err
	}
	return acquired, nil
}

func (r *Runner) finish(result *Result, status Status, startedAt time.Time, logger *zap.Logger) *Result {
	result.Status = status
	result.Duration = r.now().Sub(startedAt)

	if r.metrics != nil {
		r.metrics.RecordRun(string(status), result.Duration)
	}

	logger.Info("run finished",
		zap.String("status", string(status)),
		zap.Duration("duration", result.Duration))

	return result
}

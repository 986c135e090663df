package quote

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/dailyquote/internal/ports"
)

const (
	// DateLayout renders the weekday, month name and zero padded day
	DateLayout = "Monday January 02"

	// SystemPrompt is the fixed instruction sent with every quote request
	SystemPrompt = `You are an agent based model tasked with generating
        motivational quotes each day. Please only return your quote as the response.`
)

// Generator produces motivational quotes through a Completer
type Generator struct {
	llm    ports.Completer
	now    func() time.Time
	logger *zap.Logger
}

// NewGenerator creates a new quote generator
func NewGenerator(llm ports.Completer, logger *zap.Logger) *Generator {
	return &Generator{
		llm:    llm,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the clock used when no date is supplied
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// UserMessage returns the instruction embedding date
func UserMessage(date time.Time) string {
	return fmt.Sprintf("It is %s. Please generate me a quote", date.Format(DateLayout))
}

// Quote returns one quote for date. A zero date means now.
func (g *Generator) Quote(ctx context.Context, date time.Time) (string, error) {
	if date.IsZero() {
		date = g.now()
	}

	quote, err := g.llm.Complete(ctx, SystemPrompt, UserMessage(date))
	if err != nil {
		g.logger.Error("failed to generate quote",
			zap.String("date", date.Format(DateLayout)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate quote: %w", err)
	}

	g.logger.Info("quote generated",
		zap.String("date", date.Format(DateLayout)),
		zap.Int("length", len(quote)))

	return quote, nil
}

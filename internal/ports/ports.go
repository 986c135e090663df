// Package ports declares the interfaces the application layer depends on.
// Adapters under pkg/adapters implement them.
package ports

import (
	"context"
	"time"

	"github.com/aescanero/dailyquote/internal/domain"
)

// Completer sends one system instruction and one user message to the
// completion provider and returns the text of the answer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// QuoteSource produces one quote for a day
type QuoteSource interface {
	Quote(ctx context.Context, date time.Time) (string, error)
}

// Sender delivers a fully addressed message
type Sender interface {
	Send(ctx context.Context, msg *domain.Message) error
}

// RunGuard makes sure a keyed run happens once.
// Acquire reports false when the key is already held.
type RunGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MetricsCollector records run, completion and delivery metrics
type MetricsCollector interface {
	ObserveLLMCall(model, status string, duration time.Duration)
	AddLLMTokens(model string, input, output int64)
	RecordEmailSent(status string, recipients int)
	RecordRun(status string, duration time.Duration)
}

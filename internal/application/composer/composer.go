package composer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/dailyquote/internal/domain"
	"github.com/aescanero/dailyquote/internal/ports"
)

const (
	// LongDateLayout is the date line the email is asked to carry
	LongDateLayout = "Monday, January 02, 2006"

	// SystemPrompt is the fixed instruction sent with every compose request
	SystemPrompt = `You are an email composition expert.
        Create a professional and engaging email that incorporates a motivational quote.
        The email should be warm and professional. Return the email with clear Subject: and Body: sections.`

	requestTemplate = `
        Compose a brief email for %s that shares this quote:
        "%s"

        The email should:
        1. Be dated %s
        2. Have a subject line
        3. Include a warm greeting
        4. Provide a brief context for the quote
        5. End with a professional signature

        Return the email with 'Subject:' on first line and 'Body:' on second line,
        followed by the content. Keep the subject line brief and engaging.
        `
)

// Config holds the composer's collaborators
type Config struct {
	Quotes      ports.QuoteSource
	LLM         ports.Completer
	Sender      ports.Sender
	SenderEmail string
	Logger      *zap.Logger
	Now         func() time.Time
}

// Composer turns a quote into an email and sends it to a mailing list
type Composer struct {
	quotes ports.QuoteSource
	llm    ports.Completer
	sender ports.Sender
	from   string
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new email composer
func New(cfg *Config) *Composer {
	if cfg.Quotes == nil || cfg.LLM == nil || cfg.Sender == nil {
		panic("composer: quote source, completer and sender are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Composer{
		quotes: cfg.Quotes,
		llm:    cfg.LLM,
		sender: cfg.Sender,
		from:   cfg.SenderEmail,
		logger: logger,
		now:    now,
	}
}

// ComposeRequest returns the user message asking for an email around quote
func ComposeRequest(recipientName, quote string, date time.Time) string {
	return fmt.Sprintf(requestTemplate, recipientName, quote, date.Format(LongDateLayout))
}

// Compose obtains today's quote and has it written up as an email for recipientName
func (c *Composer) Compose(ctx context.Context, recipientName string) (*domain.ComposedEmail, error) {
	today := c.now()

	quote, err := c.quotes.Quote(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	response, err := c.llm.Complete(ctx, SystemPrompt, ComposeRequest(recipientName, quote, today))
	if err != nil {
		c.logger.Error("failed to compose email", zap.Error(err))
		return nil, fmt.Errorf("failed to compose email: %w", err)
	}

	email, err := ParseEmail(response)
	if err != nil {
		c.logger.Error("failed to parse composed email",
			zap.Int("response_length", len(response)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to parse composed email: %w", err)
	}

	c.logger.Info("email composed",
		zap.String("subject", email.Subject),
		zap.String("recipient_name", recipientName))

	return email, nil
}

// Send delivers one plaintext message addressed to every recipient.
// A single address is sent exactly like a one-element list.
func (c *Composer) Send(ctx context.Context, subject, body string, recipients ...string) error {
	msg := domain.NewMessage(c.from, &domain.ComposedEmail{Subject: subject, Body: body}, recipients...)
	if err := msg.Validate(); err != nil {
		c.logger.Error("error sending email", zap.Error(err))
		return err
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		c.logger.Error("error sending email",
			zap.Int("recipients", len(msg.To)),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info("email sent successfully",
		zap.Int("recipients", len(msg.To)))

	return nil
}

// SendQuoteEmail composes today's quote email and sends it to the mailing list
func (c *Composer) SendQuoteEmail(ctx context.Context, recipientName string, mailingList ...string) error {
	email, err := c.Compose(ctx, recipientName)
	if err != nil {
		return err
	}
	return c.Send(ctx, email.Subject, email.Body, mailingList...)
}

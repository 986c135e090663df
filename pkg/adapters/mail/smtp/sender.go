package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	gosmtp "net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/dailyquote/internal/domain"
	"github.com/aescanero/dailyquote/internal/ports"
)

// Config holds SMTP submission configuration
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Metrics  ports.MetricsCollector
	Logger   *zap.Logger
}

// client is the subset of *net/smtp.Client used for one submission
type client interface {
	StartTLS(config *tls.Config) error
	Auth(a gosmtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

type dialFunc func(ctx context.Context, addr, host string, timeout time.Duration) (client, error)

// Sender submits messages over an authenticated STARTTLS session.
// Each Send opens its own session and closes it before returning.
type Sender struct {
	host     string
	addr     string
	username string
	password string
	timeout  time.Duration
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	dial dialFunc
	now  func() time.Time
}

// NewSender creates a new SMTP sender
func NewSender(cfg *Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp port must be between 1 and 65535")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sender{
		host:     cfg.Host,
		addr:     net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		username: cfg.Username,
		password: cfg.Password,
		timeout:  cfg.Timeout,
		metrics:  cfg.Metrics,
		logger:   logger,
		dial:     dial,
		now:      time.Now,
	}, nil
}

// Send implements ports.Sender
func (s *Sender) Send(ctx context.Context, msg *domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	messageID := NewMessageID(msg.From)
	data, err := BuildMessage(msg, s.now(), messageID)
	if err != nil {
		return err
	}

	if err := s.submit(ctx, msg, data); err != nil {
		s.record("failed", len(msg.To))
		return err
	}

	s.record("sent", len(msg.To))
	s.logger.Debug("message submitted",
		zap.String("smtp_addr", s.addr),
		zap.String("message_id", messageID),
		zap.Int("recipients", len(msg.To)))

	return nil
}

func (s *Sender) submit(ctx context.Context, msg *domain.Message, data []byte) error {
	c, err := s.dial(ctx, s.addr, s.host, s.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer c.Close()

	tlsConfig := &tls.Config{
		ServerName: s.host,
		MinVersion: tls.VersionTLS12,
	}
	if err = c.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err = c.Auth(gosmtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err = c.Mail(msg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range msg.To {
		if err = c.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err = c.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP session: %w", err)
	}

	return nil
}

func (s *Sender) record(status string, recipients int) {
	if s.metrics != nil {
		s.metrics.RecordEmailSent(status, recipients)
	}
}

// dial connects to addr and applies timeout as the deadline for the whole session
func dial(ctx context.Context, addr, host string, timeout time.Duration) (client, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	c, err := gosmtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return c, nil
}

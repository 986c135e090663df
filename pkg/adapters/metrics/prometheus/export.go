package prometheus

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job the run metrics are grouped under
const JobName = "dailyquote"

// ExportConfig holds metrics export targets. Empty fields are skipped.
type ExportConfig struct {
	TextfilePath   string
	PushgatewayURL string
}

// Enabled reports whether any export target is set
func (c ExportConfig) Enabled() bool {
	return c.TextfilePath != "" || c.PushgatewayURL != ""
}

// Export writes everything g gathers to the configured targets.
func Export(ctx context.Context, g prometheus.Gatherer, cfg ExportConfig) error {
	if cfg.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(cfg.TextfilePath, g); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}

	if cfg.PushgatewayURL != "" {
		if err := push.New(cfg.PushgatewayURL, JobName).Gatherer(g).PushContext(ctx); err != nil {
			return fmt.Errorf("failed to push metrics: %w", err)
		}
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0

// Package notify delivers run failure messages to the operator.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/config"
)

// Notifier sends a human-readable message.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier writes notifications to the logger. It is the fallback when no
// mail server is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.logger.Error(subject, zap.String("body", body))
	return nil
}

// FromConfig returns an SMTP notifier when one is configured and a
// LogNotifier otherwise.
func FromConfig(cfg config.NotifyConfig, logger *zap.Logger) Notifier {
	if cfg.SMTP.Enabled() {
		return NewSMTPNotifier(cfg.SMTP)
	}
	return NewLogNotifier(logger)
}

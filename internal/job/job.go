// SPDX-License-Identifier: Apache-2.0

// Package job runs the roster extraction end to end: image to text, text to
// records, records to every sink, with retries and a failure notification.
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/notify"
	"github.com/rosterproj/roster-mcp/internal/roster"
	"github.com/rosterproj/roster-mcp/internal/sink"
	"github.com/rosterproj/roster-mcp/internal/vision"
)

// FailureSubject is the subject of the notification sent when every attempt
// failed.
const FailureSubject = "Duty schedule update failed"

// Input supplies the roster image for one attempt.
type Input func(ctx context.Context) ([]byte, error)

// FileInput reads the image from path on every attempt, so a file replaced
// between attempts is picked up.
func FileInput(path string) Input {
	return func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		return data, nil
	}
}

// BytesInput always supplies data.
func BytesInput(data []byte) Input {
	return func(context.Context) ([]byte, error) { return data, nil }
}

type Runner struct {
	source   vision.TextSource
	pipeline *roster.Pipeline
	sinks    []sink.Sink
	notifier notify.Notifier
	logger   *zap.Logger

	attempts       int
	retryDelay     time.Duration
	attemptTimeout time.Duration
	textTimeout    time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

type Option func(*Runner)

// WithAttempts sets the total number of tries, including the first.
func WithAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.attempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(r *Runner) { r.retryDelay = d }
}

// WithAttemptTimeout bounds each attempt end to end.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Runner) { r.attemptTimeout = d }
}

// WithTextTimeout bounds the call to the vision service.
func WithTextTimeout(d time.Duration) Option {
	return func(r *Runner) { r.textTimeout = d }
}

func NewRunner(source vision.TextSource, pipeline *roster.Pipeline, sinks []sink.Sink, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	r := &Runner{
		source:   source,
		pipeline: pipeline,
		sinks:    sinks,
		notifier: notifier,
		logger:   logger,
		attempts: 1,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run tries up to the configured number of attempts. When all fail, one
// notification carrying the last error is sent and that error is returned.
func (r *Runner) Run(ctx context.Context, input Input) (roster.Table, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		table, err := r.attempt(ctx, input, attempt)
		if err == nil {
			return table, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == r.attempts {
			break
		}
		r.logger.Info("retrying after failure",
			zap.Int("attempt", attempt),
			zap.Duration("delay", r.retryDelay))
		if err := r.sleep(ctx, r.retryDelay); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}

	msg := fmt.Sprintf("Error processing duty schedule: %v", lastErr)
	if err := r.notifier.Notify(context.WithoutCancel(ctx), FailureSubject, msg); err != nil {
		r.logger.Error("failed to send failure notification", zap.Error(err))
	}
	return nil, lastErr
}

func (r *Runner) attempt(ctx context.Context, input Input, n int) (roster.Table, error) {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	image, err := input(ctx)
	if err != nil {
		r.logger.Warn("attempt failed", zap.Int("attempt", n), zap.Error(err))
		return nil, err
	}

	table, err := r.RunOnce(ctx, image)
	if err != nil {
		r.logger.Warn("attempt failed", zap.Int("attempt", n), zap.Error(err))
		return nil, err
	}
	return table, nil
}

// RunOnce runs a single attempt over image without retries or notification.
func (r *Runner) RunOnce(ctx context.Context, image []byte) (roster.Table, error) {
	logger := r.logger.With(zap.String("run_id", uuid.NewString()))

	textCtx := ctx
	if r.textTimeout > 0 {
		var cancel context.CancelFunc
		textCtx, cancel = context.WithTimeout(ctx, r.textTimeout)
		defer cancel()
	}

	text, err := r.source.TextOf(textCtx, image)
	if err != nil {
		return nil, fmt.Errorf("extract text with %s: %w", r.source.Name(), err)
	}
	logger.Debug("text extracted", zap.String("source", r.source.Name()), zap.Int("chars", len(text)))

	result, err := r.pipeline.RunWithMeta(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for _, s := range result.Skipped {
		logger.Warn("segment skipped",
			zap.String("section", string(s.Section)),
			zap.String("reason", s.Reason))
	}

	var publishErrs []error
	for _, s := range r.sinks {
		if err := s.Publish(ctx, result.Records); err != nil {
			publishErrs = append(publishErrs, fmt.Errorf("publish to %s: %w", s.Name(), err))
			continue
		}
		logger.Info("published", zap.String("sink", s.Name()), zap.Int("records", len(result.Records)))
	}
	if err := errors.Join(publishErrs...); err != nil {
		return result.Records, err
	}

	logger.Info("duty schedule updated",
		zap.Int("records", len(result.Records)),
		zap.Int("segments", result.Segments),
		zap.Int("skipped", len(result.Skipped)))
	return result.Records, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

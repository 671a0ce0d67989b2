// SPDX-License-Identifier: Apache-2.0

package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers the runner on a cron schedule. Overlapping runs are
// skipped, so a long retry delay never stacks attempts.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	runner  *Runner
	input   Input
	logger  *zap.Logger
	mu      sync.Mutex
	baseCtx context.Context
}

// NewScheduler parses spec (standard five-field cron or a descriptor such as
// "@daily") and binds it to runner.
func NewScheduler(spec string, runner *Runner, input Input, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner:  runner,
		input:   input,
		logger:  logger,
		baseCtx: context.Background(),
	}
	id, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Run starts the schedule and blocks until ctx is done, then waits for any
// run in progress to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Time("next_run", s.Next()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// Next returns the next scheduled run, or the zero time before Run starts.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Trigger runs the job immediately in the caller's goroutine.
func (s *Scheduler) Trigger(ctx context.Context) error {
	_, err := s.runner.Run(ctx, s.input)
	return err
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	if err := s.Trigger(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron's logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

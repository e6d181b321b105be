package monitor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/report"
)

// Task produces one complete report.
type Task func(ctx context.Context) string

// CycleFunc produces one report along with the snapshot it was built from.
type CycleFunc func(ctx context.Context) report.Result

// TaskOf adapts a CycleFunc to a Task.
func TaskOf(run CycleFunc) Task {
	return func(ctx context.Context) string {
		return run(ctx).Text
	}
}

// Scheduler runs Task over and over, waiting Interval between the end of
// one cycle and the start of the next.
type Scheduler struct {
	Interval time.Duration
	Task     Task
	Log      logger.Logger
}

func (s *Scheduler) log() logger.Logger {
	if s.Log == nil {
		return logger.Noop()
	}
	return s.Log
}

// RunOnce executes a single cycle. A panic in Task becomes an inline error
// message.
func (s *Scheduler) RunOnce(ctx context.Context) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log().Error("cycle panicked: %v\n%s", r, debug.Stack())
			out = report.ErrorPrefix + fmt.Sprint(r)
		}
	}()
	return s.Task(ctx)
}

// Run loops until ctx is cancelled, passing each finished report to sink
// exactly once. It returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context, sink func(string)) error {
	if s.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval must be positive, got %s", s.Interval),
			"Set interval to something like 5s")
	}
	if s.Task == nil {
		return errors.New(errors.ErrConfig, "Scheduler has no task", "")
	}

	timer := time.NewTimer(s.Interval)
	timer.Stop()
	defer timer.Stop()

	for cycle := 1; ; cycle++ {
		if ctx.Err() != nil {
			return nil
		}

		start := time.Now()
		out := s.RunOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		s.deliver(sink, out)
		s.log().Debug("cycle %d rendered in %s", cycle, time.Since(start).Round(time.Millisecond))

		timer.Reset(s.Interval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// deliver hands out to sink. A failing sink is logged and the schedule
// carries on.
func (s *Scheduler) deliver(sink func(string), out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log().Error("display failed: %v", r)
		}
	}()
	sink(out)
}

// runCycle calls run and recovers a panic into an error Result.
func runCycle(ctx context.Context, run CycleFunc, log logger.Logger) (res report.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("cycle panicked: %v\n%s", r, debug.Stack())
			res = report.Result{Text: report.ErrorPrefix + fmt.Sprint(r)}
		}
	}()
	return run(ctx)
}

// Package session drives a maze generator on behalf of a viewer, tagging
// and tracing each run it produces.
package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/telemetry"
	"github.com/samdwyer/mazeband/internal/verify"
)

// Run outcomes recorded on run spans.
const (
	OutcomeCompleted = "completed"
	OutcomeRestarted = "restarted"
	OutcomeReset     = "reset"
	OutcomeAbandoned = "abandoned"
)

// Options configures a Session.
type Options struct {
	Width     int
	Height    int
	Threshold float64

	// Source overrides the random source. When nil a source seeded from Seed
	// is used.
	Source maze.Source
	// Seed for the default random source. A seed of 0 means a random seed
	// will be generated.
	Seed int64

	// Tracer defaults to telemetry.Tracer("session").
	Tracer trace.Tracer
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Stats counts what a session has produced so far.
type Stats struct {
	Runs      int // runs started, including those after a reset
	Completed int // runs that reached a finished maze
	Restarts  int // runs discarded by the generator before finishing
	Steps     int // calls to Tick
}

// Session owns one generator and the bookkeeping around its runs.
type Session struct {
	opts   Options
	rng    maze.Source
	gen    *maze.Generator
	tracer trace.Tracer
	log    logrus.FieldLogger

	runID    uuid.UUID
	span     trace.Span
	runSteps int
	stats    Stats
}

// New creates a session and starts its first run.
func New(ctx context.Context, opts Options) (*Session, error) {
	rng := opts.Source
	if rng == nil {
		rng = maze.NewSource(opts.Seed)
	}

	gen, err := maze.New(opts.Width, opts.Height, opts.Threshold, rng)
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:   opts,
		rng:    rng,
		gen:    gen,
		tracer: opts.Tracer,
		log:    opts.Logger,
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer("session")
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	s.beginRun(ctx, gen.Run())
	return s, nil
}

// Tick steps the generator once and returns the snapshot it produced.
func (s *Session) Tick(ctx context.Context) maze.Snapshot {
	if s.span == nil {
		s.beginRun(ctx, s.gen.Run())
	}

	snap := s.gen.Step()
	s.stats.Steps++

	switch {
	case snap.Final:
		s.runSteps++
		s.complete(snap)
	case snap.Restarted:
		s.stats.Restarts++
		s.endRun(OutcomeRestarted)
		s.beginRun(ctx, snap.Run)
	default:
		s.runSteps++
	}
	return snap
}

// Reset discards the generator and starts over with a new one.
func (s *Session) Reset(ctx context.Context) error {
	gen, err := maze.New(s.opts.Width, s.opts.Height, s.opts.Threshold, s.rng)
	if err != nil {
		return err
	}

	s.endRun(OutcomeReset)
	s.gen = gen
	s.beginRun(ctx, gen.Run())
	return nil
}

// Close ends the span of any run still in progress.
func (s *Session) Close() {
	s.endRun(OutcomeAbandoned)
}

// Snapshot returns the generator's live state without stepping.
func (s *Session) Snapshot() maze.Snapshot {
	return s.gen.Snapshot()
}

// RunID identifies the current run.
func (s *Session) RunID() string {
	return s.runID.String()
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) beginRun(ctx context.Context, run int) {
	s.runID = uuid.New()
	s.runSteps = 0
	s.stats.Runs++

	_, s.span = s.tracer.Start(ctx, "maze.run",
		trace.WithAttributes(
			attribute.String("maze.run_id", s.runID.String()),
			attribute.Int("maze.run", run),
			attribute.Int("maze.width", s.opts.Width),
			attribute.Int("maze.height", s.opts.Height),
			attribute.Float64("maze.threshold", s.opts.Threshold),
		),
	)

	s.log.WithFields(logrus.Fields{
		"run":    run,
		"run_id": s.runID.String(),
	}).Debug("run started")
}

// complete verifies a finished maze and closes its run.
func (s *Session) complete(snap maze.Snapshot) {
	s.stats.Completed++

	entry := s.log.WithFields(logrus.Fields{
		"run":    snap.Run,
		"run_id": s.runID.String(),
		"steps":  s.runSteps,
	})

	if err := verify.SpanningTree(snap); err != nil {
		entry.WithError(err).Error("finished maze failed verification")
		if s.span != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, "verification failed")
		}
	} else {
		entry.Info("maze finished")
	}

	s.endRun(OutcomeCompleted)
}

func (s *Session) endRun(outcome string) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(
		attribute.String("maze.outcome", outcome),
		attribute.Int("maze.steps", s.runSteps),
	)
	s.span.End()
	s.span = nil
}

package session

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/mazeband/internal/maze"
)

func newTestSession(t *testing.T, opts Options) (*Session, *tracetest.SpanRecorder, *test.Hook) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger, hook := test.NewNullLogger()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)

	opts.Tracer = tp.Tracer("test")
	opts.Logger = logger

	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	return s, recorder, hook
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) attribute.Value {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(context.Background(), Options{Width: 0, Height: 3, Threshold: 1})
	assert.ErrorIs(t, err, maze.ErrInvalidDimensions)

	_, err = New(context.Background(), Options{Width: 3, Height: 3, Threshold: 2})
	assert.ErrorIs(t, err, maze.ErrInvalidThreshold)
}

func TestCompletedRunIsTracedAndVerified(t *testing.T) {
	ctx := context.Background()
	s, recorder, hook := newTestSession(t, Options{
		Width: 2, Height: 1, Threshold: 1,
		Source: rand.New(rand.NewSource(1)),
	})
	firstID := s.RunID()

	var final maze.Snapshot
	for i := 0; i < 3; i++ {
		final = s.Tick(ctx)
	}
	require.True(t, final.Final)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "maze.run", span.Name())
	assert.Equal(t, OutcomeCompleted, attr(span, "maze.outcome").AsString())
	assert.Equal(t, int64(3), attr(span, "maze.steps").AsInt64())
	assert.Equal(t, firstID, attr(span, "maze.run_id").AsString())
	assert.Equal(t, int64(2), attr(span, "maze.width").AsInt64())

	stats := s.Stats()
	assert.Equal(t, Stats{Runs: 1, Completed: 1, Steps: 3}, stats)

	// A correct maze logs success, never a verification error.
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}
	assert.Equal(t, "maze finished", hook.LastEntry().Message)

	// The next tick starts run 2 under a new ID.
	next := s.Tick(ctx)
	assert.Equal(t, 2, next.Run)
	assert.NotEqual(t, firstID, s.RunID())
	assert.Equal(t, 2, s.Stats().Runs)
}

type alwaysAbove struct{}

func (alwaysAbove) Float64() float64 { return 0.5 }
func (alwaysAbove) Intn(int) int     { return 0 }

func TestRestartsEndRunSpans(t *testing.T) {
	ctx := context.Background()
	s, recorder, _ := newTestSession(t, Options{
		Width: 3, Height: 3, Threshold: 0,
		Source: alwaysAbove{},
	})

	for i := 0; i < 4; i++ {
		snap := s.Tick(ctx)
		assert.True(t, snap.Restarted)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 4)
	for _, span := range spans {
		assert.Equal(t, OutcomeRestarted, attr(span, "maze.outcome").AsString())
	}
	assert.Equal(t, Stats{Runs: 5, Restarts: 4, Steps: 4}, s.Stats())

	s.Close()
	spans = recorder.Ended()
	require.Len(t, spans, 5)
	assert.Equal(t, OutcomeAbandoned, attr(spans[4], "maze.outcome").AsString())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, recorder, _ := newTestSession(t, Options{
		Width: 4, Height: 4, Threshold: 1,
		Source: rand.New(rand.NewSource(5)),
	})

	for i := 0; i < 5; i++ {
		s.Tick(ctx)
	}
	require.NotZero(t, s.Snapshot().Carved())
	before := s.RunID()

	require.NoError(t, s.Reset(ctx))
	assert.Zero(t, s.Snapshot().Carved())
	assert.Equal(t, 1, s.Snapshot().Run)
	assert.NotEqual(t, before, s.RunID())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, OutcomeReset, attr(spans[0], "maze.outcome").AsString())
	assert.Equal(t, int64(5), attr(spans[0], "maze.steps").AsInt64())
}

func TestDefaultSourceUsesSeed(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestSession(t, Options{Width: 6, Height: 6, Threshold: 1, Seed: 77})
	b, _, _ := newTestSession(t, Options{Width: 6, Height: 6, Threshold: 1, Seed: 77})

	for i := 0; i < 40; i++ {
		require.Equal(t, a.Tick(ctx).Cells, b.Tick(ctx).Cells)
	}
}

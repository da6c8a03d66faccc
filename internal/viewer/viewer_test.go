package viewer

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/mazeband/internal/session"
	"github.com/samdwyer/mazeband/internal/telemetry"
	"github.com/samdwyer/mazeband/internal/theme"
	"github.com/samdwyer/mazeband/internal/ui"
)

func newTestViewer(t *testing.T, width, height int) (*Viewer, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.Wrap(sim)
	require.NoError(t, err)
	t.Cleanup(screen.Close)
	sim.SetSize(100, 2*height+2)

	logger, _ := test.NewNullLogger()
	sess, err := session.New(context.Background(), session.Options{
		Width:     width,
		Height:    height,
		Threshold: 1,
		Source:    rand.New(rand.NewSource(9)),
		Tracer:    telemetry.NoopTracer(),
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	th := theme.Theme{Wall: "#222222", Passage: "#DDDDDD", Text: "#FFFFFF"}
	v := New(screen, ui.NewRenderer(screen, th.Palette()), sess, time.Millisecond, time.Hour, logger)
	return v, sim
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestPauseAndSingleStep(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestViewer(t, 5, 5)
	now := time.Now()

	v.handleEvent(ctx, key(' '))
	assert.True(t, v.paused)

	v.advance(ctx, now)
	assert.Zero(t, v.last.Carved(), "paused viewer does not step")

	v.handleEvent(ctx, key('n'))
	assert.Equal(t, 2, v.last.Carved(), "n steps once while paused")

	v.handleEvent(ctx, key('p'))
	assert.False(t, v.paused)

	v.advance(ctx, now)
	assert.Equal(t, 3, v.last.Carved())
}

func TestStepIgnoredWhileRunning(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestViewer(t, 5, 5)

	v.handleEvent(ctx, key('n'))
	assert.Zero(t, v.last.Carved())
}

func TestHoldsFinishedMaze(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestViewer(t, 2, 1)
	now := time.Now()

	for i := 0; i < 3; i++ {
		v.advance(ctx, now)
	}
	require.True(t, v.last.Final)
	finished := v.last

	v.advance(ctx, now.Add(time.Minute))
	assert.Equal(t, finished, v.last, "finished maze stays up during the hold")

	v.advance(ctx, now.Add(2*time.Hour))
	assert.Equal(t, 2, v.last.Run)
}

func TestRestartKey(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestViewer(t, 5, 5)
	now := time.Now()

	for i := 0; i < 4; i++ {
		v.advance(ctx, now)
	}
	require.NotZero(t, v.last.Carved())

	v.handleEvent(ctx, key('r'))
	assert.Zero(t, v.last.Carved())
	assert.Equal(t, 1, v.last.Run)
	assert.Equal(t, 2, v.session.Stats().Runs)
}

func TestQuitKeys(t *testing.T) {
	ctx := context.Background()

	v, _ := newTestViewer(t, 3, 3)
	v.handleEvent(ctx, key('q'))
	assert.False(t, v.running)

	v, _ = newTestViewer(t, 3, 3)
	v.handleEvent(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.False(t, v.running)
}

func TestRunStopsOnQuit(t *testing.T) {
	v, sim := newTestViewer(t, 4, 4)

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop after q")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	v, _ := newTestViewer(t, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop after cancel")
	}
	assert.NotZero(t, v.session.Stats().Steps, "ticks stepped the maze")
}

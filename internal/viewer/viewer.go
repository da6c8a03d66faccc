// Package viewer animates maze generation in the terminal.
package viewer

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/session"
	"github.com/samdwyer/mazeband/internal/ui"
)

// Viewer holds the state of the terminal animation.
type Viewer struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *session.Session
	log      logrus.FieldLogger

	tick time.Duration
	hold time.Duration

	last      maze.Snapshot
	holdUntil time.Time
	paused    bool
	running   bool
}

// New creates a viewer that steps sess once per tick and keeps each finished
// maze on screen for hold.
func New(screen *ui.Screen, renderer *ui.Renderer, sess *session.Session, tick, hold time.Duration, log logrus.FieldLogger) *Viewer {
	return &Viewer{
		screen:   screen,
		renderer: renderer,
		session:  sess,
		log:      log,
		tick:     tick,
		hold:     hold,
		last:     sess.Snapshot(),
		running:  true,
	}
}

// Run executes the animation loop until the user quits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)
	go v.pollEvents(events, stop)

	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	for v.running {
		v.render()

		select {
		case <-ctx.Done():
			v.running = false
		case ev, ok := <-events:
			if !ok {
				v.running = false
				break
			}
			v.handleEvent(ctx, ev)
		case now := <-ticker.C:
			v.advance(ctx, now)
		}
	}

	stats := v.session.Stats()
	v.log.WithFields(logrus.Fields{
		"runs":      stats.Runs,
		"completed": stats.Completed,
		"restarts":  stats.Restarts,
		"steps":     stats.Steps,
	}).Info("viewer stopped")
	return nil
}

// pollEvents forwards terminal events until the screen closes or stop is
// closed.
func (v *Viewer) pollEvents(events chan<- tcell.Event, stop <-chan struct{}) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// advance steps the session unless paused or holding a finished maze.
func (v *Viewer) advance(ctx context.Context, now time.Time) {
	if v.paused || now.Before(v.holdUntil) {
		return
	}
	v.step(ctx, now)
}

func (v *Viewer) step(ctx context.Context, now time.Time) {
	v.last = v.session.Tick(ctx)
	if v.last.Final {
		v.holdUntil = now.Add(v.hold)
	}
}

func (v *Viewer) render() {
	stats := v.session.Stats()
	v.renderer.Render(v.last, ui.Status{
		Paused:    v.paused,
		Completed: stats.Completed,
		Restarts:  stats.Restarts,
	})
}

// handleEvent processes a single input event.
func (v *Viewer) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (v *Viewer) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			v.running = false
		case ' ', 'p', 'P':
			v.paused = !v.paused
		case 'n', 'N':
			if v.paused {
				v.step(ctx, time.Now())
			}
		case 'r', 'R':
			v.restart(ctx)
		}
	}
}

// restart throws away the current generator and starts a new one.
func (v *Viewer) restart(ctx context.Context) {
	if err := v.session.Reset(ctx); err != nil {
		v.log.WithError(err).Error("restart failed")
		return
	}
	v.last = v.session.Snapshot()
	v.holdUntil = time.Time{}
}

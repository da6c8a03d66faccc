// Package stream serves live maze generation to websocket clients.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mazeband/internal/config"
	"github.com/samdwyer/mazeband/internal/session"
)

const (
	writeTimeout    = 3 * time.Second
	shutdownTimeout = 5 * time.Second

	// maxCells bounds the maze a single client may request.
	maxCells = 200 * 200
)

// Server streams one independent maze session per websocket connection.
type Server struct {
	defaults config.Config
	tracer   trace.Tracer
	log      logrus.FieldLogger
	mux      *http.ServeMux
}

// NewServer creates a server whose sessions use cfg unless a client
// overrides the maze parameters in its query string. A nil tracer uses the
// session default.
func NewServer(cfg config.Config, tracer trace.Tracer, log logrus.FieldLogger) *Server {
	s := &Server{
		defaults: cfg,
		tracer:   tracer,
		log:      log,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/stream", s.handleStream)
	return s
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.mux,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("server shutdown")
		}
	}()

	s.log.WithField("addr", addr).Info("stream server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s: %w", addr, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configFor(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	log := s.log.WithField("remote", r.RemoteAddr)

	// Clients only listen; CloseRead cancels ctx when they go away.
	ctx := conn.CloseRead(r.Context())

	sess, err := session.New(ctx, session.Options{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Threshold: cfg.Threshold,
		Seed:      cfg.Seed,
		Tracer:    s.tracer,
		Logger:    log,
	})
	if err != nil {
		log.WithError(err).Error("creating session")
		conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}
	defer sess.Close()

	log.WithFields(logrus.Fields{
		"width":     cfg.Width,
		"height":    cfg.Height,
		"threshold": cfg.Threshold,
	}).Info("client connected")

	if err := s.pump(ctx, conn, sess, cfg); err != nil && ctx.Err() == nil {
		log.WithError(err).Warn("stream ended")
		return
	}
	log.Info("client disconnected")
}

// pump writes one frame per tick until ctx ends or a write fails.
func (s *Server) pump(ctx context.Context, conn *websocket.Conn, sess *session.Session, cfg config.Config) error {
	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()

	var holdUntil time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if now.Before(holdUntil) {
				continue
			}

			snap := sess.Tick(ctx)
			if snap.Final {
				holdUntil = now.Add(cfg.Hold)
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, NewFrame(sess.RunID(), snap))
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// configFor applies width, height, threshold and seed query overrides to
// the server defaults.
func (s *Server) configFor(q url.Values) (config.Config, error) {
	cfg := s.defaults

	if v := q.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid width %q", v)
		}
		cfg.Width = n
		if q.Get("height") == "" {
			cfg.Height = n
		}
	}
	if v := q.Get("height"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid height %q", v)
		}
		cfg.Height = n
	}
	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid threshold %q", v)
		}
		cfg.Threshold = f
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid seed %q", v)
		}
		cfg.Seed = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	// Height is positive after Validate. Comparing by division keeps huge
	// sides from wrapping the product.
	if cfg.Width > maxCells/cfg.Height {
		return cfg, fmt.Errorf("maze of %dx%d exceeds %d cells", cfg.Width, cfg.Height, maxCells)
	}
	return cfg, nil
}

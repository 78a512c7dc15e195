// Package server exposes the game over websockets. Every connected player
// gets a private engine driven by one goroutine; all engines share the
// world's encounter registry so unique encounters retire for everyone.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nathoo/templecore/config"
	"github.com/nathoo/templecore/engine/encounter"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server hosts one world for many players.
type Server struct {
	Defs       *state.Defs
	Encounters *encounter.Registry
	Hub        *Hub

	cfg   config.Config
	store *Store
	ctx   context.Context
	log   *logrus.Entry
}

// New creates a server for the loaded world. Saves are kept in
// cfg.SaveDir; an empty SaveDir disables persistence.
func New(defs *state.Defs, cfg config.Config) *Server {
	s := &Server{
		Defs:       defs,
		Encounters: encounter.New(defs.Encounters),
		Hub:        NewHub(cfg.Server.MaxPlayers),
		cfg:        cfg,
		ctx:        context.Background(),
		log:        logger.Component("server"),
	}
	if cfg.SaveDir != "" {
		s.store = &Store{Dir: cfg.SaveDir}
	}
	return s
}

// Handler returns the HTTP routes: /ws for players, /health for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down and waits for the
// listener to stop.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	s.ctx = ctx

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		s.log.WithFields(logrus.Fields{
			"addr": srv.Addr,
			"game": s.Defs.Game.Title,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := newClient(s, conn)
	go c.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"game":    s.Defs.Game.Title,
		"players": s.Hub.Names(),
	})
}

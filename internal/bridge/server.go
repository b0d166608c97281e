// Package bridge is the EventBridge: a websocket server that feeds tracker
// messages into the engine and broadcasts eaten events and scene snapshots
// back to every connected client.
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/protocol"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second

	DefaultOutbox     = 64
	DefaultSceneEvery = 6
)

// Submitter accepts engine commands. *engine.Engine implements it.
type Submitter interface {
	Submit(engine.Command) bool
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(engine.Command) bool

// Submit calls f(cmd).
func (f SubmitterFunc) Submit(cmd engine.Command) bool {
	return f(cmd)
}

// Tap observes every raw inbound message, e.g. a session recorder.
type Tap interface {
	Record(raw []byte) error
}

// Options configures a Server.
type Options struct {
	Logger     *log.Logger
	Outbox     int // per-client queued messages before drops; default 64
	SceneEvery int // broadcast a scene every n ticks; 0 uses 6, negative disables
	Tap        Tap
}

type client struct {
	id      string
	out     chan []byte
	dropped int
}

// Server is the websocket EventBridge. It implements engine.EventSink and
// engine.Renderer; both are called on the engine goroutine and never block.
type Server struct {
	target     Submitter
	logger     *log.Logger
	outbox     int
	sceneEvery uint64
	tap        Tap

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// NewServer creates a bridge submitting to target.
func NewServer(target Submitter, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	outbox := opts.Outbox
	if outbox <= 0 {
		outbox = DefaultOutbox
	}
	var every uint64
	switch {
	case opts.SceneEvery == 0:
		every = DefaultSceneEvery
	case opts.SceneEvery > 0:
		every = uint64(opts.SceneEvery)
	}
	return &Server{
		target:     target,
		logger:     logger,
		outbox:     outbox,
		sceneEvery: every,
		tap:        opts.Tap,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // trackers run on localhost
		},
		clients: make(map[string]*client),
	}
}

// Mux returns the bridge routes: /ws and /healthz.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": s.Clients()})
	})
	return mux
}

// Handler upgrades a request and serves one client until it disconnects.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer conn.Close()

		c := &client{id: uuid.NewString(), out: make(chan []byte, s.outbox)}
		hello, err := json.Marshal(protocol.Connected(c.id))
		if err != nil {
			s.logger.Error("encode handshake", "err", err)
			return
		}
		c.out <- hello
		total := s.join(c)
		s.logger.Info("client connected", "id", c.id, "remote", r.RemoteAddr, "clients", total)
		defer func() {
			total := s.leave(c)
			s.logger.Info("client disconnected", "id", c.id, "clients", total)
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						s.logger.Error("write failed", "id", c.id, "err", err)
						cancel()
						_ = conn.Close()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("read ended", "id", c.id, "err", err)
				}
				return
			}
			s.handle(c, msg)
		}
	}
}

func (s *Server) handle(c *client, msg []byte) {
	cmd, err := protocol.Decode(msg)
	if err != nil {
		s.logger.Warn("rejected message", "id", c.id, "err", err)
		return
	}
	if s.tap != nil {
		if err := s.tap.Record(msg); err != nil {
			s.logger.Error("record failed", "err", err)
		}
	}
	if !s.target.Submit(cmd) {
		s.logger.Warn("engine busy, message dropped", "id", c.id)
	}
}

func (s *Server) join(c *client) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
	return len(s.clients)
}

func (s *Server) leave(c *client) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
	return len(s.clients)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast queues b for every client, dropping it for clients whose outbox
// is full.
func (s *Server) Broadcast(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.out <- b:
		default:
			c.dropped++
			if c.dropped == 1 || c.dropped%100 == 0 {
				s.logger.Warn("slow client, dropping messages", "id", c.id, "dropped", c.dropped)
			}
		}
	}
}

// Publish forwards eaten events to every client.
func (s *Server) Publish(ev engine.Event) {
	b, ok, err := protocol.EncodeEvent(ev)
	if err != nil {
		s.logger.Error("encode event", "err", err)
		return
	}
	if ok {
		s.Broadcast(b)
	}
}

// Render broadcasts a scene message every sceneEvery ticks.
func (s *Server) Render(snap engine.Snapshot) {
	if s.sceneEvery == 0 || snap.Tick%s.sceneEvery != 0 || s.Clients() == 0 {
		return
	}
	b, err := json.Marshal(protocol.Scene(snap))
	if err != nil {
		s.logger.Error("encode scene", "err", err)
		return
	}
	s.Broadcast(b)
}

// Package remote exposes the parameter store over a websocket so the scene
// can be driven from another process or a browser.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/stylegen"
)

// Message types.
const (
	TypeSet    = "set"    // client: {field, value}
	TypeColor  = "color"  // client: {field, hex}
	TypePrompt = "prompt" // client: {prompt}
	TypeParams = "params" // server: {params, version}
	TypeStyle  = "style"  // server: {reasoning, fallback, params}
	TypeError  = "error"  // server: {error}
)

// ErrUnknownType is reported for messages with an unrecognized type.
var ErrUnknownType = errors.New("unknown message type")

// Message is a client request.
type Message struct {
	Type   string       `json:"type"`
	Field  params.Field `json:"field,omitempty"`
	Value  float64      `json:"value,omitempty"`
	Hex    string       `json:"hex,omitempty"`
	Prompt string       `json:"prompt,omitempty"`
}

// Update is a server message.
type Update struct {
	Type      string               `json:"type"`
	Params    *params.ParameterSet `json:"params,omitempty"`
	Version   uint64               `json:"version,omitempty"`
	Reasoning string               `json:"reasoning,omitempty"`
	Fallback  bool                 `json:"fallback,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// StyleService generates a parameter set from a prompt. It never fails.
type StyleService interface {
	Generate(ctx context.Context, prompt string) stylegen.Result
}

// Server accepts parameter events on /ws and broadcasts every accepted
// change to all connected clients.
type Server struct {
	store  *params.Store
	styles StyleService

	// OnStyle, when set, is called after each prompt is answered.
	OnStyle func(stylegen.Result)

	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*client]struct{}
}

// writeWait bounds a single websocket write. A client that cannot take a
// message in that time is disconnected.
const writeWait = 2 * time.Second

// replyBuffer is the number of direct replies queued per client.
const replyBuffer = 8

// client owns one connection. Only its writer goroutine writes data frames.
// Parameter snapshots are coalesced: a slow client sees the latest set,
// not every intermediate one.
type client struct {
	conn    *websocket.Conn
	replies chan Update
	wake    chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	latest *Update
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		replies: make(chan Update, replyBuffer),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// offer replaces the pending snapshot and never blocks.
func (c *client) offer(u Update) {
	c.mu.Lock()
	c.latest = &u
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *client) takeLatest() (Update, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return Update{}, false
	}
	u := *c.latest
	c.latest = nil
	return u, true
}

// reply queues a direct answer. It blocks only the client's own reader.
func (c *client) reply(u Update) bool {
	select {
	case c.replies <- u:
		return true
	case <-c.done:
		return false
	}
}

func (c *client) write(u Update) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(u)
}

// writeLoop drains replies and snapshots until done is closed or a write
// fails. A failed write closes the connection, which ends the reader.
func (c *client) writeLoop() {
	for {
		var u Update
		select {
		case <-c.done:
			return
		case u = <-c.replies:
		case <-c.wake:
			var ok bool
			if u, ok = c.takeLatest(); !ok {
				continue
			}
		}
		if err := c.write(u); err != nil {
			slog.Debug("websocket write failed", "error", err)
			c.conn.Close()
			return
		}
	}
}

// NewServer creates a server bound to store. styles may be nil, in which
// case prompt messages are rejected.
func NewServer(store *params.Store, styles StyleService) *Server {
	s := &Server{
		store:  store,
		styles: styles,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local control surface
			},
		},
		clients: make(map[*client]struct{}),
	}
	store.Watch(func(p params.ParameterSet) {
		s.broadcast(Update{Type: TypeParams, Params: &p, Version: store.Version()})
	})
	return s
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	slog.Info("remote listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("remote server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote shutdown: %w", err)
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := newClient(conn)
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c)
		s.clientsMu.Unlock()
		close(c.done)
	}()
	go c.writeLoop()

	// Send the current set first
	snap := s.store.Snapshot()
	c.offer(Update{Type: TypeParams, Params: &snap, Version: s.store.Version()})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "error", err)
			}
			return
		}
		if reply, ok := s.handle(r.Context(), msg); ok {
			if !c.reply(reply) {
				return
			}
		}
	}
}

// handle applies one message. Accepted edits are announced by broadcast,
// so only errors and style answers produce a direct reply.
func (s *Server) handle(ctx context.Context, msg Message) (Update, bool) {
	var err error
	switch msg.Type {
	case TypeSet:
		err = s.store.Apply(params.SetScalar{Field: msg.Field, Value: msg.Value})
	case TypeColor:
		err = s.store.Apply(params.SetColor{Field: msg.Field, Hex: msg.Hex})
	case TypePrompt:
		if s.styles == nil {
			return errorUpdate(errors.New("style generation disabled")), true
		}
		res := s.styles.Generate(ctx, msg.Prompt)
		if s.OnStyle != nil {
			s.OnStyle(res)
		}
		if err := s.store.Apply(params.Replace{Set: res.Config}); err != nil {
			return errorUpdate(err), true
		}
		snap := s.store.Snapshot()
		return Update{
			Type:      TypeStyle,
			Params:    &snap,
			Version:   s.store.Version(),
			Reasoning: res.Reasoning,
			Fallback:  res.Fallback,
		}, true
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	if err != nil {
		slog.Debug("remote message rejected", "type", msg.Type, "error", err)
		return errorUpdate(err), true
	}
	return Update{}, false
}

func errorUpdate(err error) Update {
	return Update{Type: TypeError, Error: err.Error()}
}

// broadcast hands u to every client without waiting on any of them. It
// runs on the goroutine that applied the edit, often the frame loop.
func (s *Server) broadcast(u Update) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for c := range s.clients {
		c.offer(u)
	}
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	for c := range s.clients {
		// WriteControl may run concurrently with the writer goroutine.
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.conn.Close()
	}
}

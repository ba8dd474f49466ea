package remote

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/stylegen"
)

type stubStyles struct {
	result stylegen.Result
}

func (s stubStyles) Generate(_ context.Context, prompt string) stylegen.Result {
	r := s.result
	r.Prompt = prompt
	return r
}

func startServer(t *testing.T, styles StyleService, onStyle ...func(stylegen.Result)) (*Server, *params.Store, string) {
	t.Helper()
	store := params.NewStore(params.Default(), params.DefaultRanges())
	srv := NewServer(store, styles)
	if len(onStyle) > 0 {
		srv.OnStyle = onStyle[0]
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, store, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var u Update
	if err := conn.ReadJSON(&u); err != nil {
		t.Fatalf("read: %v", err)
	}
	return u
}

// readType skips messages until one of the given type arrives.
func readType(t *testing.T, conn *websocket.Conn, typ string) Update {
	t.Helper()
	for i := 0; i < 10; i++ {
		if u := read(t, conn); u.Type == typ {
			return u
		}
	}
	t.Fatalf("no %s message received", typ)
	return Update{}
}

func TestInitialSnapshot(t *testing.T) {
	_, _, url := startServer(t, nil)
	conn := dial(t, url)

	u := read(t, conn)
	if u.Type != TypeParams || u.Params == nil {
		t.Fatalf("first message = %+v, want params", u)
	}
	if *u.Params != params.Default() {
		t.Errorf("params = %+v, want defaults", *u.Params)
	}
}

func TestSetBroadcastsClamped(t *testing.T) {
	srv, store, url := startServer(t, nil)
	a := dial(t, url)
	b := dial(t, url)
	read(t, a)
	read(t, b)

	// Both handlers must be registered before the edit is broadcast.
	deadline := time.Now().Add(5 * time.Second)
	for srv.ClientCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := a.WriteJSON(Message{Type: TypeSet, Field: params.FieldSpeed, Value: 99}); err != nil {
		t.Fatal(err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		u := readType(t, conn, TypeParams)
		if u.Params.Speed != 5 {
			t.Errorf("broadcast speed = %f, want clamped 5", u.Params.Speed)
		}
		if u.Version != 1 {
			t.Errorf("version = %d, want 1", u.Version)
		}
	}
	if store.Snapshot().Speed != 5 {
		t.Errorf("store speed = %f", store.Snapshot().Speed)
	}
}

func TestColorAndErrors(t *testing.T) {
	_, store, url := startServer(t, nil)
	conn := dial(t, url)
	read(t, conn)

	conn.WriteJSON(Message{Type: TypeColor, Field: params.FieldColorCore, Hex: "#00ff00"})
	if u := readType(t, conn, TypeParams); u.Params.ColorCore.Hex() != "#00ff00" {
		t.Errorf("color core = %s", u.Params.ColorCore.Hex())
	}

	tests := []Message{
		{Type: TypeColor, Field: params.FieldColorCore, Hex: "green"},
		{Type: TypeSet, Field: "brightness", Value: 1},
		{Type: "reset"},
		{Type: TypePrompt, Prompt: "no styles configured"},
	}
	for _, msg := range tests {
		conn.WriteJSON(msg)
		u := read(t, conn)
		if u.Type != TypeError || u.Error == "" {
			t.Errorf("message %+v: reply %+v, want error", msg, u)
		}
	}
	if store.Version() != 1 {
		t.Errorf("version = %d, rejected messages must not count", store.Version())
	}
}

func TestPromptAppliesStyle(t *testing.T) {
	style := params.Default()
	style.Speed = 2.5
	style.ColorOuter = params.MustParseHex("#ff0000")

	got := make(chan stylegen.Result, 1)
	_, store, url := startServer(t, stubStyles{result: stylegen.Result{
		Style: stylegen.Style{Config: style, Reasoning: "hellfire"},
	}}, func(r stylegen.Result) { got <- r })

	conn := dial(t, url)
	read(t, conn)

	conn.WriteJSON(Message{Type: TypePrompt, Prompt: "hellfire"})
	u := readType(t, conn, TypeStyle)
	if u.Reasoning != "hellfire" || u.Fallback {
		t.Errorf("style reply = %+v", u)
	}
	if *u.Params != style || store.Snapshot() != style {
		t.Errorf("params = %+v, want %+v", *u.Params, style)
	}
	if r := <-got; r.Prompt != "hellfire" {
		t.Errorf("OnStyle prompt = %q", r.Prompt)
	}
}

func TestListenAndServeStops(t *testing.T) {
	store := params.NewStore(params.Default(), params.DefaultRanges())
	srv := NewServer(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStalledClientDoesNotBlockEdits(t *testing.T) {
	srv, store, url := startServer(t, nil)
	dial(t, url) // never reads
	live := dial(t, url)
	read(t, live)

	deadline := time.Now().Add(5 * time.Second)
	for srv.ClientCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	const edits = 50000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < edits; i++ {
			store.Apply(params.SetScalar{Field: params.FieldSpeed, Value: float64(i%5) + 0.5})
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("edits blocked behind a stalled client (version=%d)", store.Version())
	}

	// The live client catches up to the final set, skipping intermediates.
	received := 0
	for {
		u := readType(t, live, TypeParams)
		received++
		if u.Version == edits {
			break
		}
	}
	if received >= edits {
		t.Errorf("received %d snapshots, want them coalesced", received)
	}
}

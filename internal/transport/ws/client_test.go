package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"voxelclient.ai/internal/protocol"
	"voxelclient.ai/internal/sim/world"
)

var _ world.Client = (*Client)(nil)

// testServer echoes nothing: it records every line it receives and sends
// greeting to the client once connected.
func testServer(t *testing.T, greeting string) (url string, lines <-chan string) {
	t.Helper()
	ch := make(chan string, 64)
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if greeting != "" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(greeting)); err != nil {
				return
			}
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			for _, l := range strings.Split(strings.TrimRight(string(msg), "\n"), "\n") {
				ch <- l
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), ch
}

func next(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case l := <-lines:
		return l
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for a line")
	}
	return ""
}

func TestClient_HandshakeAndEdits(t *testing.T) {
	url, lines := testServer(t, "")
	inbox := make(chan protocol.Message, 16)
	c, err := Dial(context.Background(), Config{URL: url, Username: "bob", Token: "tok"}, inbox, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	c.Block(1, 2, 3, 4)
	c.Sign(1, 2, 3, 0, "hi there")
	c.Chunk(0, -1, 7)

	want := []string{"V,1", "A,bob,tok", "B,1,2,3,4", "S,1,2,3,0,hi there", "C,0,-1,7"}
	for _, w := range want {
		if got := next(t, lines); got != w {
			t.Fatalf("line=%q want %q", got, w)
		}
	}
}

func TestClient_ForwardsServerLines(t *testing.T) {
	url, _ := testServer(t, "U,5,1.00,2.00,3.00,0.00,0.00\nT,hello\nnonsense\nK,0,0,9\n")
	inbox := make(chan protocol.Message, 16)
	c, err := Dial(context.Background(), Config{URL: url}, inbox, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	var got []protocol.Message
	for len(got) < 3 {
		select {
		case m := <-inbox:
			got = append(got, m)
		case <-time.After(5 * time.Second):
			t.Fatalf("got %d messages want 3", len(got))
		}
	}
	if you, ok := got[0].(protocol.You); !ok || you.ID != 5 || you.Z != 3 {
		t.Fatalf("first=%#v", got[0])
	}
	if talk, ok := got[1].(protocol.Talk); !ok || talk.Text != "hello" {
		t.Fatalf("second=%#v", got[1])
	}
	if key, ok := got[2].(protocol.Key); !ok || key.Key != 9 {
		t.Fatalf("third=%#v", got[2])
	}
}

func TestClient_PositionThrottled(t *testing.T) {
	url, lines := testServer(t, "")
	c, err := Dial(context.Background(), Config{URL: url, PositionRateHz: 0.001}, make(chan protocol.Message, 1), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	c.Position(1, 2, 3, 0, 0)
	c.Position(4, 5, 6, 0, 0)
	c.Talk("marker")

	if got := next(t, lines); got != "V,1" {
		t.Fatalf("line=%q", got)
	}
	if got := next(t, lines); got != "P,1.00,2.00,3.00,0.00,0.00" {
		t.Fatalf("line=%q", got)
	}
	if got := next(t, lines); got != "T,marker" {
		t.Fatalf("throttled position was sent: %q", got)
	}
}

func TestClient_DoneOnServerClose(t *testing.T) {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	c, err := Dial(context.Background(), Config{URL: "ws" + strings.TrimPrefix(srv.URL, "http")}, make(chan protocol.Message, 1), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not notice the closed connection")
	}
	if c.Err() == nil {
		t.Fatalf("expected a connection error")
	}
}

func TestDial_BadURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, Config{URL: "ws://127.0.0.1:1/none"}, nil, nil); err == nil {
		t.Fatalf("expected dial error")
	}
}

package livereload

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+Path, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func expect(t *testing.T, conn *websocket.Conn, want Message) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a, b := dial(t, srv.URL), dial(t, srv.URL)
	for _, conn := range []*websocket.Conn{a, b} {
		if err := conn.WriteJSON(Message{Type: TypeHello}); err != nil {
			t.Fatalf("Failed to send hello: %v", err)
		}
		expect(t, conn, Message{Type: TypeAck})
	}

	if n := hub.Broadcast(Message{Type: TypeReload}); n != 2 {
		t.Errorf("Broadcast() reached %d clients, want 2", n)
	}
	expect(t, a, Message{Type: TypeReload})
	expect(t, b, Message{Type: TypeReload})

	hub.Broadcast(Message{Type: TypeError, Message: "index.ncl: unclosed block"})
	expect(t, a, Message{Type: TypeError, Message: "index.ncl: unclosed block"})
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	conn.WriteJSON(Message{Type: TypeHello})
	expect(t, conn, Message{Type: TypeAck})
	if n := hub.Clients(); n != 1 {
		t.Fatalf("Clients() = %d, want 1", n)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client still registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScriptHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ScriptHandler("localhost:35729").ServeHTTP(rec, httptest.NewRequest("GET", ScriptPath, nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{`"localhost:35729"`, `"` + Path + `"`, `"RELOAD"`} {
		if !strings.Contains(body, want) {
			t.Errorf("script missing %s:\n%s", want, body)
		}
	}
}

package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deploytrack/deploytrack/internal/store"
	wsHub "github.com/deploytrack/deploytrack/internal/ws"
)

// --- helpers ----------------------------------------------------------------

const sampleJSON = `{
  "deployments": [
    {"Name": "release-a", "Type": "sprint",
     "PlannedDeploymentDate": "2024-03-01T00:00:00Z",
     "DeploymentDate": "2024-03-03T00:00:00Z"}
  ],
  "lastUpdated": "2024-03-10T00:00:00Z"
}`

func newStore(t *testing.T) (*store.FileStore, string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deployments.json")
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write data file: %v", err)
	}
	return store.New(p), p
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
func startHub(t *testing.T, st *store.FileStore) (wsURL string, hub *wsHub.Hub) {
	t.Helper()

	hub = wsHub.New(st)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal message: %v (%s)", err, raw)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesCollectionImmediately(t *testing.T) {
	st, _ := newStore(t)
	wsURL, _ := startHub(t, st)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	if msg.Event != "deployments" {
		t.Errorf("event: got %q, want deployments", msg.Event)
	}
	if msg.Data == nil || len(msg.Data.Deployments) != 1 {
		t.Fatalf("data: got %+v", msg.Data)
	}
	if msg.Data.Deployments[0].Name != "release-a" {
		t.Errorf("record name: got %q", msg.Data.Deployments[0].Name)
	}
}

func TestHub_Notify_BroadcastsUpdate(t *testing.T) {
	st, path := newStore(t)
	wsURL, hub := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // initial snapshot

	// Rewrite the file, invalidate, notify — mirrors what the watcher does.
	updated := strings.Replace(sampleJSON, "release-a", "release-z", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite data file: %v", err)
	}
	st.Invalidate()
	hub.Notify()

	msg := readMessage(t, conn)
	if msg.Data.Deployments[0].Name != "release-z" {
		t.Errorf("broadcast carries stale data: %+v", msg.Data.Deployments[0])
	}
}

func TestHub_Count(t *testing.T) {
	st, _ := newStore(t)
	wsURL, hub := startHub(t, st)

	if hub.Count() != 0 {
		t.Fatalf("Count before connect: got %d, want 0", hub.Count())
	}

	conn := dial(t, wsURL)
	readMessage(t, conn)

	// Registration happens during the upgrade; poll briefly.
	deadline := time.Now().Add(time.Second)
	for hub.Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Count() != 1 {
		t.Errorf("Count after connect: got %d, want 1", hub.Count())
	}
}

package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mazewalk/internal/maze"
	"mazewalk/internal/sim"
)

func TestNewGridMessage(t *testing.T) {
	g, err := maze.Parse([]string{
		"###",
		"#.#",
		"###",
	})
	if err != nil {
		t.Fatal(err)
	}
	m := maze.Mapper{Width: 3, Height: 3, CellSize: 2.0}
	msg := NewGridMessage(g, m, 99)
	if msg.Type != "grid" || msg.Seed != 99 {
		t.Fatalf("header wrong: %+v", msg)
	}
	if msg.WallCount != 8 || len(msg.Walls) != 8 {
		t.Fatalf("wall count %d/%d, want 8", msg.WallCount, len(msg.Walls))
	}
	if msg.Walls[0] != [2]int{0, 0} {
		t.Fatalf("walls not in row-major order: first=%v", msg.Walls[0])
	}
}

func TestHub_BroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Add(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Wait until the server side registered the subscriber.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(NewSnapshot(7, sim.State{X: 1.5, Z: -2.5}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "state" || snap.Tick != 7 || snap.AgentX != 1.5 || snap.AgentZ != -2.5 {
		t.Fatalf("snapshot wrong: %+v", snap)
	}
}

func TestHub_RemoveClosesAndForgets(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	ids := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ids <- hub.Add(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	id := <-ids
	if hub.Count() != 1 {
		t.Fatalf("count=%d, want 1", hub.Count())
	}
	hub.Remove(id)
	if hub.Count() != 0 {
		t.Fatalf("count=%d after remove, want 0", hub.Count())
	}
	// Removing twice is harmless.
	hub.Remove(id)
}

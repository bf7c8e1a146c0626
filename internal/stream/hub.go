package stream

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mazewalk/internal/maze"
	"mazewalk/internal/sim"
)

const writeWait = 10 * time.Second

// Snapshot is the per-tick state message broadcast to every subscriber.
type Snapshot struct {
	Type       string  `json:"type"` // always "state"
	Tick       int64   `json:"tick"`
	AgentX     float64 `json:"agentX"`
	AgentZ     float64 `json:"agentZ"`
	AgentVX    float64 `json:"agentVX"`
	AgentVZ    float64 `json:"agentVZ"`
	ServerTime int64   `json:"serverTime"`
}

// GridMessage describes the current map, sent once when a subscriber joins
// and again after a reseed. Wall cells are (x, y) pairs; clients position
// them with the same centred mapping the simulation uses.
type GridMessage struct {
	Type      string   `json:"type"` // always "grid"
	Seed      uint32   `json:"seed"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	CellSize  float64  `json:"cellSize"`
	WallCount int      `json:"wallCount"`
	Walls     [][2]int `json:"walls"`
}

// NewGridMessage flattens a generated grid into its wire form.
func NewGridMessage(g *maze.Grid, m maze.Mapper, seed uint32) GridMessage {
	msg := GridMessage{
		Type:     "grid",
		Seed:     seed,
		Width:    g.Width(),
		Height:   g.Height(),
		CellSize: m.CellSize,
		Walls:    make([][2]int, 0, g.WallCount()),
	}
	g.Walls(func(x, y int) {
		msg.Walls = append(msg.Walls, [2]int{x, y})
	})
	msg.WallCount = len(msg.Walls)
	return msg
}

// NewSnapshot captures the agent state for tick.
func NewSnapshot(tick int64, st sim.State) Snapshot {
	return Snapshot{
		Type:       "state",
		Tick:       tick,
		AgentX:     st.X,
		AgentZ:     st.Z,
		AgentVX:    st.VX,
		AgentVZ:    st.VZ,
		ServerTime: time.Now().UnixMilli(),
	}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex // serialises writes to conn
}

// Hub fans simulation state out to websocket subscribers. The simulation
// loop owns the only writer path; subscribers are read-only observers and
// never feed anything back into the sim.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*subscriber)}
}

// Add registers a connection and returns its subscriber ID.
func (h *Hub) Add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.subscribers[id] = &subscriber{conn: conn}
	h.mu.Unlock()
	return id
}

// Remove drops a subscriber and closes its connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Send writes one message to a single subscriber, used for the grid handshake.
func (h *Hub) Send(id string, msg any) error {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return h.write(id, sub, msg)
}

// Broadcast sends msg to every subscriber, dropping any whose write fails.
func (h *Hub) Broadcast(msg any) {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := h.write(id, sub, msg); err != nil {
			log.Printf("dropping subscriber %s: %v", id, err)
			h.Remove(id)
		}
	}
}

func (h *Hub) write(id string, sub *subscriber, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal for subscriber %s: %v", id, err)
		return err
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(websocket.TextMessage, payload)
}

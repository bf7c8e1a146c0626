// Command observe runs the simulation headless and streams agent state over
// websockets. Subscribers receive the full grid on connect and a state
// snapshot every tick. The agent wanders on its own under a seeded script,
// so two observe processes started with the same seed stream identical
// positions.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mazewalk/internal/config"
	"mazewalk/internal/maze"
	"mazewalk/internal/sim"
	"mazewalk/internal/stream"
)

const tickRate = 15 // snapshots per second

type server struct {
	cfg    config.Config
	grid   *maze.Grid
	mapper maze.Mapper
	ctrl   sim.Controller
	hub    *stream.Hub

	mu    sync.Mutex
	agent sim.State
	tick  int64

	// wander state
	rng     *rand.Rand
	heading float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var addr string
	var seed uint64
	flag.StringVar(&addr, "addr", cfg.ObserveAddr, "listen address")
	flag.Uint64Var(&seed, "seed", uint64(cfg.Seed), "map and wander seed")
	flag.Parse()
	cfg.Seed = uint32(seed)

	grid, err := maze.Generate(cfg.GridWidth, cfg.GridHeight, cfg.Seed, cfg.CorridorThreshold)
	if err != nil {
		log.Fatal(err)
	}

	s := &server{
		cfg:    cfg,
		grid:   grid,
		mapper: maze.Mapper{Width: cfg.GridWidth, Height: cfg.GridHeight, CellSize: cfg.CellSize},
		ctrl:   sim.Controller{Speed: cfg.AgentSpeed, Radius: cfg.CollisionRadius},
		hub:    stream.NewHub(),
		rng:    rand.New(rand.NewSource(int64(cfg.Seed))), // #nosec G404 deterministic wander
	}
	s.agent.X, s.agent.Z = spawnPoint(grid, s.mapper)

	go s.run()

	http.HandleFunc("/ws", s.handleWS)
	log.Printf("observe: seed=%d grid=%dx%d listening on %s", cfg.Seed, cfg.GridWidth, cfg.GridHeight, addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade: %v", err)
		return
	}
	id := s.hub.Add(conn)
	if err := s.hub.Send(id, stream.NewGridMessage(s.grid, s.mapper, s.cfg.Seed)); err != nil {
		log.Printf("grid handshake for %s: %v", id, err)
		s.hub.Remove(id)
		return
	}
	log.Printf("subscriber %s joined (%d total)", id, s.hub.Count())

	// Drain reads so pings and close frames are processed. Subscribers are
	// observers; inbound payloads are discarded.
	go func() {
		defer s.hub.Remove(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// run steps the wandering agent at the tick rate and broadcasts each state.
func (s *server) run() {
	dt := 1.0 / float64(tickRate)
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		in := s.wanderIntent()
		s.agent = s.ctrl.Step(s.grid, s.mapper, s.agent, in, dt)
		s.tick++
		snap := stream.NewSnapshot(s.tick, s.agent)
		s.mu.Unlock()

		s.hub.Broadcast(snap)
	}
}

// wanderIntent drives the agent forward along a heading that drifts a little
// each tick and occasionally jumps, which keeps the walker from grinding
// against the same wall forever.
func (s *server) wanderIntent() sim.Intent {
	s.heading += (s.rng.Float64() - 0.5) * 0.3
	if s.rng.Float64() < 0.01 {
		s.heading = s.rng.Float64() * 2 * math.Pi
	}
	return sim.Intent{
		Forward: true,
		FacingX: math.Cos(s.heading),
		FacingZ: math.Sin(s.heading),
	}
}

// spawnPoint returns the world position of the open cell nearest the grid
// midpoint, or the origin if no interior cell is open.
func spawnPoint(grid *maze.Grid, m maze.Mapper) (float64, float64) {
	bestX, bestY, bestD := -1, -1, math.MaxFloat64
	midX := float64(grid.Width()) / 2
	midY := float64(grid.Height()) / 2
	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			if grid.IsWall(x, y) {
				continue
			}
			dx := float64(x) - midX
			dy := float64(y) - midY
			if d := dx*dx + dy*dy; d < bestD {
				bestD = d
				bestX, bestY = x, y
			}
		}
	}
	if bestX < 0 {
		return 0, 0
	}
	return m.CellToWorld(bestX, bestY)
}

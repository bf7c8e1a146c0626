package view

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mazewalk/internal/config"
	"mazewalk/internal/maze"
	"mazewalk/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// targetMapPixels is the on-screen width the map is scaled to fit.
const targetMapPixels = 896

// statusFrames is how long a status line stays on screen.
const statusFrames = 180

// Game renders the occupancy grid top-down and drives the agent controller
// once per frame. It consumes the grid and agent state as plain data and
// never mutates the grid; all map changes go through regeneration.
type Game struct {
	cfg    config.Config
	seed   uint32
	grid   *maze.Grid
	mapper maze.Mapper
	ctrl   sim.Controller
	agent  sim.State
	tick   int64

	scale      float64 // pixels per world unit
	winW, winH int

	prevKeys  map[ebiten.Key]bool
	status    string
	statusTTL int
}

// New generates the initial grid from cfg and sizes the window around it.
func New(cfg config.Config) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		seed:     cfg.Seed,
		mapper:   maze.Mapper{Width: cfg.GridWidth, Height: cfg.GridHeight, CellSize: cfg.CellSize},
		ctrl:     sim.Controller{Speed: cfg.AgentSpeed, Radius: cfg.CollisionRadius},
		prevKeys: make(map[ebiten.Key]bool),
	}

	worldW := float64(cfg.GridWidth) * cfg.CellSize
	worldH := float64(cfg.GridHeight) * cfg.CellSize
	g.scale = targetMapPixels / worldW
	g.winW = borderWidth*2 + int(worldW*g.scale)
	g.winH = borderWidth*2 + int(worldH*g.scale)

	if err := g.regenerate(cfg.Seed); err != nil {
		return nil, err
	}
	return g, nil
}

// WindowSize returns the window dimensions in pixels.
func (g *Game) WindowSize() (int, int) {
	return g.winW, g.winH
}

// regenerate replaces the grid wholesale for a new seed and recentres the
// agent on the nearest open cell.
func (g *Game) regenerate(seed uint32) error {
	grid, err := maze.Generate(g.cfg.GridWidth, g.cfg.GridHeight, seed, g.cfg.CorridorThreshold)
	if err != nil {
		return err
	}
	g.grid = grid
	g.seed = seed
	sx, sz := spawnPoint(grid, g.mapper)
	g.agent = sim.State{X: sx, Z: sz}
	return nil
}

// spawnPoint returns the world position of the open cell closest to the grid
// midpoint, falling back to the origin if the map generated fully walled.
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

func (g *Game) Update() error {
	g.handleKeys()

	in := sim.Intent{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Backward: ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}

	// Facing comes from the cursor: the vector from the agent to the pointer,
	// expressed on the horizontal plane. The controller renormalises.
	mx, my := ebiten.CursorPosition()
	ax, ay := g.worldToScreen(g.agent.X, g.agent.Z)
	in.FacingX = float64(mx) - ax
	in.FacingZ = float64(my) - ay

	dt := 1.0 / float64(ebiten.TPS())
	g.agent = g.ctrl.Step(g.grid, g.mapper, g.agent, in, dt)
	g.tick++

	if g.statusTTL > 0 {
		g.statusTTL--
	}
	return nil
}

// handleKeys processes edge-triggered one-shot keys.
func (g *Game) handleKeys() {
	current := map[ebiten.Key]bool{}

	current[ebiten.KeyR] = ebiten.IsKeyPressed(ebiten.KeyR)
	if current[ebiten.KeyR] && !g.prevKeys[ebiten.KeyR] {
		if err := g.regenerate(g.seed + 1); err != nil {
			g.setStatus(fmt.Sprintf("regenerate failed: %v", err))
		} else {
			g.setStatus(fmt.Sprintf("regenerated with seed %d", g.seed))
		}
	}

	current[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if current[ebiten.KeyC] && !g.prevKeys[ebiten.KeyC] {
		if err := clipboard.WriteAll(g.report()); err != nil {
			g.setStatus(fmt.Sprintf("clipboard failed: %v", err))
		} else {
			g.setStatus("map report copied to clipboard")
		}
	}

	g.prevKeys = current
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = statusFrames
}

// report summarises the current map and agent for pasting into bug reports.
func (g *Game) report() string {
	total := g.grid.Width() * g.grid.Height()
	walls := g.grid.WallCount()
	return fmt.Sprintf(
		"--- mazewalk map report ---\n"+
			"seed=%d grid=%dx%d cellSize=%v threshold=%v\n"+
			"walls=%d/%d (%.1f%%)\n"+
			"agent pos=(%.3f, %.3f) vel=(%.3f, %.3f) radius=%v speed=%v\n",
		g.seed, g.grid.Width(), g.grid.Height(), g.cfg.CellSize, g.cfg.CorridorThreshold,
		walls, total, 100*float64(walls)/float64(total),
		g.agent.X, g.agent.Z, g.agent.VX, g.agent.VZ,
		g.cfg.CollisionRadius, g.cfg.AgentSpeed,
	)
}

// worldToScreen maps a world-space point to window pixels.
func (g *Game) worldToScreen(wx, wz float64) (float64, float64) {
	halfW := float64(g.mapper.Width) * g.mapper.CellSize / 2
	halfH := float64(g.mapper.Height) * g.mapper.CellSize / 2
	return borderWidth + (wx+halfW)*g.scale, borderWidth + (wz+halfH)*g.scale
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 14, B: 18, A: 255})

	ox := float32(borderWidth)
	oy := float32(borderWidth)
	mapW := float32(float64(g.mapper.Width) * g.mapper.CellSize * g.scale)
	mapH := float32(float64(g.mapper.Height) * g.mapper.CellSize * g.scale)

	// Floor.
	vector.FillRect(screen, ox, oy, mapW, mapH, color.RGBA{R: 24, G: 26, B: 32, A: 255}, false)

	cellPx := float32(g.mapper.CellSize * g.scale)
	// Wall height shows as a drop-shadow offset in the top-down view.
	shadow := float32(g.cfg.WallHeight * g.scale * 0.12)
	shadowCol := color.RGBA{R: 4, G: 4, B: 6, A: 150}
	wallFill := color.RGBA{R: 92, G: 88, B: 104, A: 255}
	wallLight := color.RGBA{R: 122, G: 118, B: 136, A: 200}

	g.grid.Walls(func(x, y int) {
		wx, wz := g.mapper.CellToWorld(x, y)
		sx, sy := g.worldToScreen(wx, wz)
		// Wall instances are centred on the cell anchor, matching collision.
		x0 := float32(sx) - cellPx/2
		y0 := float32(sy) - cellPx/2
		vector.FillRect(screen, x0+shadow, y0+shadow, cellPx, cellPx, shadowCol, false)
		vector.FillRect(screen, x0, y0, cellPx, cellPx, wallFill, false)
		vector.StrokeLine(screen, x0, y0, x0+cellPx, y0, 0.5, wallLight, false)
		vector.StrokeLine(screen, x0, y0, x0, y0+cellPx, 0.5, wallLight, false)
	})

	// Map frame.
	vector.StrokeRect(screen, ox-1, oy-1, mapW+2, mapH+2, 2.0, color.RGBA{R: 70, G: 70, B: 90, A: 255}, false)

	// Agent: filled circle plus facing line.
	axf, ayf := g.worldToScreen(g.agent.X, g.agent.Z)
	radiusPx := float32(g.ctrl.Radius * g.scale)
	if radiusPx < 2 {
		radiusPx = 2
	}
	vector.DrawFilledCircle(screen, float32(axf), float32(ayf), radiusPx,
		color.RGBA{R: 240, G: 200, B: 80, A: 255}, true)

	mx, my := ebiten.CursorPosition()
	fx := float64(mx) - axf
	fy := float64(my) - ayf
	if l := math.Hypot(fx, fy); l > 1e-6 {
		hLen := float64(radiusPx) * 2.2
		ebitenutil.DrawLine(screen, axf, ayf, axf+fx/l*hLen, ayf+fy/l*hLen,
			color.RGBA{R: 255, G: 255, B: 255, A: 160})
	}

	hud := fmt.Sprintf("seed=%d  walls=%d  pos=(%.1f, %.1f)  [R] reseed  [C] copy report",
		g.seed, g.grid.WallCount(), g.agent.X, g.agent.Z)
	ebitenutil.DebugPrintAt(screen, hud, borderWidth, 4)
	if g.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, borderWidth, g.winH-18)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.winW, g.winH
}

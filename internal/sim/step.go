package sim

import (
	"math"

	"mazewalk/internal/maze"
)

// velocitySmoothing is the fraction of the gap between current and desired
// velocity closed per step. It is applied per step, not per second, so
// steering stiffness tracks the tick rate rather than wall time.
const velocitySmoothing = 0.2

// contactEpsilon guards the push-back division when the agent sits exactly
// on a wall centre.
const contactEpsilon = 1e-4

// Step advances the agent by one simulation step of dt seconds against grid,
// resolving wall overlap, and returns the updated state.
//
// A nil grid means "no collidable geometry": velocity smoothing and
// integration still run, the bounds clamp and wall push-back are skipped.
func (c Controller) Step(grid *maze.Grid, m maze.Mapper, st State, in Intent, dt float64) State {
	fx, fz := horizontalForward(in.FacingX, in.FacingY, in.FacingZ)
	// Right-hand basis on the plane: up × forward.
	rx, rz := fz, -fx

	var dx, dz float64
	if in.Forward {
		dx += fx
		dz += fz
	}
	if in.Backward {
		dx -= fx
		dz -= fz
	}
	if in.Left {
		dx -= rx
		dz -= rz
	}
	if in.Right {
		dx += rx
		dz += rz
	}
	if l := math.Hypot(dx, dz); l > 0 {
		dx /= l
		dz /= l
	}

	st.VX += (dx*c.Speed - st.VX) * velocitySmoothing
	st.VZ += (dz*c.Speed - st.VZ) * velocitySmoothing
	st.X += st.VX * dt
	st.Z += st.VZ * dt

	if grid == nil || grid.Width() == 0 {
		return st
	}

	cx, cy := m.WorldToCell(st.X, st.Z)

	// Coarse safety clamp: if the agent's cell landed on the outer ring,
	// pull each axis independently back inside. Separate from wall
	// push-back, which handles ordinary contact.
	if cx < 1 || cy < 1 || cx >= grid.Width()-1 || cy >= grid.Height()-1 {
		limX := (float64(grid.Width())/2 - 2) * m.CellSize
		limZ := (float64(grid.Height())/2 - 2) * m.CellSize
		st.X = clamp(st.X, -limX, limX)
		st.Z = clamp(st.Z, -limZ, limZ)
		cx, cy = m.WorldToCell(st.X, st.Z)
	}

	// Wall push-back over the 3×3 neighbourhood of the agent's cell. Each
	// overlapping wall pushes independently in scan order and the pushes
	// accumulate; overlapping several walls at once yields a soft combined
	// correction rather than a single globally-consistent resolution.
	minDist := m.CellSize/2 + c.Radius
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			nx, ny := cx+ox, cy+oy
			if nx < 0 || ny < 0 || nx >= grid.Width() || ny >= grid.Height() {
				continue
			}
			if !grid.IsWall(nx, ny) {
				continue
			}
			wx, wz := m.CellToWorld(nx, ny)
			ddx := st.X - wx
			ddz := st.Z - wz
			dist := math.Hypot(ddx, ddz)
			if dist >= minDist || dist <= contactEpsilon {
				continue
			}
			push := (minDist - dist) / dist
			st.X += ddx * push
			st.Z += ddz * push
		}
	}

	return st
}

// horizontalForward projects a facing vector onto the horizontal plane and
// renormalises. A vector with no horizontal component yields the zero
// forward vector.
func horizontalForward(x, y, z float64) (float64, float64) {
	_ = y // vertical component is discarded
	l := math.Hypot(x, z)
	if l == 0 {
		return 0, 0
	}
	return x / l, z / l
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

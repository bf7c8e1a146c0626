package sim

// State is an agent's continuous world-space state: position and velocity on
// the horizontal plane. The agent is grounded; no vertical motion is
// modelled. State is owned by whoever drives the controller and mutated only
// by Step, once per simulation step.
type State struct {
	X, Z   float64 // position
	VX, VZ float64 // velocity
}

// Intent is the per-step movement input: four independent flags plus the
// camera-facing direction. The controller drops the facing vector's vertical
// component and renormalises before use, so callers may pass a raw camera
// direction.
type Intent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool

	FacingX float64
	FacingY float64
	FacingZ float64
}

// Controller resolves an agent's continuous position against an occupancy
// grid. Speed is world units per second, Radius the agent's collision circle.
// Step is a pure function of its inputs; the controller holds no per-agent
// state.
type Controller struct {
	Speed  float64
	Radius float64
}

package maze

import "math"

// Mapper is the affine transform between integer cell coordinates and
// continuous world coordinates, centred so the grid midpoint sits on the
// world origin:
//
//	world_x = (cx - width/2) * cellSize
//	world_z = (cy - height/2) * cellSize
//
// Generation export, rendering and collision all convert through the same
// Mapper value; using one transform for all three keeps visuals and physics
// from silently desynchronising.
type Mapper struct {
	Width    int
	Height   int
	CellSize float64
}

// CellToWorld returns the world-space anchor of cell (cx, cy). Renderers
// place wall instances at this point and the collision pass treats it as the
// wall's centre.
func (m Mapper) CellToWorld(cx, cy int) (wx, wz float64) {
	wx = (float64(cx) - float64(m.Width)/2) * m.CellSize
	wz = (float64(cy) - float64(m.Height)/2) * m.CellSize
	return wx, wz
}

// WorldToCell returns the cell under a world-space point: the floor of the
// inverse transform. It is exact on cell anchors, so CellToWorld followed by
// WorldToCell recovers (cx, cy) for any in-bounds cell.
func (m Mapper) WorldToCell(wx, wz float64) (cx, cy int) {
	cx = int(math.Floor(wx/m.CellSize + float64(m.Width)/2))
	cy = int(math.Floor(wz/m.CellSize + float64(m.Height)/2))
	return cx, cy
}

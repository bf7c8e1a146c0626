package maze

import (
	"errors"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// DefaultCorridorThreshold controls the open/wall ratio. Lower values grow
// more wall mass, higher values open the interior up.
const DefaultCorridorThreshold = 0.45

// noiseFrequency divides cell coordinates before noise sampling, so wall
// clusters span roughly 20 cells.
const noiseFrequency = 20.0

// Perlin generator shape: persistence, lacunarity, octaves.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// ErrInvalidDimensions is returned by Generate when a dimension is below 3.
// A one-cell border on each side needs at least three cells per axis to
// leave any interior.
var ErrInvalidDimensions = errors.New("maze: grid dimensions must be at least 3x3")

// Generate builds the occupancy grid for (width, height, seed). The border
// ring is always Wall. Each interior cell combines a smooth coherent-noise
// field with an independent uniform draw and becomes Wall when the sum
// clears threshold.
//
// Generation is deterministic: the same inputs always produce a bit-identical
// grid. The uniform draw is advanced exactly once per interior cell in
// row-major (y outer, x inner) order; that traversal order is part of the
// contract, since reordering it would shift the sequence and change the map.
//
// Known limitation: there is no connectivity repair pass. Isolated open
// pockets unreachable from the rest of the interior are possible and
// accepted.
func Generate(width, height int, seed uint32, threshold float64) (*Grid, error) {
	if width < 3 || height < 3 {
		return nil, ErrInvalidDimensions
	}

	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, int64(seed))
	rng := rand.New(rand.NewSource(int64(seed))) // #nosec G404 -- map generation, must be reproducible

	cells := make([]Cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				cells[y*width+x] = Wall
				continue
			}
			// Noise2D is roughly [-1,1]; remap to [0,1] before mixing.
			n := noise.Noise2D(float64(x)/noiseFrequency, float64(y)/noiseFrequency)*0.5 + 0.5
			r := rng.Float64()
			if n+r*0.6 > threshold {
				cells[y*width+x] = Wall
			}
		}
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

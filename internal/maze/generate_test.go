package maze

import (
	"errors"
	"testing"
)

func TestGenerate_InvalidDimensions(t *testing.T) {
	cases := [][2]int{{2, 5}, {5, 2}, {0, 0}, {-3, 10}, {1, 1}}
	for _, c := range cases {
		g, err := Generate(c[0], c[1], 42, DefaultCorridorThreshold)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Generate(%d,%d) err=%v, want ErrInvalidDimensions", c[0], c[1], err)
		}
		if g != nil {
			t.Fatalf("Generate(%d,%d) returned a partial grid", c[0], c[1])
		}
	}
}

func TestGenerate_MinimumDimensions(t *testing.T) {
	g, err := Generate(3, 3, 42, DefaultCorridorThreshold)
	if err != nil {
		t.Fatalf("Generate(3,3): %v", err)
	}
	if g.Width() != 3 || g.Height() != 3 {
		t.Fatalf("got %dx%d, want 3x3", g.Width(), g.Height())
	}
}

func TestGenerate_Determinism(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 1337, 0xFFFFFFFF} {
		a, err := Generate(40, 25, seed, DefaultCorridorThreshold)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		b, err := Generate(40, 25, seed, DefaultCorridorThreshold)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !a.Equal(b) {
			t.Fatalf("seed %d: repeated generation diverged:\n%s\n--- vs ---\n%s", seed, a, b)
		}
	}
}

func TestGenerate_BorderRing(t *testing.T) {
	g, err := Generate(17, 9, 7, DefaultCorridorThreshold)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			onRing := x == 0 || y == 0 || x == g.Width()-1 || y == g.Height()-1
			if onRing && !g.IsWall(x, y) {
				t.Fatalf("border cell (%d,%d) is not Wall", x, y)
			}
		}
	}
}

func TestGenerate_SmallGridScenario(t *testing.T) {
	g, err := Generate(5, 5, 42, DefaultCorridorThreshold)
	if err != nil {
		t.Fatal(err)
	}
	// All 16 ring cells must be Wall regardless of seed.
	ring := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 0 || y == 0 || x == 4 || y == 4 {
				ring++
				if !g.IsWall(x, y) {
					t.Fatalf("ring cell (%d,%d) open", x, y)
				}
			}
		}
	}
	if ring != 16 {
		t.Fatalf("counted %d ring cells, want 16", ring)
	}
	// Re-running seed 42 reproduces the interior pattern exactly.
	again, err := Generate(5, 5, 42, DefaultCorridorThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Equal(again) {
		t.Fatalf("seed 42 interior not reproduced:\n%s\n--- vs ---\n%s", g, again)
	}
}

func TestGenerate_ThresholdExtremes(t *testing.T) {
	// Threshold far above the field+draw ceiling: interior fully open.
	open, err := Generate(9, 9, 3, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	for y := 1; y < 8; y++ {
		for x := 1; x < 8; x++ {
			if open.IsWall(x, y) {
				t.Fatalf("threshold 2.0: interior cell (%d,%d) is Wall", x, y)
			}
		}
	}
	// Threshold below the field+draw floor: everything walls up.
	solid, err := Generate(9, 9, 3, -1.0)
	if err != nil {
		t.Fatal(err)
	}
	if solid.WallCount() != 81 {
		t.Fatalf("threshold -1.0: wall count %d, want 81", solid.WallCount())
	}
}

func TestGrid_OutOfBoundsReadsAsWall(t *testing.T) {
	g, err := Generate(5, 5, 1, DefaultCorridorThreshold)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {-10, -10}} {
		if g.At(p[0], p[1]) != Wall {
			t.Fatalf("At(%d,%d) should read as Wall", p[0], p[1])
		}
	}
}

func TestGrid_WallsEnumeration(t *testing.T) {
	g, err := Parse([]string{
		"###",
		"#.#",
		"###",
	})
	if err != nil {
		t.Fatal(err)
	}
	var got [][2]int
	g.Walls(func(x, y int) { got = append(got, [2]int{x, y}) })
	if len(got) != 8 {
		t.Fatalf("enumerated %d walls, want 8", len(got))
	}
	if g.WallCount() != 8 {
		t.Fatalf("WallCount()=%d, want 8", g.WallCount())
	}
	// Row-major order: first wall is (0,0), last is (2,2).
	if got[0] != [2]int{0, 0} || got[7] != [2]int{2, 2} {
		t.Fatalf("enumeration order wrong: first=%v last=%v", got[0], got[7])
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("empty fixture should fail")
	}
	if _, err := Parse([]string{"##", "#"}); err == nil {
		t.Fatal("ragged fixture should fail")
	}
	if _, err := Parse([]string{"#x"}); err == nil {
		t.Fatal("unknown rune should fail")
	}
}

func TestParse_RoundTripsThroughString(t *testing.T) {
	rows := []string{
		"#####",
		"#.#.#",
		"#...#",
		"#####",
	}
	g, err := Parse(rows)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse([]string{"#####", "#.#.#", "#...#", "#####"})
	if err != nil {
		t.Fatal(err)
	}
	if !g.Equal(parsed) {
		t.Fatalf("parse mismatch:\n%s", g)
	}
	if g.String() != "#####\n#.#.#\n#...#\n#####" {
		t.Fatalf("String() mismatch:\n%s", g)
	}
}

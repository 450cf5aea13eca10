package game

import (
	"math/rand"
	"testing"

	"github.com/hasrax/SquaregameIOS/internal/palette"
)

func TestNewRoundSingleWinner(t *testing.T) {
	for _, mode := range Modes {
		for _, shapeMode := range []bool{false, true} {
			for seed := int64(1); seed <= 25; seed++ {
				rng := rand.New(rand.NewSource(seed))
				r := NewRound(rng, mode, shapeMode)

				n := mode.GridSize()
				if len(r.Tiles) != n*n {
					t.Fatalf("%s seed %d: %d tiles, want %d", mode, seed, len(r.Tiles), n*n)
				}
				if r.Mode != mode || r.ShapeMode != shapeMode {
					t.Fatalf("round carries mode %s/%v, want %s/%v", r.Mode, r.ShapeMode, mode, shapeMode)
				}
				winners := CorrectTiles(r)
				if len(winners) != 1 {
					t.Fatalf("%s shape=%v seed %d: %d winning tiles, want 1", mode, shapeMode, seed, len(winners))
				}
				if winners[0].ID != r.Tiles[r.CorrectIndex].ID {
					t.Errorf("winning tile is not at CorrectIndex %d", r.CorrectIndex)
				}

				ids := make(map[string]bool, len(r.Tiles))
				for _, tile := range r.Tiles {
					if ids[tile.ID] {
						t.Fatalf("duplicate tile id %s", tile.ID)
					}
					ids[tile.ID] = true
				}
			}
		}
	}
}

func TestNewRoundReproducible(t *testing.T) {
	a := NewRound(rand.New(rand.NewSource(99)), ModeHard, true)
	b := NewRound(rand.New(rand.NewSource(99)), ModeHard, true)
	if a.CorrectIndex != b.CorrectIndex || a.TargetColor != b.TargetColor || a.TargetShape != b.TargetShape {
		t.Fatalf("targets differ for the same seed")
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d differs for the same seed: %+v vs %+v", i, a.Tiles[i], b.Tiles[i])
		}
	}
}

func TestBuildRoundShortPool(t *testing.T) {
	red := palette.Color{R: 1}
	rng := rand.New(rand.NewSource(3))
	r := buildRound(rng, []palette.Color{red}, 9, false)

	if r.TargetColor != red {
		t.Fatalf("target = %v, want %v", r.TargetColor, red)
	}
	for i, tile := range r.Tiles {
		if i == r.CorrectIndex {
			continue
		}
		if tile.Color != palette.Fallback {
			t.Errorf("decoy %d color = %v, want fallback", i, tile.Color)
		}
	}
	if got := len(CorrectTiles(r)); got != 1 {
		t.Errorf("%d winning tiles, want 1", got)
	}
}

// When the target itself is the fallback color, color-only mode ends up with
// several winning tiles. This is a known gap and is kept as is.
func TestBuildRoundFallbackCollision(t *testing.T) {
	pool := []palette.Color{palette.Fallback}

	colorOnly := buildRound(rand.New(rand.NewSource(5)), pool, 9, false)
	if got := len(CorrectTiles(colorOnly)); got != 9 {
		t.Errorf("color-only: %d winning tiles, want 9 (every decoy collides)", got)
	}

	shaped := buildRound(rand.New(rand.NewSource(5)), pool, 9, true)
	if got := len(CorrectTiles(shaped)); got != 1 {
		t.Errorf("shape-mode: %d winning tiles, want 1 (shape redraw)", got)
	}
}

func TestBuildRoundEmptyPool(t *testing.T) {
	r := buildRound(rand.New(rand.NewSource(1)), nil, 4, true)
	if r.TargetColor != palette.Fallback {
		t.Errorf("target = %v, want fallback", r.TargetColor)
	}
	if len(r.Tiles) != 4 {
		t.Errorf("%d tiles, want 4", len(r.Tiles))
	}
}

func TestOtherShape(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, excluded := range Shapes {
		for i := 0; i < 50; i++ {
			if got := otherShape(rng, excluded); got == excluded {
				t.Fatalf("otherShape returned excluded shape %s", excluded)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"easy", ModeEasy, false},
		{" Moderate ", ModeModerate, false},
		{"HARD", ModeHard, false},
		{"insane", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeAttributes(t *testing.T) {
	tests := []struct {
		mode    Mode
		grid    int
		seconds int
	}{
		{ModeEasy, 3, 15},
		{ModeModerate, 5, 25},
		{ModeHard, 7, 35},
	}
	for _, tt := range tests {
		if got := tt.mode.GridSize(); got != tt.grid {
			t.Errorf("%s.GridSize() = %d, want %d", tt.mode, got, tt.grid)
		}
		if got := tt.mode.RoundSeconds(); got != tt.seconds {
			t.Errorf("%s.RoundSeconds() = %d, want %d", tt.mode, got, tt.seconds)
		}
	}
}

// internal/game/round.go
//
// Round generation.
// A round draws an oversized palette, shuffles it, takes the first color as the
// target and fills the grid with the remaining colors as decoys. Exactly one
// tile carries the target color (and target shape in shape-mode).
//
// Known gap: in color-only mode, a decoy that falls back to palette.Fallback
// matches the target when the target itself is the fallback color. The pool is
// always larger than the grid so this only happens with hand-built pools.

package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/hasrax/SquaregameIOS/internal/palette"
)

// minPaletteSize is the smallest pool drawn per round.
const minPaletteSize = 90

// NewRound builds the tiles and target for one round of mode.
// The deadline is left zero; the engine stamps it when the timer resets.
func NewRound(rng *rand.Rand, mode Mode, shapeMode bool) Round {
	n := mode.GridSize()
	gridCount := n * n

	pool := palette.GenerateDistinct(rng, max(gridCount+10, minPaletteSize))
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	r := buildRound(rng, pool, gridCount, shapeMode)
	r.Mode = mode
	return r
}

// buildRound lays out gridCount tiles from an already shuffled pool.
// pool[0] becomes the target; an empty pool targets palette.Fallback.
func buildRound(rng *rand.Rand, pool []palette.Color, gridCount int, shapeMode bool) Round {
	target := palette.Fallback
	if len(pool) > 0 {
		target, pool = pool[0], pool[1:]
	}
	targetShape := Shapes[rng.Intn(len(Shapes))]
	correct := 0
	if gridCount > 0 {
		correct = rng.Intn(gridCount)
	}

	tiles := make([]Tile, gridCount)
	for i := range tiles {
		if i == correct {
			tiles[i] = Tile{ID: tileID(rng), Color: target, Shape: targetShape}
			continue
		}

		color := palette.Fallback
		if len(pool) > 0 {
			color, pool = pool[0], pool[1:]
		}
		shape := Shapes[rng.Intn(len(Shapes))]
		if shapeMode && color == target && shape == targetShape {
			shape = otherShape(rng, targetShape)
		}
		tiles[i] = Tile{ID: tileID(rng), Color: color, Shape: shape}
	}

	return Round{
		ShapeMode:    shapeMode,
		TargetColor:  target,
		TargetShape:  targetShape,
		Tiles:        tiles,
		CorrectIndex: correct,
	}
}

// otherShape picks uniformly among the shapes that are not excluded.
func otherShape(rng *rand.Rand, excluded Shape) Shape {
	rest := make([]Shape, 0, len(Shapes)-1)
	for _, s := range Shapes {
		if s != excluded {
			rest = append(rest, s)
		}
	}
	return rest[rng.Intn(len(rest))]
}

// tileID draws a UUID from rng so seeded rounds are fully reproducible.
func tileID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// TileByID finds a tile in the round.
func (r Round) TileByID(id string) (Tile, bool) {
	for _, t := range r.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

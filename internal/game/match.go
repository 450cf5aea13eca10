package game

// IsCorrect reports whether tapping tile wins round.
// Color must match exactly; in shape-mode the shape must match too.
func IsCorrect(tile Tile, round Round) bool {
	if tile.Color != round.TargetColor {
		return false
	}
	return !round.ShapeMode || tile.Shape == round.TargetShape
}

// CorrectTiles returns every tile that satisfies the round.
// Normally exactly one.
func CorrectTiles(round Round) []Tile {
	var out []Tile
	for _, t := range round.Tiles {
		if IsCorrect(t, round) {
			out = append(out, t)
		}
	}
	return out
}

// internal/game/scoring.go
//
// Points for a correct tap:
//   - 1 base point.
//   - Speed: +3 when tapped within 2s of the round start, else +2 within 5s.
//   - Streak: +2 when the streak reaches exactly 3, +5 when it reaches exactly 5.
//     Streak bonuses fire once at the threshold, never on later taps.

package game

const (
	BasePoints      = 1
	FastBonus       = 3
	QuickBonus      = 2
	StreakBonus     = 2
	HotStreakBonus  = 5
	fastWindow      = 2 // seconds
	quickWindow     = 5 // seconds
	streakThreshold = 3
	hotStreakThresh = 5
)

// ScoreResult is the outcome of scoring one correct tap.
type ScoreResult struct {
	Gained  int
	Streak  int
	Bonuses []Bonus
}

// ScoreCorrectTap scores a correct tap made elapsed whole seconds into the
// round, with streak correct taps already in a row before it.
func ScoreCorrectTap(elapsed, streak int) ScoreResult {
	res := ScoreResult{Gained: BasePoints, Streak: streak + 1}

	switch {
	case elapsed <= fastWindow:
		res.add(Bonus{Kind: BonusFast, Points: FastBonus, Label: "Lightning fast! +3"})
	case elapsed <= quickWindow:
		res.add(Bonus{Kind: BonusQuick, Points: QuickBonus, Label: "Quick! +2"})
	}

	switch res.Streak {
	case streakThreshold:
		res.add(Bonus{Kind: BonusStreak, Points: StreakBonus, Label: "3 in a row! +2"})
	case hotStreakThresh:
		res.add(Bonus{Kind: BonusHotStreak, Points: HotStreakBonus, Label: "On fire! 5 streak +5"})
	}
	return res
}

func (r *ScoreResult) add(b Bonus) {
	r.Gained += b.Points
	r.Bonuses = append(r.Bonuses, b)
}

// ToastLabel joins bonus labels for a single popup.
func ToastLabel(bonuses []Bonus) string {
	label := ""
	for i, b := range bonuses {
		if i > 0 {
			label += " · "
		}
		label += b.Label
	}
	return label
}

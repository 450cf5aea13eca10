// internal/game/types.go
//
// Core type definitions for the round/scoring engine.
// Defines:
//   - Mode: difficulty tier (grid size + round duration).
//   - Shape: tile glyph used in shape-mode.
//   - Tile / Round: one generated grid and its target.
//   - State, Event, Bonus, Snapshot: what the engine reports to its host.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hasrax/SquaregameIOS/internal/palette"
)

// Mode is a difficulty tier.
type Mode string

const (
	ModeEasy     Mode = "easy"
	ModeModerate Mode = "moderate"
	ModeHard     Mode = "hard"
)

// Modes lists every mode, easiest first.
var Modes = []Mode{ModeEasy, ModeModerate, ModeHard}

// ErrUnknownMode is returned for a mode outside Modes.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode maps a case-insensitive name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeEasy, ModeModerate, ModeHard:
		return true
	}
	return false
}

// GridSize is the side length of the square grid (3/5/7).
func (m Mode) GridSize() int {
	switch m {
	case ModeEasy:
		return 3
	case ModeModerate:
		return 5
	case ModeHard:
		return 7
	}
	return 0
}

// RoundSeconds is the round duration in whole seconds (15/25/35).
func (m Mode) RoundSeconds() int {
	switch m {
	case ModeEasy:
		return 15
	case ModeModerate:
		return 25
	case ModeHard:
		return 35
	}
	return 0
}

// RoundDuration is RoundSeconds as a time.Duration.
func (m Mode) RoundDuration() time.Duration {
	return time.Duration(m.RoundSeconds()) * time.Second
}

// Shape is the glyph drawn on a tile.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeDiamond  Shape = "diamond"
	ShapeTriangle Shape = "triangle"
	ShapeStar     Shape = "star"
)

// Shapes lists every shape.
var Shapes = []Shape{ShapeCircle, ShapeDiamond, ShapeTriangle, ShapeStar}

// Tile is one cell of the grid. Tiles never change once a round is generated.
type Tile struct {
	ID    string        `json:"id"`
	Color palette.Color `json:"color"`
	Shape Shape         `json:"shape"`
}

// Round is a generated grid plus its target.
type Round struct {
	Mode         Mode          `json:"mode"`
	ShapeMode    bool          `json:"shapeMode"`
	TargetColor  palette.Color `json:"targetColor"`
	TargetShape  Shape         `json:"targetShape"`
	Tiles        []Tile        `json:"tiles"`
	CorrectIndex int           `json:"correctIndex"`
	Deadline     time.Time     `json:"deadline"`
}

// State is the engine's position in the round lifecycle.
type State string

const (
	StateIdle        State = "idle" // before StartGame
	StateInRound     State = "in_round"
	StateEvaluating  State = "evaluating"
	StateRoundWon    State = "round_won"
	StateTimeout     State = "timeout"
	StateRunComplete State = "run_complete"
)

// BonusKind names a scoring bonus.
type BonusKind string

const (
	BonusFast      BonusKind = "fast"
	BonusQuick     BonusKind = "quick"
	BonusStreak    BonusKind = "streak"
	BonusHotStreak BonusKind = "hot_streak"
)

// Bonus is one bonus awarded on a correct tap.
type Bonus struct {
	Kind   BonusKind `json:"kind"`
	Points int       `json:"points"`
	Label  string    `json:"label"`
}

// EventKind names something the host may want to render.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventRoundStarted EventKind = "round_started"
	EventTick         EventKind = "tick"
	EventCorrect      EventKind = "correct"
	EventWrong        EventKind = "wrong"
	EventWrongCleared EventKind = "wrong_cleared"
	EventToastCleared EventKind = "toast_cleared"
	EventTimeout      EventKind = "timeout"
	EventRunComplete  EventKind = "run_complete"
	EventScoreSaved   EventKind = "score_saved"
)

// Event is a transition or a piece of transient feedback.
type Event struct {
	Kind    EventKind `json:"kind"`
	State   State     `json:"state,omitempty"`
	Gained  int       `json:"gained,omitempty"`
	Bonuses []Bonus   `json:"bonuses,omitempty"`
	Label   string    `json:"label,omitempty"`
}

// Snapshot is the full engine state handed to the host.
type Snapshot struct {
	State    State  `json:"state"`
	Round    Round  `json:"round"`
	Index    int    `json:"index"`
	Score    int    `json:"score"`
	Streak   int    `json:"streak"`
	TimeLeft int    `json:"timeLeft"`
	Wrong    bool   `json:"wrong"`
	Toast    string `json:"toast,omitempty"`
	Player   string `json:"player"`
}

// Update is delivered to listeners after every state change.
type Update struct {
	Snapshot Snapshot
	Events   []Event
}

// Listener receives engine updates. It is called without engine locks held.
type Listener func(Update)

// internal/game/engine.go
//
// Round/game state machine.
// Responsibilities:
//   - Start a run and generate rounds (timer reset on win/timeout).
//   - Evaluate taps, apply scoring and streaks, wrap the run after MaxRounds.
//   - Detect the round deadline from ticks (timeout fires once per round).
//   - Time-box the wrong-tap flag and bonus toast via the injected Clock.
//   - Notify subscribers with a Snapshot plus the events of each change.
//   - Hand the score to a ScoreRecorder after every correct tap.
//
// Notes:
//   - All transitions run under one mutex, so a tick and a tap never interleave.
//     A tap arriving after the deadline is resolved as a timeout.
//   - Listeners and the recorder are always called with the lock released.

package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// MaxRounds is the last round of a run; winning it starts a fresh run.
	MaxRounds = 100

	DefaultTickInterval = 100 * time.Millisecond
	WrongFlashDuration  = 350 * time.Millisecond
	ToastDuration       = 1100 * time.Millisecond
)

// ScoreRecorder persists a player's score for a mode.
type ScoreRecorder interface {
	UpsertBestScore(ctx context.Context, name string, score int, mode Mode) error
}

// Options configures an Engine. Zero fields get defaults.
type Options struct {
	Clock    Clock
	Rand     *rand.Rand
	Recorder ScoreRecorder
}

// TapOutcome classifies a tap.
type TapOutcome string

const (
	OutcomeIgnored TapOutcome = "ignored"
	OutcomeCorrect TapOutcome = "correct"
	OutcomeWrong   TapOutcome = "wrong"
	OutcomeTimeout TapOutcome = "timeout"
)

// TapResult reports what a tap did.
type TapResult struct {
	Outcome TapOutcome
	Gained  int
	Bonuses []Bonus
}

// Engine owns the state of one player's run.
type Engine struct {
	mu       sync.Mutex
	clock    Clock
	rng      *rand.Rand
	recorder ScoreRecorder
	log      zerolog.Logger

	state        State
	round        Round
	index        int
	score        int
	streak       int
	player       string
	lastTimeLeft int

	gen        uint64 // bumped for every generated round
	wrong      bool
	wrongSeq   uint64
	wrongTimer Timer
	toast      string
	toastSeq   uint64
	toastTimer Timer

	listeners    []subscriber
	nextListener uint64
	pending      []Event
}

type subscriber struct {
	id uint64
	fn Listener
}

type notification struct {
	update    Update
	listeners []Listener
}

type scoreSave struct {
	name  string
	score int
	mode  Mode
}

// New constructs an idle engine. Call StartGame to begin.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		clock:    opts.Clock,
		rng:      opts.Rand,
		recorder: opts.Recorder,
		log:      log.With().Str("component", "engine").Logger(),
		state:    StateIdle,
	}
}

// StartGame begins a fresh run: round 1, score 0, streak 0.
func (e *Engine) StartGame(mode Mode, shapeMode bool, player string) error {
	if !mode.Valid() {
		return fmt.Errorf("start game: %w: %q", ErrUnknownMode, mode)
	}

	e.mu.Lock()
	now := e.clock.Now()
	e.player = player
	e.index, e.score, e.streak = 1, 0, 0
	e.clearToastLocked()
	e.startRoundLocked(mode, shapeMode, true, now)
	e.enterLocked(StateInRound)
	n := e.flushLocked(now)
	e.mu.Unlock()

	e.log.Info().Str("mode", string(mode)).Bool("shapeMode", shapeMode).Str("player", player).Msg("game started")
	n.dispatch()
	return nil
}

// Tap handles a tap on the tile with tileID.
// Unknown tiles and taps outside a round are ignored. A tap at or after the
// deadline resolves the timeout instead.
func (e *Engine) Tap(ctx context.Context, tileID string) TapResult {
	e.mu.Lock()
	if e.state != StateInRound {
		e.mu.Unlock()
		return TapResult{Outcome: OutcomeIgnored}
	}

	now := e.clock.Now()
	timeLeft := e.timeLeftLocked(now)
	if timeLeft == 0 {
		e.timeoutLocked(now)
		n := e.flushLocked(now)
		e.mu.Unlock()
		n.dispatch()
		return TapResult{Outcome: OutcomeTimeout}
	}

	tile, ok := e.round.TileByID(tileID)
	if !ok {
		e.mu.Unlock()
		return TapResult{Outcome: OutcomeIgnored}
	}

	e.enterLocked(StateEvaluating)
	var (
		res  TapResult
		save *scoreSave
	)
	if IsCorrect(tile, e.round) {
		sr := ScoreCorrectTap(e.round.Mode.RoundSeconds()-timeLeft, e.streak)
		e.score += sr.Gained
		e.streak = sr.Streak
		res = TapResult{Outcome: OutcomeCorrect, Gained: sr.Gained, Bonuses: sr.Bonuses}

		e.enterLocked(StateRoundWon)
		e.emit(Event{Kind: EventCorrect, Gained: sr.Gained, Bonuses: sr.Bonuses, Label: ToastLabel(sr.Bonuses)})
		if len(sr.Bonuses) > 0 {
			e.showToastLocked(ToastLabel(sr.Bonuses))
			e.log.Debug().Int("streak", e.streak).Int("gained", sr.Gained).Msg("bonus")
		}
		if e.recorder != nil {
			save = &scoreSave{name: e.player, score: e.score, mode: e.round.Mode}
		}

		e.index++
		if e.index > MaxRounds {
			e.enterLocked(StateRunComplete)
			e.emit(Event{Kind: EventRunComplete, Label: fmt.Sprintf("Run complete! Final score %d", e.score)})
			e.log.Info().Int("score", e.score).Msg("run complete")
			e.index, e.score, e.streak = 1, 0, 0
		}
		e.startRoundLocked(e.round.Mode, e.round.ShapeMode, true, now)
	} else {
		e.streak = 0
		e.wrong = true
		e.scheduleWrongClearLocked()
		e.emit(Event{Kind: EventWrong})
		res = TapResult{Outcome: OutcomeWrong}
	}
	e.enterLocked(StateInRound)
	n := e.flushLocked(now)
	e.mu.Unlock()

	n.dispatch()
	if save != nil {
		// Auto-save failures are logged by save; play continues.
		_ = e.save(ctx, *save)
	}
	return res
}

// Tick recomputes the countdown at now and fires the timeout when it hits 0.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	if e.state != StateInRound {
		e.mu.Unlock()
		return
	}
	timeLeft := e.timeLeftLocked(now)
	switch {
	case timeLeft == 0:
		e.timeoutLocked(now)
	case timeLeft != e.lastTimeLeft:
		e.lastTimeLeft = timeLeft
		e.emit(Event{Kind: EventTick})
	default:
		e.mu.Unlock()
		return
	}
	n := e.flushLocked(now)
	e.mu.Unlock()
	n.dispatch()
}

// SetShapeMode switches shape-mode mid-round. The grid is regenerated but the
// countdown keeps running.
func (e *Engine) SetShapeMode(enabled bool) {
	e.mu.Lock()
	if e.state != StateInRound || e.round.ShapeMode == enabled {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	e.startRoundLocked(e.round.Mode, enabled, false, now)
	n := e.flushLocked(now)
	e.mu.Unlock()
	n.dispatch()
}

// Save records the current score explicitly (save button, app exit).
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateIdle || e.recorder == nil {
		e.mu.Unlock()
		return nil
	}
	s := scoreSave{name: e.player, score: e.score, mode: e.round.Mode}
	e.mu.Unlock()
	return e.save(ctx, s)
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers l for updates and returns a func that removes it.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextListener++
	id := e.nextListener
	e.listeners = append(e.listeners, subscriber{id: id, fn: l})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.listeners {
			if s.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Run ticks the engine every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick(e.clock.Now())
		}
	}
}

// ----------------------------- internals -----------------------------------

func (e *Engine) save(ctx context.Context, s scoreSave) error {
	if err := e.recorder.UpsertBestScore(ctx, s.name, s.score, s.mode); err != nil {
		e.log.Warn().Err(err).Str("player", s.name).Int("score", s.score).Msg("save score failed")
		return fmt.Errorf("save score: %w", err)
	}
	e.mu.Lock()
	e.emit(Event{Kind: EventScoreSaved, Gained: s.score})
	n := e.flushLocked(e.clock.Now())
	e.mu.Unlock()
	n.dispatch()
	return nil
}

func (e *Engine) startRoundLocked(mode Mode, shapeMode, resetTimer bool, now time.Time) {
	deadline := e.round.Deadline
	r := NewRound(e.rng, mode, shapeMode)
	if resetTimer || deadline.IsZero() {
		deadline = now.Add(mode.RoundDuration())
	}
	r.Deadline = deadline
	e.round = r
	e.gen++
	e.wrong = false
	if e.wrongTimer != nil {
		e.wrongTimer.Stop()
		e.wrongTimer = nil
	}
	e.lastTimeLeft = e.timeLeftLocked(now)
	e.emit(Event{Kind: EventRoundStarted})
}

func (e *Engine) timeoutLocked(now time.Time) {
	e.enterLocked(StateTimeout)
	e.streak = 0
	e.emit(Event{Kind: EventTimeout, Label: "Time's up!"})
	e.log.Debug().Int("round", e.index).Msg("round timed out")
	e.startRoundLocked(e.round.Mode, e.round.ShapeMode, true, now)
	e.enterLocked(StateInRound)
}

func (e *Engine) enterLocked(s State) {
	e.state = s
	e.emit(Event{Kind: EventStateChanged, State: s})
}

// timeLeftLocked is ceil(deadline-now) in seconds, clamped to >= 0.
func (e *Engine) timeLeftLocked(now time.Time) int {
	d := e.round.Deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func (e *Engine) scheduleWrongClearLocked() {
	if e.wrongTimer != nil {
		e.wrongTimer.Stop()
	}
	e.wrongSeq++
	gen, seq := e.gen, e.wrongSeq
	e.wrongTimer = e.clock.AfterFunc(WrongFlashDuration, func() { e.clearWrong(gen, seq) })
}

// clearWrong drops the wrong flag unless the round or flag it was scheduled
// for has since been replaced.
func (e *Engine) clearWrong(gen, seq uint64) {
	e.mu.Lock()
	if e.gen != gen || e.wrongSeq != seq || !e.wrong {
		e.mu.Unlock()
		return
	}
	e.wrong = false
	e.wrongTimer = nil
	e.emit(Event{Kind: EventWrongCleared})
	n := e.flushLocked(e.clock.Now())
	e.mu.Unlock()
	n.dispatch()
}

func (e *Engine) showToastLocked(label string) {
	e.clearToastLocked()
	e.toast = label
	seq := e.toastSeq
	e.toastTimer = e.clock.AfterFunc(ToastDuration, func() { e.clearToast(seq) })
}

func (e *Engine) clearToastLocked() {
	if e.toastTimer != nil {
		e.toastTimer.Stop()
		e.toastTimer = nil
	}
	e.toastSeq++
	e.toast = ""
}

func (e *Engine) clearToast(seq uint64) {
	e.mu.Lock()
	if e.toastSeq != seq || e.toast == "" {
		e.mu.Unlock()
		return
	}
	e.toast = ""
	e.toastTimer = nil
	e.emit(Event{Kind: EventToastCleared})
	n := e.flushLocked(e.clock.Now())
	e.mu.Unlock()
	n.dispatch()
}

func (e *Engine) emit(ev Event) {
	e.pending = append(e.pending, ev)
}

func (e *Engine) snapshotLocked(now time.Time) Snapshot {
	r := e.round
	r.Tiles = append([]Tile(nil), e.round.Tiles...)
	s := Snapshot{
		State:  e.state,
		Round:  r,
		Index:  e.index,
		Score:  e.score,
		Streak: e.streak,
		Wrong:  e.wrong,
		Toast:  e.toast,
		Player: e.player,
	}
	if e.state != StateIdle {
		s.TimeLeft = e.timeLeftLocked(now)
	}
	return s
}

func (e *Engine) flushLocked(now time.Time) notification {
	n := notification{update: Update{Snapshot: e.snapshotLocked(now), Events: e.pending}}
	e.pending = nil
	for _, s := range e.listeners {
		n.listeners = append(n.listeners, s.fn)
	}
	return n
}

func (n notification) dispatch() {
	if len(n.update.Events) == 0 {
		return
	}
	for _, l := range n.listeners {
		l(n.update)
	}
}

// internal/autoplay/bot.go
//
// Scripted player for headless sessions.
// The bot drives a ManualClock: between taps it advances time in tick-sized
// steps (ticking the engine like a UI loop would), then taps the correct tile
// with probability Accuracy or a random decoy otherwise.

package autoplay

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hasrax/SquaregameIOS/internal/game"
)

// Summary counts what happened during a session.
type Summary struct {
	Taps      int
	Correct   int
	Wrong     int
	Ignored   int
	Timeouts  int
	Runs      int // completed runs (round counter wrapped)
	BestScore int
}

// Bot is a scripted player.
type Bot struct {
	rng      *rand.Rand
	accuracy float64
	reaction time.Duration
	tick     time.Duration
}

// New creates a bot. Each tap waits reaction scaled by a factor in [0.5, 1.5).
func New(rng *rand.Rand, accuracy float64, reaction, tick time.Duration) *Bot {
	if tick <= 0 {
		tick = game.DefaultTickInterval
	}
	return &Bot{rng: rng, accuracy: accuracy, reaction: reaction, tick: tick}
}

// Play performs taps against eng, which must already be started on clock.
func (b *Bot) Play(ctx context.Context, eng *game.Engine, clock *game.ManualClock, taps int) (Summary, error) {
	var (
		mu  sync.Mutex
		sum Summary
	)
	unsubscribe := eng.Subscribe(func(u game.Update) {
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range u.Events {
			switch ev.Kind {
			case game.EventTimeout:
				sum.Timeouts++
			case game.EventRunComplete:
				sum.Runs++
			}
		}
	})
	defer unsubscribe()

	for i := 0; i < taps; i++ {
		if err := ctx.Err(); err != nil {
			return b.result(&mu, &sum), err
		}

		b.wait(eng, clock)

		snap := eng.Snapshot()
		res := eng.Tap(ctx, b.pick(snap.Round))
		score := eng.Snapshot().Score

		mu.Lock()
		sum.Taps++
		switch res.Outcome {
		case game.OutcomeCorrect:
			sum.Correct++
		case game.OutcomeWrong:
			sum.Wrong++
		case game.OutcomeIgnored:
			sum.Ignored++
		}
		if score > sum.BestScore {
			sum.BestScore = score
		}
		mu.Unlock()
	}

	s := b.result(&mu, &sum)
	log.Debug().Int("taps", s.Taps).Int("correct", s.Correct).Int("timeouts", s.Timeouts).Msg("autoplay finished")
	return s, nil
}

// wait lets simulated time pass, ticking the engine at the configured rate.
func (b *Bot) wait(eng *game.Engine, clock *game.ManualClock) {
	d := time.Duration(float64(b.reaction) * (0.5 + b.rng.Float64()))
	for d > 0 {
		step := min(b.tick, d)
		clock.Advance(step)
		eng.Tick(clock.Now())
		d -= step
	}
}

// pick chooses the tile to tap.
func (b *Bot) pick(r game.Round) string {
	var correct, decoys []game.Tile
	for _, t := range r.Tiles {
		if game.IsCorrect(t, r) {
			correct = append(correct, t)
		} else {
			decoys = append(decoys, t)
		}
	}
	if len(correct) > 0 && (len(decoys) == 0 || b.rng.Float64() < b.accuracy) {
		return correct[0].ID
	}
	if len(decoys) == 0 {
		return ""
	}
	return decoys[b.rng.Intn(len(decoys))].ID
}

func (b *Bot) result(mu *sync.Mutex, sum *Summary) Summary {
	mu.Lock()
	defer mu.Unlock()
	return *sum
}

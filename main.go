// Headless host for the round/scoring engine.
// Loads configuration, opens the configured leaderboard backend, plays an
// autoplay session on a simulated clock, saves on exit and logs the top scores.
package main

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hasrax/SquaregameIOS/internal/autoplay"
	"github.com/hasrax/SquaregameIOS/internal/config"
	"github.com/hasrax/SquaregameIOS/internal/daily"
	"github.com/hasrax/SquaregameIOS/internal/game"
	"github.com/hasrax/SquaregameIOS/internal/leaderboard"
	"github.com/hasrax/SquaregameIOS/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to open leaderboard store")
	}
	defer closeStore()
	board := leaderboard.Open(ctx, st)

	seed := cfg.Seed
	switch {
	case cfg.Daily:
		seed = daily.Seed(time.Now(), cfg.DailySalt)
		log.Info().Str("date", daily.DateKey(time.Now())).Msg("daily challenge")
	case seed == 0:
		seed = time.Now().UnixNano()
	}

	clock := game.NewManualClock(time.Now())
	eng := game.New(game.Options{
		Clock:    clock,
		Rand:     rand.New(rand.NewSource(seed)),
		Recorder: board,
	})
	if err := eng.StartGame(cfg.Mode, cfg.ShapeMode, cfg.PlayerName); err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}

	bot := autoplay.New(rand.New(rand.NewSource(seed+1)), cfg.Accuracy, cfg.ReactionTime, cfg.TickInterval)
	sum, err := bot.Play(ctx, eng, clock, cfg.Taps)
	if err != nil {
		log.Warn().Err(err).Msg("autoplay interrupted")
	}
	if err := eng.Save(context.Background()); err != nil {
		log.Error().Err(err).Msg("exit save failed")
	}

	log.Info().
		Int64("seed", seed).
		Int("taps", sum.Taps).
		Int("correct", sum.Correct).
		Int("wrong", sum.Wrong).
		Int("timeouts", sum.Timeouts).
		Int("best", sum.BestScore).
		Msg("session finished")

	for i, e := range board.Top(cfg.Mode) {
		log.Info().Int("rank", i+1).Str("name", e.Name).Int("score", e.Score).Str("mode", string(e.Mode)).Msg("leaderboard")
	}
}

// openStore builds the configured backend and returns a matching close func.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewSQLite(db, store.DefaultKey), closeDB(db), nil
	case config.BackendGdata:
		m, err := store.OpenGdata(cfg.AppName)
		if err != nil {
			// No writable data dir: keep playing with an in-memory board.
			log.Warn().Err(err).Msg("gdata unavailable")
		}
		return store.NewGdata(m), func() {}, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}

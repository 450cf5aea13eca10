// internal/leaderboard/leaderboard.go
//
// Best-score leaderboard.
// Policy (upsert-best):
//   - One entry per (name, mode); names compare case-insensitively.
//   - A save only replaces an existing entry when the new score is strictly higher.
//   - Entries are kept sorted by score descending and capped at MaxEntries.
//
// Every mutation runs read-modify-sort-truncate-write under one lock, and the
// in-memory board only changes after the backing store accepted the write.
// Loading never fails the host: unreadable data yields an empty board.

package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hasrax/SquaregameIOS/internal/game"
	"github.com/hasrax/SquaregameIOS/internal/store"
)

const (
	MaxEntries  = 100
	TopLimit    = 10
	DefaultName = "Player"
)

// Entry is one player's best score in one mode.
type Entry struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Mode  game.Mode `json:"mode"`
	Date  time.Time `json:"date"`
}

// Board is the leaderboard bound to a Store.
type Board struct {
	mu      sync.Mutex
	entries []Entry // sorted by score desc
	store   store.Store
	now     func() time.Time
	log     zerolog.Logger
}

// Open loads the board from st. A missing, unreadable or undecodable blob
// gives an empty board; the problem is logged, not returned.
func Open(ctx context.Context, st store.Store) *Board {
	b := &Board{
		store: st,
		now:   time.Now,
		log:   log.With().Str("component", "leaderboard").Logger(),
	}

	data, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return b
	case err != nil:
		b.log.Warn().Err(err).Msg("load failed, starting empty")
		return b
	}

	entries, err := Decode(data)
	if err != nil {
		b.log.Warn().Err(err).Msg("decode failed, starting empty")
		return b
	}
	b.entries = normalize(entries)
	b.log.Debug().Int("entries", len(b.entries)).Msg("loaded")
	return b
}

// NormalizeName trims whitespace and substitutes DefaultName for empty names.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// UpsertBestScore records score for (name, mode) if it beats the stored one.
func (b *Board) UpsertBestScore(ctx context.Context, name string, score int, mode game.Mode) error {
	name = NormalizeName(name)

	b.mu.Lock()
	defer b.mu.Unlock()

	next := append([]Entry(nil), b.entries...)
	idx := -1
	for i, e := range next {
		if e.Mode == mode && strings.EqualFold(e.Name, name) {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if score <= next[idx].Score {
			return nil
		}
		next[idx].Score = score
		next[idx].Date = b.now().UTC()
	} else {
		next = append(next, Entry{
			ID:    uuid.NewString(),
			Name:  name,
			Score: score,
			Mode:  mode,
			Date:  b.now().UTC(),
		})
	}
	next = normalize(next)

	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := b.store.Save(ctx, data); err != nil {
		return fmt.Errorf("leaderboard save: %w", err)
	}
	b.entries = next
	b.log.Debug().Str("name", name).Int("score", score).Str("mode", string(mode)).Msg("best score recorded")
	return nil
}

// Top returns up to TopLimit entries for mode, best first. The zero Mode
// returns the best entries across all modes.
func (b *Board) Top(mode game.Mode) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, 0, TopLimit)
	for _, e := range b.entries {
		if mode != "" && e.Mode != mode {
			continue
		}
		out = append(out, e)
		if len(out) == TopLimit {
			break
		}
	}
	return out
}

// Best returns the stored entry for (name, mode).
func (b *Board) Best(name string, mode game.Mode) (Entry, bool) {
	name = NormalizeName(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.Mode == mode && strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of every retained entry, best first.
func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// normalize sorts by score descending (stable on prior order) and caps the list.
func normalize(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Encode serializes entries as a JSON array.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array produced by Encode.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"
)

// gdata object/property the leaderboard is stored under.
const (
	leaderboardObject   = "leaderboard"
	leaderboardProperty = "scores"
)

type gdataStore struct {
	m *gdata.Manager
}

// NewGdata stores the blob in the per-user data directory managed by m.
// A nil manager (storage unavailable on this platform) degrades to memory.
func NewGdata(m *gdata.Manager) Store {
	if m == nil {
		log.Warn().Str("component", "store").Msg("gdata manager unavailable, leaderboard kept in memory")
		return NewMemory()
	}
	return &gdataStore{m: m}
}

// OpenGdata opens the gdata manager for appName.
func OpenGdata(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return m, nil
}

func (g *gdataStore) Load(ctx context.Context) ([]byte, error) {
	if !g.m.ObjectPropExists(leaderboardObject, leaderboardProperty) {
		return nil, ErrNotFound
	}
	data, err := g.m.LoadObjectProp(leaderboardObject, leaderboardProperty)
	if err != nil {
		return nil, fmt.Errorf("gdata load: %w", err)
	}
	return data, nil
}

func (g *gdataStore) Save(ctx context.Context, data []byte) error {
	if err := g.m.SaveObjectProp(leaderboardObject, leaderboardProperty, data); err != nil {
		return fmt.Errorf("gdata save: %w", err)
	}
	return nil
}

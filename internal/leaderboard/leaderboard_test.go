package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hasrax/SquaregameIOS/internal/game"
	"github.com/hasrax/SquaregameIOS/internal/store"
)

type failingStore struct {
	store.Store
	saveErr error
	loadErr error
	data    []byte
}

func (f *failingStore) Load(ctx context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.data == nil {
		return nil, store.ErrNotFound
	}
	return f.data, nil
}

func (f *failingStore) Save(ctx context.Context, data []byte) error { return f.saveErr }

func newBoard(t *testing.T) (*Board, store.Store) {
	t.Helper()
	st := store.NewMemory()
	b := Open(context.Background(), st)
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return b, st
}

func TestUpsertKeepsBest(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"lower second save", []int{50, 30}, 50},
		{"higher second save", []int{50, 80}, 80},
		{"equal second save", []int{50, 50}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBoard(t)
			for _, s := range tt.scores {
				if err := b.UpsertBestScore(ctx, "ada", s, game.ModeEasy); err != nil {
					t.Fatalf("UpsertBestScore: %v", err)
				}
			}
			entries := b.Entries()
			if len(entries) != 1 {
				t.Fatalf("%d entries, want 1", len(entries))
			}
			if entries[0].Score != tt.want {
				t.Errorf("score = %d, want %d", entries[0].Score, tt.want)
			}
		})
	}
}

func TestUpsertMatchesNameCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	_ = b.UpsertBestScore(ctx, "Ada", 10, game.ModeHard)
	_ = b.UpsertBestScore(ctx, "  ADA ", 20, game.ModeHard)
	_ = b.UpsertBestScore(ctx, "ada", 5, game.ModeEasy)

	if got := len(b.Entries()); got != 2 {
		t.Fatalf("%d entries, want 2 (one per mode)", got)
	}
	e, ok := b.Best("ada", game.ModeHard)
	if !ok || e.Score != 20 {
		t.Errorf("Best(ada, hard) = %+v, %v; want score 20", e, ok)
	}
	if e.Name != "Ada" {
		t.Errorf("name = %q, want the first spelling kept", e.Name)
	}
}

func TestNormalizeName(t *testing.T) {
	for in, want := range map[string]string{
		"":          DefaultName,
		"   ":       DefaultName,
		"\t bob \n": "bob",
		"Eve":       "Eve",
	} {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}

	b, _ := newBoard(t)
	_ = b.UpsertBestScore(context.Background(), " ", 3, game.ModeEasy)
	if _, ok := b.Best(DefaultName, game.ModeEasy); !ok {
		t.Errorf("blank name not stored as %q", DefaultName)
	}
}

func TestTopFiltersSortsAndLimits(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	for i := 0; i < 15; i++ {
		_ = b.UpsertBestScore(ctx, fmt.Sprintf("easy-%d", i), i*3, game.ModeEasy)
		_ = b.UpsertBestScore(ctx, fmt.Sprintf("hard-%d", i), i*5, game.ModeHard)
	}

	top := b.Top(game.ModeEasy)
	if len(top) != TopLimit {
		t.Fatalf("Top(easy) returned %d, want %d", len(top), TopLimit)
	}
	for i, e := range top {
		if e.Mode != game.ModeEasy {
			t.Errorf("entry %d has mode %s", i, e.Mode)
		}
		if i > 0 && top[i-1].Score < e.Score {
			t.Errorf("entries %d and %d out of order", i-1, i)
		}
	}
	if top[0].Score != 42 {
		t.Errorf("best easy score = %d, want 42", top[0].Score)
	}

	all := b.Top("")
	if len(all) != TopLimit || all[0].Mode != game.ModeHard || all[0].Score != 70 {
		t.Errorf("Top(all) first = %+v, want hard 70", all[0])
	}
	if got := b.Top(game.ModeModerate); len(got) != 0 {
		t.Errorf("Top(moderate) returned %d entries, want 0", len(got))
	}
}

func TestCapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	for i := 0; i < MaxEntries+20; i++ {
		if err := b.UpsertBestScore(ctx, fmt.Sprintf("p%d", i), i, game.ModeEasy); err != nil {
			t.Fatalf("UpsertBestScore: %v", err)
		}
	}
	entries := b.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("%d entries, want %d", len(entries), MaxEntries)
	}
	if last := entries[len(entries)-1]; last.Score != 20 {
		t.Errorf("lowest retained score = %d, want 20", last.Score)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	b, st := newBoard(t)
	_ = b.UpsertBestScore(ctx, "ada", 12, game.ModeModerate)
	_ = b.UpsertBestScore(ctx, "bob", 30, game.ModeEasy)

	reopened := Open(ctx, st)
	want := b.Entries()
	got := reopened.Entries()
	if len(got) != len(want) {
		t.Fatalf("reopened %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if !sameEntry(got[i], want[i]) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Entry{
		{ID: "a", Name: "Ada", Score: 9, Mode: game.ModeHard, Date: time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)},
		{ID: "b", Name: "Bob", Score: 4, Mode: game.ModeEasy, Date: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d entries, want %d", len(out), len(in))
	}
	for i := range in {
		if !sameEntry(out[i], in[i]) {
			t.Errorf("entry %d = %+v, want %+v", i, out[i], in[i])
		}
	}

	empty, err := Encode(nil)
	if err != nil || string(empty) != "[]" {
		t.Errorf("Encode(nil) = %s, %v; want []", empty, err)
	}
}

func TestOpenDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	tests := map[string]*failingStore{
		"corrupt data":  {data: []byte("{not json")},
		"load error":    {loadErr: errors.New("io error")},
		"nothing saved": {},
	}
	for name, st := range tests {
		t.Run(name, func(t *testing.T) {
			b := Open(ctx, st)
			if got := len(b.Entries()); got != 0 {
				t.Errorf("%d entries, want 0", got)
			}
		})
	}
}

func TestFailedSaveLeavesBoardUnchanged(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{saveErr: errors.New("read-only")}
	b := Open(ctx, st)
	if err := b.UpsertBestScore(ctx, "ada", 10, game.ModeEasy); err == nil {
		t.Fatal("UpsertBestScore returned nil for a failing store")
	}
	if got := len(b.Entries()); got != 0 {
		t.Errorf("%d entries after failed save, want 0", got)
	}
}

func TestBoardIsAScoreRecorder(t *testing.T) {
	var _ game.ScoreRecorder = (*Board)(nil)
}

func sameEntry(a, b Entry) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Score == b.Score && a.Mode == b.Mode && a.Date.Equal(b.Date)
}

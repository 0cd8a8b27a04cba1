package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/models"
)

func sampleSessions() []models.Session {
	day := time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)
	return []models.Session{
		{ID: "a", LocationID: "l1", Game: "NLH", Stakes: "1/3", Date: day, StartTime: day, EndTime: day.Add(5 * time.Hour), Profit: 225},
		{ID: "b", LocationID: "l2", Game: "NLH", IsTournament: true, BuyIn: 150, Entrants: 88, Date: day.AddDate(0, 0, -4), StartTime: day, EndTime: day.Add(time.Hour), Profit: -150, Notes: "bubble"},
		{ID: "c", LocationID: "l1", Game: "PLO", Stakes: "1/2", Date: day.AddDate(0, -1, 0), StartTime: day, EndTime: day.Add(90 * time.Minute), Profit: 0, Expenses: 20},
	}
}

func sameSessions(t *testing.T, want, got []models.Session) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if !w.Date.Equal(g.Date) || !w.StartTime.Equal(g.StartTime) || !w.EndTime.Equal(g.EndTime) {
			t.Fatalf("session %d times differ: %+v vs %+v", i, w, g)
		}
		w.Date, w.StartTime, w.EndTime = time.Time{}, time.Time{}, time.Time{}
		g.Date, g.StartTime, g.EndTime = time.Time{}, time.Time{}, time.Time{}
		if w != g {
			t.Fatalf("session %d differs:\nwant %+v\ngot  %+v", i, w, g)
		}
	}
}

func TestSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{0, 1, 3} {
		s := New(t.TempDir(), log.Discard())
		want := sampleSessions()[:n]

		if err := s.SaveSessions(ctx, want); err != nil {
			t.Fatalf("save %d: %v", n, err)
		}
		got, err := s.LoadSessions(ctx)
		if err != nil {
			t.Fatalf("load %d: %v", n, err)
		}
		sameSessions(t, want, got)
	}
}

func TestMissingFileIsNotExist(t *testing.T) {
	s := New(t.TempDir(), log.Discard())
	_, err := s.LoadLocations(context.Background())
	if !IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, sessionsFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(dir, log.Discard())
	_, err := s.LoadSessions(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestLegacyBareArray(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"x","name":"Chaser's Poker Room"},{"id":"y","name":"Encore Boston Harbor","image_url":"https://example.com/e.png"}]`
	if err := os.WriteFile(filepath.Join(dir, locationsFile), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(dir, log.Discard())
	locs, err := s.LoadLocations(context.Background())
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	if len(locs) != 2 || locs[1].ImageURL != "https://example.com/e.png" {
		t.Fatalf("unexpected locations %+v", locs)
	}
}

func TestFutureVersionIgnoresUnknownFields(t *testing.T) {
	dir := t.TempDir()
	doc := `{"version":7,"records":[{"id":"t1","type":"deposit","amount":500,"date":"2024-02-01T00:00:00Z","currency":"EUR"}]}`
	if err := os.WriteFile(filepath.Join(dir, transactionsFile), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(dir, log.Discard())
	txs, err := s.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 500 {
		t.Fatalf("unexpected transactions %+v", txs)
	}
}

func TestSaveWritesEnvelopeAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, log.Discard())
	if err := s.SaveSessions(context.Background(), sampleSessions()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSessions(context.Background(), sampleSessions()[:1]); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, sessionsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Fatalf("expected version tag in %s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(t.TempDir(), log.Discard())
	if err := s.SaveSessions(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLiveFile(t *testing.T) {
	f := NewLiveFile(filepath.Join(t.TempDir(), "live.json"))

	live, err := f.Load()
	if err != nil || live != nil {
		t.Fatalf("expected no live session, got %+v, %v", live, err)
	}

	start := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	if err := f.Save(models.LiveSession{LocationID: "l1", Game: "NLH", Stakes: "1/2", StartedAt: start, BuyIns: []int{300}}); err != nil {
		t.Fatal(err)
	}
	live, err = f.Load()
	if err != nil || live == nil {
		t.Fatalf("expected live session, got %v", err)
	}
	if live.TotalBuyIn() != 300 || !live.StartedAt.Equal(start) {
		t.Fatalf("unexpected live session %+v", live)
	}

	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("clearing twice should be fine: %v", err)
	}
	if live, _ := f.Load(); live != nil {
		t.Fatalf("expected cleared live session")
	}
}

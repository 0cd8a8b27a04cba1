package widget

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/store"
)

type fakeWriter struct {
	mu     sync.Mutex
	values map[string]string
	puts   int
	err    error
}

func (w *fakeWriter) Put(_ context.Context, values map[string]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.puts++
	w.values = values
	return nil
}

// slowWriter blocks every Put until release is closed
type slowWriter struct {
	fakeWriter
	started chan struct{}
	release chan struct{}
}

func (w *slowWriter) Put(ctx context.Context, values map[string]string) error {
	w.started <- struct{}{}
	<-w.release
	return w.fakeWriter.Put(ctx, values)
}

type fakeSource struct {
	sessions []models.Session
	observer store.Observer
}

func (s *fakeSource) Sessions() []models.Session { return s.sessions }

func (s *fakeSource) Subscribe(fn store.Observer) func() {
	s.observer = fn
	return func() { s.observer = nil }
}

func played(day, profit int) models.Session {
	date := time.Date(2024, 6, day, 20, 0, 0, 0, time.UTC)
	return models.Session{
		ID: "s", LocationID: "l", Game: "NL", Stakes: "1/2",
		Date: date, StartTime: date, EndTime: date.Add(2 * time.Hour), Profit: profit,
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	snap := Build([]models.Session{played(2, 100), played(1, -40)}, now)

	want := Snapshot{
		Bankroll:      60,
		LastSession:   100,
		Hourly:        15,
		TotalSessions: 2,
		Chart:         []metrics.Point{{X: 0, Y: 0}, {X: 1, Y: -40}, {X: 2, Y: 60}},
		UpdatedAt:     now,
	}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("Build = %+v, want %+v", snap, want)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	snap := Build([]models.Session{played(2, 100)}, now)

	values, err := snap.Values()
	if err != nil {
		t.Fatal(err)
	}
	if values[KeyBankroll] != "100" || values[KeyChart] != `[{"x":0,"y":0},{"x":1,"y":100}]` {
		t.Errorf("values = %v", values)
	}

	back, err := Parse(values)
	if err != nil {
		t.Fatal(err)
	}
	if !back.UpdatedAt.Equal(snap.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", back.UpdatedAt, snap.UpdatedAt)
	}
	back.UpdatedAt, snap.UpdatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(back, snap) {
		t.Errorf("Parse = %+v, want %+v", back, snap)
	}

	if _, err := Parse(map[string]string{KeyHourly: "fast"}); err == nil {
		t.Error("expected error for non-numeric hourly")
	}
}

func TestPublisherWritesOnSessionEvents(t *testing.T) {
	src := &fakeSource{sessions: []models.Session{played(1, 250)}}
	w := &fakeWriter{}
	p := NewPublisher(src, w, log.Discard())

	src.observer(store.Event{Kind: store.LocationAdded})
	src.observer(store.Event{Kind: store.SessionAdded, ID: "s"})
	p.Close()

	if w.puts != 1 {
		t.Fatalf("puts = %d, want 1", w.puts)
	}
	if w.values[KeyBankroll] != "250" || w.values[KeyTotalSessions] != "1" {
		t.Errorf("values = %v", w.values)
	}
	if src.observer != nil {
		t.Error("Close should unsubscribe")
	}
}

func TestPublisherSwallowsWriteErrors(t *testing.T) {
	src := &fakeSource{}
	w := &fakeWriter{err: errors.New("locked")}
	p := NewPublisher(src, w, log.Discard())

	src.observer(store.Event{Kind: store.SessionDeleted})
	p.Close()

	if w.puts != 0 {
		t.Errorf("puts = %d, want 0", w.puts)
	}
	if err := p.Refresh(); err == nil {
		t.Error("Refresh should surface the write error")
	}
}

func TestPublisherDoesNotBlockObservers(t *testing.T) {
	src := &fakeSource{sessions: []models.Session{played(1, 100)}}
	w := &slowWriter{started: make(chan struct{}, 8), release: make(chan struct{})}
	p := NewPublisher(src, w, log.Discard())

	src.observer(store.Event{Kind: store.SessionAdded})
	select {
	case <-w.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first write never started")
	}

	// The first write is stuck; later events must return right away
	src.sessions = []models.Session{played(2, 50), played(1, 100)}
	begin := time.Now()
	src.observer(store.Event{Kind: store.SessionAdded})
	src.observer(store.Event{Kind: store.SessionReplaced})
	if elapsed := time.Since(begin); elapsed > 200*time.Millisecond {
		t.Errorf("observers waited %v on a running write", elapsed)
	}

	close(w.release)
	p.Close()

	// Queued snapshots collapse into the latest one
	if w.puts != 2 {
		t.Errorf("puts = %d, want 2", w.puts)
	}
	if w.values[KeyBankroll] != "150" || w.values[KeyTotalSessions] != "2" {
		t.Errorf("values = %v", w.values)
	}
}

func TestPublisherCloseIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	p := NewPublisher(src, &fakeWriter{}, log.Discard())
	p.Close()
	p.Close()
}

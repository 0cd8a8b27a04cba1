// Package widget keeps a small bankroll snapshot in a store that the
// home-screen widget reads from another process.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/store"
)

// Keys written to the shared store
const (
	KeyBankroll      = "bankroll"
	KeyLastSession   = "last_session"
	KeyHourly        = "hourly"
	KeyTotalSessions = "total_sessions"
	KeyChart         = "chart"
	KeyUpdatedAt     = "updated_at"
)

const writeTimeout = 5 * time.Second

// Snapshot is what the widget displays
type Snapshot struct {
	Bankroll      int             `json:"bankroll"`
	LastSession   int             `json:"last_session"`
	Hourly        int             `json:"hourly"`
	TotalSessions int             `json:"total_sessions"`
	Chart         []metrics.Point `json:"chart"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Build computes the snapshot for sessions, most recent first
func Build(sessions []models.Session, now time.Time) Snapshot {
	return Snapshot{
		Bankroll:      metrics.TotalBankroll(sessions),
		LastSession:   metrics.LastSessionProfit(sessions),
		Hourly:        metrics.HourlyRate(sessions),
		TotalSessions: len(sessions),
		Chart:         metrics.ChartCoordinates(sessions),
		UpdatedAt:     now,
	}
}

// Values flattens the snapshot into shared store keys
func (s Snapshot) Values() (map[string]string, error) {
	chart, err := json.Marshal(s.Chart)
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return map[string]string{
		KeyBankroll:      strconv.Itoa(s.Bankroll),
		KeyLastSession:   strconv.Itoa(s.LastSession),
		KeyHourly:        strconv.Itoa(s.Hourly),
		KeyTotalSessions: strconv.Itoa(s.TotalSessions),
		KeyChart:         string(chart),
		KeyUpdatedAt:     s.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// Parse rebuilds a snapshot from shared store values
func Parse(values map[string]string) (Snapshot, error) {
	var snap Snapshot
	ints := []struct {
		key string
		dst *int
	}{
		{KeyBankroll, &snap.Bankroll},
		{KeyLastSession, &snap.LastSession},
		{KeyHourly, &snap.Hourly},
		{KeyTotalSessions, &snap.TotalSessions},
	}
	for _, f := range ints {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Snapshot{}, fmt.Errorf("key %s: %w", f.key, err)
		}
		*f.dst = n
	}
	if chart, ok := values[KeyChart]; ok && chart != "" {
		if err := json.Unmarshal([]byte(chart), &snap.Chart); err != nil {
			return Snapshot{}, fmt.Errorf("key %s: %w", KeyChart, err)
		}
	}
	if ts, ok := values[KeyUpdatedAt]; ok && ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return Snapshot{}, fmt.Errorf("key %s: %w", KeyUpdatedAt, err)
		}
		snap.UpdatedAt = t
	}
	return snap, nil
}

// Writer is the shared key-value store
type Writer interface {
	Put(ctx context.Context, values map[string]string) error
}

// Source provides sessions and change notifications
type Source interface {
	Sessions() []models.Session
	Subscribe(fn store.Observer) (unsubscribe func())
}

// Publisher rewrites the widget snapshot whenever sessions change.
// A single background writer drains a one-slot queue holding the latest
// snapshot.
type Publisher struct {
	source Source
	writer Writer
	log    *log.Logger
	now    func() time.Time

	unsubscribe func()
	pending     chan Snapshot
	done        chan struct{}

	mu     sync.Mutex // guards closed and orders snapshot builds
	closed bool
}

// NewPublisher subscribes to source and starts the writer. Call Close to
// stop and flush.
func NewPublisher(source Source, writer Writer, logger *log.Logger) *Publisher {
	p := &Publisher{
		source:  source,
		writer:  writer,
		log:     logger.WithComponent("widget"),
		now:     time.Now,
		pending: make(chan Snapshot, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	p.unsubscribe = source.Subscribe(p.handle)
	return p
}

func (p *Publisher) handle(e store.Event) {
	if !e.SessionsChanged() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.enqueue(Build(p.source.Sessions(), p.now()))
}

// enqueue replaces any snapshot still waiting. Callers hold p.mu.
func (p *Publisher) enqueue(snap Snapshot) {
	for {
		select {
		case p.pending <- snap:
			return
		default:
		}
		select {
		case <-p.pending:
		default:
		}
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for snap := range p.pending {
		if err := p.Publish(snap); err != nil {
			p.log.Warn("widget update failed", "error", err)
		}
	}
}

// Publish writes snap synchronously
func (p *Publisher) Publish(snap Snapshot) error {
	values, err := snap.Values()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := p.writer.Put(ctx, values); err != nil {
		return err
	}
	p.log.Debug("widget updated", "bankroll", snap.Bankroll, "sessions", snap.TotalSessions)
	return nil
}

// Refresh publishes the current sessions right away
func (p *Publisher) Refresh() error {
	return p.Publish(Build(p.source.Sessions(), p.now()))
}

// Close unsubscribes, writes the last queued snapshot and stops the writer
func (p *Publisher) Close() {
	p.unsubscribe()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.pending)
	p.mu.Unlock()

	<-p.done
}

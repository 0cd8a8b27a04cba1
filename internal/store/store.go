// Package store holds the authoritative in-memory collections of sessions,
// locations and transactions. Every mutation writes the full collection
// through a Repository before it returns and then notifies subscribers.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Repository persists whole collections
type Repository interface {
	LoadSessions(ctx context.Context) ([]models.Session, error)
	SaveSessions(ctx context.Context, sessions []models.Session) error
	LoadLocations(ctx context.Context) ([]models.Location, error)
	SaveLocations(ctx context.Context, locations []models.Location) error
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []models.Transaction) error
	Close() error
}

// Store is the in-memory record store
type Store struct {
	repo Repository
	log  *log.Logger

	mu           sync.RWMutex
	sessions     []models.Session // most recent first
	locations    []models.Location
	transactions []models.Transaction

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

// New creates an empty store backed by repo. Call Load to read persisted state.
func New(repo Repository, logger *log.Logger) *Store {
	return &Store{
		repo:         repo,
		log:          logger.WithComponent("store"),
		sessions:     []models.Session{},
		locations:    []models.Location{},
		transactions: []models.Transaction{},
	}
}

// Subscribe registers fn for change events and returns a function that removes it
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(e)
	}
}

// Load reads all collections. Missing or unreadable data never fails the
// load: sessions and transactions fall back to empty, locations to the
// built-in defaults.
func (s *Store) Load(ctx context.Context) error {
	sessions, err := s.repo.LoadSessions(ctx)
	if err != nil {
		s.logLoadFailure("sessions", err)
		sessions = []models.Session{}
	}

	locations, err := s.repo.LoadLocations(ctx)
	if err != nil {
		s.logLoadFailure("locations", err)
		locations = models.DefaultLocations()
	}

	transactions, err := s.repo.LoadTransactions(ctx)
	if err != nil {
		s.logLoadFailure("transactions", err)
		transactions = []models.Transaction{}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	sessions, locations, transactions = nonNil(sessions), nonNil(locations), nonNil(transactions)
	repointed := repointLegacySessions(sessions, locations)
	sortSessions(sessions)

	s.mu.Lock()
	s.sessions = sessions
	s.locations = locations
	s.transactions = transactions
	s.mu.Unlock()

	s.log.Debug("store loaded",
		"sessions", len(sessions),
		"locations", len(locations),
		"transactions", len(transactions),
		"repointed", repointed,
	)
	s.publish(Event{Kind: Loaded})
	return nil
}

func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

func (s *Store) logLoadFailure(collection string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no saved data, starting fresh", "collection", collection)
		return
	}
	s.log.Warn("failed to load saved data, starting fresh", "collection", collection, "error", err)
}

// repointLegacySessions resolves sessions that only carry a venue name to the
// location with that name. Returns how many were updated.
func repointLegacySessions(sessions []models.Session, locations []models.Location) int {
	byName := make(map[string]string, len(locations))
	for _, l := range locations {
		key := strings.ToLower(strings.TrimSpace(l.Name))
		if _, seen := byName[key]; !seen {
			byName[key] = l.ID
		}
	}

	n := 0
	for i := range sessions {
		if sessions[i].LocationID != "" || sessions[i].LocationName == "" {
			continue
		}
		if id, ok := byName[strings.ToLower(strings.TrimSpace(sessions[i].LocationName))]; ok {
			sessions[i].LocationID = id
			n++
		}
	}
	return n
}

// sortSessions orders by date, most recent first, keeping insertion order for ties
func sortSessions(sessions []models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.After(sessions[j].Date)
		}
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
}

// Sessions returns a copy of all sessions, most recent first
func (s *Store) Sessions() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions)
}

// SessionsFiltered returns the sessions matching f, most recent first
func (s *Store) SessionsFiltered(f metrics.Filter) []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.sessions)
}

// Session looks up a session by id
func (s *Store) Session(id string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return models.Session{}, false
}

// Locations returns a copy of all locations in user order
func (s *Store) Locations() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.locations)
}

// Location looks up a location by id
func (s *Store) Location(id string) (models.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.locations {
		if l.ID == id {
			return l, true
		}
	}
	return models.Location{}, false
}

// LocationByName finds a location by case-insensitive name
func (s *Store) LocationByName(name string) (models.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range s.locations {
		if strings.ToLower(l.Name) == name {
			return l, true
		}
	}
	return models.Location{}, false
}

// Transactions returns a copy of all transactions
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// AddSession validates and stores a new session
func (s *Store) AddSession(ctx context.Context, session models.Session) (models.Session, error) {
	if err := session.Validate(); err != nil {
		return models.Session{}, err
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	s.mu.Lock()
	for _, existing := range s.sessions {
		if existing.ID == session.ID {
			s.mu.Unlock()
			return models.Session{}, fmt.Errorf("session %s already exists", session.ID)
		}
	}
	next := append(slices.Clone(s.sessions), session)
	sortSessions(next)
	if err := s.repo.SaveSessions(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Session{}, fmt.Errorf("failed to save sessions: %w", err)
	}
	s.sessions = next
	s.mu.Unlock()

	s.log.Info("session added", "id", session.ID, "profit", session.Profit)
	s.publish(Event{Kind: SessionAdded, ID: session.ID})
	return session, nil
}

// ReplaceSession swaps the stored session with the same id for session
func (s *Store) ReplaceSession(ctx context.Context, session models.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.sessions, func(x models.Session) bool { return x.ID == session.ID })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("session %s: %w", session.ID, ErrNotFound)
	}
	next := slices.Clone(s.sessions)
	next[idx] = session
	sortSessions(next)
	if err := s.repo.SaveSessions(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	s.sessions = next
	s.mu.Unlock()

	s.publish(Event{Kind: SessionReplaced, ID: session.ID})
	return nil
}

// Import adds a batch of new locations and sessions with one write per
// collection. Every record is validated before anything is saved; when the
// session write fails the location write is undone.
func (s *Store) Import(ctx context.Context, locations []models.Location, sessions []models.Session) ([]models.Session, error) {
	seenLocations := make(map[string]bool, len(locations))
	for i := range locations {
		if err := locations[i].Validate(); err != nil {
			return nil, fmt.Errorf("location %d: %w", i+1, err)
		}
		locations[i].Name = strings.TrimSpace(locations[i].Name)
		if locations[i].ID == "" {
			locations[i].ID = uuid.NewString()
		}
		if seenLocations[locations[i].ID] {
			return nil, fmt.Errorf("location %s listed twice", locations[i].ID)
		}
		seenLocations[locations[i].ID] = true
	}

	seenSessions := make(map[string]bool, len(sessions))
	for i := range sessions {
		if err := sessions[i].Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i+1, err)
		}
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if seenSessions[sessions[i].ID] {
			return nil, fmt.Errorf("session %s listed twice", sessions[i].ID)
		}
		seenSessions[sessions[i].ID] = true
	}

	s.mu.Lock()
	for _, existing := range s.locations {
		if seenLocations[existing.ID] {
			s.mu.Unlock()
			return nil, fmt.Errorf("location %s already exists", existing.ID)
		}
	}
	for _, existing := range s.sessions {
		if seenSessions[existing.ID] {
			s.mu.Unlock()
			return nil, fmt.Errorf("session %s already exists", existing.ID)
		}
	}

	nextLocations := s.locations
	if len(locations) > 0 {
		nextLocations = append(slices.Clone(s.locations), locations...)
		if err := s.repo.SaveLocations(ctx, nextLocations); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("failed to save locations: %w", err)
		}
	}
	nextSessions := append(slices.Clone(s.sessions), sessions...)
	sortSessions(nextSessions)
	if err := s.repo.SaveSessions(ctx, nextSessions); err != nil {
		if len(locations) > 0 {
			if undoErr := s.repo.SaveLocations(ctx, s.locations); undoErr != nil {
				s.log.Error("failed to undo location import", "error", undoErr)
			}
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to save sessions: %w", err)
	}
	s.locations = nextLocations
	s.sessions = nextSessions
	s.mu.Unlock()

	s.log.Info("import stored", "sessions", len(sessions), "locations", len(locations))
	s.publish(Event{Kind: Imported})
	return sessions, nil
}

// DeleteSession removes a session. Unknown ids are a no-op and return false.
func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.sessions, func(x models.Session) bool { return x.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.sessions), idx, idx+1)
	if err := s.repo.SaveSessions(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to save sessions: %w", err)
	}
	s.sessions = next
	s.mu.Unlock()

	s.log.Info("session deleted", "id", id)
	s.publish(Event{Kind: SessionDeleted, ID: id})
	return true, nil
}

// AddLocation validates and appends a new location
func (s *Store) AddLocation(ctx context.Context, location models.Location) (models.Location, error) {
	if err := location.Validate(); err != nil {
		return models.Location{}, err
	}
	location.Name = strings.TrimSpace(location.Name)
	if location.ID == "" {
		location.ID = uuid.NewString()
	}

	s.mu.Lock()
	for _, existing := range s.locations {
		if existing.ID == location.ID {
			s.mu.Unlock()
			return models.Location{}, fmt.Errorf("location %s already exists", location.ID)
		}
	}
	next := append(slices.Clone(s.locations), location)
	if err := s.repo.SaveLocations(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Location{}, fmt.Errorf("failed to save locations: %w", err)
	}
	s.locations = next
	s.mu.Unlock()

	s.log.Info("location added", "id", location.ID, "name", location.Name)
	s.publish(Event{Kind: LocationAdded, ID: location.ID})
	return location, nil
}

// DeleteLocation removes a location. Sessions pointing at it are left alone.
func (s *Store) DeleteLocation(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.locations, func(x models.Location) bool { return x.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.locations), idx, idx+1)
	if err := s.repo.SaveLocations(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to save locations: %w", err)
	}
	s.locations = next
	s.mu.Unlock()

	s.log.Info("location deleted", "id", id)
	s.publish(Event{Kind: LocationDeleted, ID: id})
	return true, nil
}

// MergeDefaultLocations appends built-in venues that are missing, keeping
// the current order. Returns how many were added.
func (s *Store) MergeDefaultLocations(ctx context.Context) (int, error) {
	s.mu.Lock()
	next := slices.Clone(s.locations)
	for _, def := range models.DefaultLocations() {
		if !slices.ContainsFunc(next, func(l models.Location) bool { return l.ID == def.ID }) {
			next = append(next, def)
		}
	}
	added := len(next) - len(s.locations)
	if added == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	if err := s.repo.SaveLocations(ctx, next); err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("failed to save locations: %w", err)
	}
	s.locations = next
	s.mu.Unlock()

	s.publish(Event{Kind: LocationsMerged})
	return added, nil
}

// AddTransaction validates and appends a deposit or withdrawal
func (s *Store) AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	s.mu.Lock()
	next := append(slices.Clone(s.transactions), tx)
	sort.SliceStable(next, func(i, j int) bool { return next[i].Date.After(next[j].Date) })
	if err := s.repo.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Transaction{}, fmt.Errorf("failed to save transactions: %w", err)
	}
	s.transactions = next
	s.mu.Unlock()

	s.log.Info("transaction added", "id", tx.ID, "type", tx.Type, "amount", tx.Amount)
	s.publish(Event{Kind: TransactionAdded, ID: tx.ID})
	return tx, nil
}

// DeleteTransaction removes a transaction. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.transactions, func(x models.Transaction) bool { return x.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.transactions), idx, idx+1)
	if err := s.repo.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to save transactions: %w", err)
	}
	s.transactions = next
	s.mu.Unlock()

	s.publish(Event{Kind: TransactionDeleted, ID: id})
	return true, nil
}

// Close closes the underlying repository
func (s *Store) Close() error {
	return s.repo.Close()
}

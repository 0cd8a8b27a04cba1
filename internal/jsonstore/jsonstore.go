// Package jsonstore persists bankroll collections as flat JSON files, one per
// collection. Every save rewrites the whole file through a temp file and a
// rename so a crash never leaves a half-written collection behind.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/models"
)

// Version is written into every file envelope
const Version = 1

const (
	sessionsFile     = "sessions.json"
	locationsFile    = "locations.json"
	transactionsFile = "transactions.json"
)

// ErrCorrupt is returned when a file exists but cannot be decoded
var ErrCorrupt = errors.New("corrupt data file")

type envelope[T any] struct {
	Version int `json:"version"`
	Records []T `json:"records"`
}

// Store reads and writes collections under a single directory
type Store struct {
	dir string
	log *log.Logger
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string, logger *log.Logger) *Store {
	return &Store{dir: dir, log: logger.WithComponent("jsonstore")}
}

// Dir returns the directory the store writes to
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) LoadSessions(ctx context.Context) ([]models.Session, error) {
	return readCollection[models.Session](ctx, s, sessionsFile)
}

func (s *Store) SaveSessions(ctx context.Context, sessions []models.Session) error {
	return writeCollection(ctx, s, sessionsFile, sessions)
}

func (s *Store) LoadLocations(ctx context.Context) ([]models.Location, error) {
	return readCollection[models.Location](ctx, s, locationsFile)
}

func (s *Store) SaveLocations(ctx context.Context, locations []models.Location) error {
	return writeCollection(ctx, s, locationsFile, locations)
}

func (s *Store) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	return readCollection[models.Transaction](ctx, s, transactionsFile)
}

func (s *Store) SaveTransactions(ctx context.Context, transactions []models.Transaction) error {
	return writeCollection(ctx, s, transactionsFile, transactions)
}

// Close is a no-op; files are closed after every read and write
func (s *Store) Close() error {
	return nil
}

func readCollection[T any](ctx context.Context, s *Store, name string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	records, err := decode[T](data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	s.log.Debug("collection loaded", "file", name, "records", len(records))
	return records, nil
}

// decode accepts the versioned envelope and the bare array older files used
func decode[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nonNil(records), nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version < 1 {
		return nil, fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	// Newer versions only add fields, unknown ones are ignored by encoding/json.
	return nonNil(env.Records), nil
}

func writeCollection[T any](ctx context.Context, s *Store, name string, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	payload, err := json.MarshalIndent(envelope[T]{Version: Version, Records: nonNil(records)}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := writeFileAtomic(filepath.Join(s.dir, name), payload); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	s.log.Debug("collection saved", "file", name, "records", len(records))
	return nil
}

// writeFileAtomic writes to a sibling temp file, syncs it and renames it over path
func writeFileAtomic(path string, payload []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

// IsNotExist reports whether err means the collection has never been written
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

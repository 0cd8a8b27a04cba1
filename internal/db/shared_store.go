package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WidgetEntry is one key in the store shared with the home-screen widget
type WidgetEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// SharedStore is a small key-value table another process reads from
type SharedStore struct {
	db *gorm.DB
}

// OpenShared opens the shared key-value database at path
func OpenShared(path string) (*SharedStore, error) {
	db, err := open(path, &WidgetEntry{})
	if err != nil {
		return nil, err
	}
	return &SharedStore{db: db}, nil
}

// Put upserts all values in a single transaction
func (s *SharedStore) Put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now()
	entries := make([]WidgetEntry, 0, len(values))
	for k, v := range values {
		entries = append(entries, WidgetEntry{Key: k, Value: v, UpdatedAt: now})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entries).Error
	if err != nil {
		return fmt.Errorf("write shared values: %w", err)
	}
	return nil
}

// Get returns the value stored under key
func (s *SharedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	var entry WidgetEntry
	err := s.db.WithContext(ctx).Where(&WidgetEntry{Key: key}).Limit(1).Find(&entry).Error
	if err != nil {
		return "", false, fmt.Errorf("read shared value %q: %w", key, err)
	}
	if entry.Key == "" {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// All returns every stored key and value
func (s *SharedStore) All(ctx context.Context) (map[string]string, error) {
	var entries []WidgetEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("read shared values: %w", err)
	}
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
	}
	return values, nil
}

// Close closes the database connection
func (s *SharedStore) Close() error {
	return closeDB(s.db)
}

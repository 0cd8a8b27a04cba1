package db

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/models"
)

const (
	collectionSessions     = "sessions"
	collectionLocations    = "locations"
	collectionTransactions = "transactions"
)

// savedCollection records that a collection has been written at least once,
// so an empty table can be told apart from a fresh database.
type savedCollection struct {
	Name    string `gorm:"primaryKey"`
	SavedAt time.Time
}

// Repository stores bankroll collections in SQLite
type Repository struct {
	db  *gorm.DB
	log *log.Logger
}

// Open opens (or creates) the database at path and runs migrations
func Open(path string, logger *log.Logger) (*Repository, error) {
	db, err := open(path,
		&models.Session{},
		&models.Location{},
		&models.Transaction{},
		&savedCollection{},
	)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, log: logger.WithComponent("db")}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return closeDB(r.db)
}

func (r *Repository) LoadSessions(ctx context.Context) ([]models.Session, error) {
	return load[models.Session](ctx, r, collectionSessions)
}

func (r *Repository) SaveSessions(ctx context.Context, sessions []models.Session) error {
	return replace(ctx, r, collectionSessions, &models.Session{}, sessions)
}

func (r *Repository) LoadLocations(ctx context.Context) ([]models.Location, error) {
	return load[models.Location](ctx, r, collectionLocations)
}

func (r *Repository) SaveLocations(ctx context.Context, locations []models.Location) error {
	return replace(ctx, r, collectionLocations, &models.Location{}, locations)
}

func (r *Repository) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	return load[models.Transaction](ctx, r, collectionTransactions)
}

func (r *Repository) SaveTransactions(ctx context.Context, transactions []models.Transaction) error {
	return replace(ctx, r, collectionTransactions, &models.Transaction{}, transactions)
}

// load returns the rows in the order they were saved
func load[T any](ctx context.Context, r *Repository, name string) ([]T, error) {
	db := r.db.WithContext(ctx)

	var marker savedCollection
	err := db.Where("name = ?", name).Limit(1).Find(&marker).Error
	if err != nil {
		return nil, fmt.Errorf("read %s marker: %w", name, err)
	}
	if marker.Name == "" {
		return nil, fmt.Errorf("%s never saved: %w", name, fs.ErrNotExist)
	}

	records := []T{}
	if err := db.Order("rowid").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	r.log.Debug("collection loaded", "collection", name, "records", len(records))
	return records, nil
}

// replace swaps the full table content for records inside one transaction
func replace[T any](ctx context.Context, r *Repository, name string, model any, records []T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 200).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&savedCollection{Name: name, SavedAt: time.Now()}).Error
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	r.log.Debug("collection saved", "collection", name, "records", len(records))
	return nil
}

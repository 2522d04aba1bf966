// Package repository persists the two invoice collections as serialized
// rows in a local sqlite key/value table.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/invoicify/invoicify/internal/invoice/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	KeyActive  = "activeInvoices"
	KeyDeleted = "deletedInvoices"

	keySchemaVersion = "schemaVersion"
	schemaVersion    = "1"
)

type collectionRow struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "collections" }

// CollectionStore loads and saves the active and deleted collections.
type CollectionStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCollectionStore(db *gorm.DB, log *zap.Logger) (*CollectionStore, error) {
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("migrate collections table: %w", err)
	}

	s := &CollectionStore{db: db, log: log.Named("invoice.repository")}
	if err := s.ensureSchemaVersion(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load deserializes one collection. A missing key yields an empty
// collection; corrupted content is logged and treated as empty rather than
// taking the whole application down with it.
func (s *CollectionStore) Load(ctx context.Context, key string) ([]domain.Invoice, error) {
	var row collectionRow
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.Invoice{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", key, err)
	}

	var invoices []domain.Invoice
	if err := json.Unmarshal([]byte(row.Value), &invoices); err != nil {
		s.log.Warn("discarding corrupted collection",
			zap.String("key", key),
			zap.Error(err),
		)
		return []domain.Invoice{}, nil
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, nil
}

// SaveAll writes both collections in a single transaction so a record moving
// between them can never be persisted in both or neither.
func (s *CollectionStore) SaveAll(ctx context.Context, active, deleted []domain.Invoice) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, KeyActive, active); err != nil {
			return err
		}
		return upsert(tx, KeyDeleted, deleted)
	})
}

func upsert(tx *gorm.DB, key string, invoices []domain.Invoice) error {
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	payload, err := json.Marshal(invoices)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}

	row := collectionRow{Key: key, Value: string(payload), UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *CollectionStore) ensureSchemaVersion() error {
	row := collectionRow{Key: keySchemaVersion, Value: schemaVersion, UpdatedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row).Error
}

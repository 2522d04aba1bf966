package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*CollectionStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewCollectionStore(db, zap.NewNop())
	require.NoError(t, err)
	return store, db
}

func TestCollectionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ts := int64(1700000000000)
	active := []domain.Invoice{
		{
			ID: "1", Number: "INV-001", ClientName: "Acme",
			Items:  []domain.InvoiceItem{{ID: "a", Description: "Design", Quantity: 2, Rate: 50}},
			Status: domain.StatusUnpaid, CreatedAt: ts,
		},
	}
	deleted := []domain.Invoice{
		{
			ID: "2", Number: "INV-002",
			Items:     []domain.InvoiceItem{{ID: "b", Quantity: 1, Rate: 10}},
			Status:    domain.StatusPaid,
			CreatedAt: ts, DeletedAt: &ts,
		},
	}

	require.NoError(t, store.SaveAll(ctx, active, deleted))

	gotActive, err := store.Load(ctx, KeyActive)
	require.NoError(t, err)
	assert.Equal(t, active, gotActive)

	gotDeleted, err := store.Load(ctx, KeyDeleted)
	require.NoError(t, err)
	assert.Equal(t, deleted, gotDeleted)

	t.Run("save overwrites previous state", func(t *testing.T) {
		require.NoError(t, store.SaveAll(ctx, nil, deleted))
		gotActive, err := store.Load(ctx, KeyActive)
		require.NoError(t, err)
		assert.Empty(t, gotActive)
	})
}

func TestLoadMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	invoices, err := store.Load(context.Background(), KeyActive)
	assert.NoError(t, err)
	assert.NotNil(t, invoices)
	assert.Empty(t, invoices)
}

func TestLoadCorruptedCollection(t *testing.T) {
	store, db := newTestStore(t)

	db.Exec("INSERT INTO collections (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		KeyActive, "{not json]")

	invoices, err := store.Load(context.Background(), KeyActive)
	assert.NoError(t, err, "corrupted content falls back to an empty collection")
	assert.Empty(t, invoices)
}

func TestSchemaVersionWritten(t *testing.T) {
	_, db := newTestStore(t)

	var value string
	err := db.Raw("SELECT value FROM collections WHERE key = ?", keySchemaVersion).Scan(&value).Error
	assert.NoError(t, err)
	assert.Equal(t, schemaVersion, value)
}

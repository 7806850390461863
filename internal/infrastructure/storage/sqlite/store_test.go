package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landedcost/internal/core/apperror"
	"landedcost/internal/core/id"
	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "fallback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newRecord(name string, createdAt time.Time) *records.SavedCalculation {
	return &records.SavedCalculation{
		ID:                  id.New(),
		ProductName:         name,
		Category:            "Coffee Green Beans",
		UnitPrice:           61,
		Currency:            costing.CurrencyCNY,
		UnitsPerContainer:   19200,
		ContainerType:       costing.Container20ft,
		TotalCost:           274135.48,
		CostPerUnit:         14.277889583333332,
		CostPerUnitOriginal: 63.45728703703703,
		Input: costing.CalculationInput{
			ProductName:       name,
			Category:          "Coffee Green Beans",
			UnitPrice:         61,
			Currency:          costing.CurrencyCNY,
			UnitsPerContainer: 19200,
			ContainerType:     costing.Container20ft,
			ShippingCost:      2400,
			ShippingCurrency:  costing.CurrencyUSD,
			NZTransport:       3500,
			DutyRate:          0.1,
			GSTRate:           15,
			GSTRegistered:     true,
			OtherFees:         2240,
			Incoterms:         costing.IncotermsFOB,
		},
		CreatedAt:    createdAt,
		LastModified: createdAt,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := newRecord("Yunnan YNH-W-C5-001", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, rec))

	loaded, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, rec.ProductName, loaded.ProductName)
	assert.Equal(t, rec.TotalCost, loaded.TotalCost)
	assert.Equal(t, rec.CostPerUnit, loaded.CostPerUnit)
	assert.Equal(t, rec.CreatedAt, loaded.CreatedAt)

	// The input snapshot round-trips exactly.
	assert.Equal(t, rec.Input, loaded.Input)
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_UpdatePreservesCreatedAt(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := newRecord("Yunnan YNH-W-C5-001", created)
	require.NoError(t, store.Save(ctx, rec))

	rec.ProductName = "Yunnan YNH-W-C5-002"
	rec.TotalCost = 280000
	rec.CreatedAt = created.Add(48 * time.Hour) // must be ignored
	rec.LastModified = created.Add(time.Hour)
	require.NoError(t, store.Update(ctx, rec))

	loaded, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, "Yunnan YNH-W-C5-002", loaded.ProductName)
	assert.Equal(t, 280000.0, loaded.TotalCost)
	assert.Equal(t, created, loaded.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), loaded.LastModified)
}

func TestStore_UpdateMissing(t *testing.T) {
	store := openTestStore(t)

	rec := newRecord("Ghost", time.Now().UTC())
	err := store.Update(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := newRecord("P", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Save(ctx, rec))
	}

	recs, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, base.Add(4*time.Minute), recs[0].CreatedAt)
	assert.Equal(t, base.Add(3*time.Minute), recs[1].CreatedAt)
	assert.Equal(t, base.Add(2*time.Minute), recs[2].CreatedAt)
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := newRecord("P", time.Now().UTC())
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, rec.ID))

	_, err := store.Get(ctx, rec.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = store.Delete(ctx, rec.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_Healthy(t *testing.T) {
	store := openTestStore(t)
	assert.True(t, store.Healthy(context.Background()))
	assert.Equal(t, "sqlite", store.Name())
}

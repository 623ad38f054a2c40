package draft

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"washbooking/internal/domain"
)

func TestMemoryStore_Create(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d, err := store.Create(ctx, "c1", "w1", "s1")
	assert.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, domain.StepFirst, d.Step)
	assert.Equal(t, "c1", d.CustomerID)
	assert.Equal(t, "w1", d.WorkerID)
	assert.Equal(t, "s1", d.ServiceID)
	assert.Empty(t, d.SelectedServices)
	assert.Equal(t, domain.PaymentCash, d.PaymentMethod)
}

func TestMemoryStore_CreateReplacesExistingDraft(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, "c1", "w1", "s1")
	assert.NoError(t, err)

	date := "2026-09-01"
	_, err = store.Apply(ctx, first.ID, domain.DraftPatch{Date: &date})
	assert.NoError(t, err)

	// Re-entering the wizard, even for a different worker, starts clean.
	second, err := store.Create(ctx, "c1", "w2", "s2")
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, second.Date)

	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ApplyPartialMerge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d, _ := store.Create(ctx, "c1", "w1", "s1")

	date := "2026-09-01"
	tm := "14:30"
	_, err := store.Apply(ctx, d.ID, domain.DraftPatch{Date: &date, Time: &tm})
	assert.NoError(t, err)

	vt := domain.VehicleSUV
	updated, err := store.Apply(ctx, d.ID, domain.DraftPatch{VehicleType: &vt})
	assert.NoError(t, err)

	// Later patches leave earlier slices untouched.
	assert.Equal(t, "2026-09-01", updated.Date)
	assert.Equal(t, "14:30", updated.Time)
	assert.Equal(t, domain.VehicleSUV, updated.VehicleType)
	assert.Equal(t, "w1", updated.WorkerID)
}

func TestMemoryStore_ApplyNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Apply(context.Background(), "missing", domain.DraftPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d, _ := store.Create(ctx, "c1", "w1", "s1")
	total := decimal.NewFromInt(180)
	_, err := store.Apply(ctx, d.ID, domain.DraftPatch{
		SelectedServices: []string{"basic", "deluxe"},
		ServicesTotal:    &total,
	})
	assert.NoError(t, err)

	snap, err := store.Get(ctx, d.ID)
	assert.NoError(t, err)

	// Mutating the snapshot must not leak into the store.
	snap.SelectedServices[0] = "mutated"
	snap.Address = "mutated"

	fresh, err := store.Get(ctx, d.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"basic", "deluxe"}, fresh.SelectedServices)
	assert.Empty(t, fresh.Address)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d, _ := store.Create(ctx, "c1", "w1", "s1")
	assert.NoError(t, store.Delete(ctx, d.ID))

	_, err := store.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, d.ID), ErrNotFound)
}

func TestMemoryStore_ExpireStaleBefore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now.Add(-2 * time.Hour) }
	stale, _ := store.Create(ctx, "c1", "w1", "s1")

	store.now = func() time.Time { return now }
	fresh, _ := store.Create(ctx, "c2", "w1", "s1")

	removed, err := store.ExpireStaleBefore(ctx, now.Add(-time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/domain"
)

func testRepo(t *testing.T) *OrderRepo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "orders.db")), &gorm.Config{})
	require.NoError(t, err)
	repo := NewOrderRepo(gdb)
	require.NoError(t, repo.Migrate())
	return repo
}

func TestCreateAndByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	o := &domain.Order{
		UserID: "u1",
		Items:  []domain.Item{{SKU: "P1", Qty: 2}, {SKU: "P2", Qty: 1}},
		Total:  10,
		Status: domain.StatusCreated,
	}
	require.NoError(t, repo.Create(ctx, o))
	assert.NotEmpty(t, o.ID)

	got, err := repo.ByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, domain.StatusCreated, got.Status)
}

func TestByIDNotFound(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	o := &domain.Order{UserID: "u1", Items: []domain.Item{{SKU: "P1", Qty: 1}}, Status: domain.StatusCreated}
	require.NoError(t, repo.Create(ctx, o))

	updated, err := repo.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	got, err := repo.ByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	_, err = repo.UpdateStatus(ctx, "missing", domain.StatusCancelled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateStatusConflict(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	o := &domain.Order{UserID: "u1", Items: []domain.Item{{SKU: "P1", Qty: 1}}, Status: domain.StatusCreated}
	require.NoError(t, repo.Create(ctx, o))

	_, err := repo.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)

	// the guard lives in the conditional UPDATE itself: a second
	// transition to the same status affects zero rows
	_, err = repo.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrStatusConflict)

	got, err := repo.ByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestList(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2"} {
		require.NoError(t, repo.Create(ctx, &domain.Order{
			UserID: uid,
			Items:  []domain.Item{{SKU: "P1", Qty: 1}},
			Status: domain.StatusCreated,
		}))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

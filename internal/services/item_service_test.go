package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasm28/interview-evaluation/internal/database"
	"github.com/nicolasm28/interview-evaluation/internal/services"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func TestItemService_CreateItem(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	item, err := s.CreateItem(ctx, "buy milk", strPtr("two liters"), "alice")
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.Equal(t, "buy milk", item.Title)
	require.NotNil(t, item.Body)
	assert.Equal(t, "two liters", *item.Body)
	assert.False(t, item.Completed)
	require.NotNil(t, item.Username)
	assert.Equal(t, "alice", *item.Username)
}

func TestItemService_CreateItem_NilBody(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)

	item, err := s.CreateItem(context.Background(), "buy milk", nil, "alice")
	require.NoError(t, err)
	assert.Nil(t, item.Body)
}

func TestItemService_CreateItem_DuplicateTitle(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	_, err := s.CreateItem(ctx, "buy milk", nil, "alice")
	require.NoError(t, err)

	_, err = s.CreateItem(ctx, "buy milk", nil, "bob")
	require.Error(t, err)

	var conflict *services.ConflictError
	assert.ErrorAs(t, err, &conflict)

	// The losing insert must not have created a row.
	items, err := s.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemService_GetAllItems(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	items, err := s.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.CreateItem(ctx, "first", nil, "alice")
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, "second", nil, "alice")
	require.NoError(t, err)

	items, err = s.GetAllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Insertion order
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
}

func TestItemService_GetItemByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)

	_, err := s.GetItemByID(context.Background(), 42)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestItemService_UpdateItem(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	created, err := s.CreateItem(ctx, "buy milk", strPtr("two liters"), "alice")
	require.NoError(t, err)

	updated, err := s.UpdateItem(ctx, created.ID, "buy oat milk", strPtr("one liter"), "alice")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy oat milk", updated.Title)
	require.NotNil(t, updated.Body)
	assert.Equal(t, "one liter", *updated.Body)

	// Completed and owner survive the update untouched.
	assert.False(t, updated.Completed)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "alice", *updated.Username)
}

func TestItemService_UpdateItem_NotOwner(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	created, err := s.CreateItem(ctx, "buy milk", nil, "alice")
	require.NoError(t, err)

	_, err = s.UpdateItem(ctx, created.ID, "hijacked", nil, "bob")
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The row is unchanged.
	item, err := s.GetItemByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", item.Title)
}

func TestItemService_UpdateItem_NotFound(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)

	_, err := s.UpdateItem(context.Background(), 42, "title", nil, "alice")
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestItemService_DeleteItem(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	created, err := s.CreateItem(ctx, "buy milk", nil, "alice")
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(ctx, created.ID, "alice"))

	_, err = s.GetItemByID(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestItemService_DeleteItem_NotOwner(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)
	ctx := context.Background()

	created, err := s.CreateItem(ctx, "buy milk", nil, "alice")
	require.NoError(t, err)

	err = s.DeleteItem(ctx, created.ID, "bob")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = s.GetItemByID(ctx, created.ID)
	assert.NoError(t, err)
}

func TestItemService_DeleteItem_NotFound(t *testing.T) {
	db := newTestDB(t)
	s := services.NewItemService(db)

	err := s.DeleteItem(context.Background(), 42, "alice")
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

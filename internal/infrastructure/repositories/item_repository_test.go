package repositories_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/db"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/repositories"
)

func newSQLiteRepo(t *testing.T) (ports.ItemRepository, *db.Database) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.db")
	database, err := db.NewDatabase(db.DriverSQLite, path+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate())
	// migrating twice is a no-op
	require.NoError(t, database.Migrate())
	return repositories.NewItemRepository(database, logrus.New()), database
}

func TestItemRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	it := &item.Item{Name: "widget", Description: "blue", Price: 9.5}
	require.NoError(t, repo.Create(ctx, it))
	require.Equal(t, int64(1), it.ID)
	require.Equal(t, int64(1), it.Version)

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, *it, *got)

	_, err = repo.GetByID(ctx, 404)
	require.ErrorIs(t, err, item.ErrNotFound)
}

func TestItemRepository_RejectsNegativePrice(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	err := repo.Create(ctx, &item.Item{Name: "bad", Price: -1})
	require.ErrorIs(t, err, item.ErrStoreUnavailable)
}

func TestItemRepository_ListIsOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &item.Item{Name: n, Price: 1}))
	}
	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, it := range items {
		require.Equal(t, int64(i+1), it.ID)
	}
	require.Equal(t, "c", items[0].Name)
}

func TestItemRepository_SearchByName(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	for _, n := range []string{"widget", "Widget", "gadget", "wide", "mid-widget", "100%_off"} {
		require.NoError(t, repo.Create(ctx, &item.Item{Name: n, Price: 1}))
	}

	items, total, err := repo.SearchByName(ctx, "wid", 2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	require.Equal(t, "widget", items[0].Name)
	require.Equal(t, "wide", items[1].Name)

	items, total, err = repo.SearchByName(ctx, "wid", 2, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	require.Equal(t, "mid-widget", items[0].Name)

	items, _, err = repo.SearchByName(ctx, "wid", 2, 4)
	require.NoError(t, err)
	require.Empty(t, items)

	// no wildcard interpretation
	items, total, err = repo.SearchByName(ctx, "%_", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "100%_off", items[0].Name)

	items, total, err = repo.SearchByName(ctx, "nothing", 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}

func TestItemRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	it := &item.Item{Name: "widget", Price: 1}
	require.NoError(t, repo.Create(ctx, it))

	upd := &item.Item{ID: it.ID, Name: "widget v2", Description: "new", Price: 2.25}
	require.NoError(t, repo.Update(ctx, upd))
	require.Equal(t, int64(2), upd.Version)

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, "widget v2", got.Name)
	require.Equal(t, "new", got.Description)
	require.Equal(t, 2.25, got.Price)

	err = repo.Update(ctx, &item.Item{ID: 99, Name: "x"})
	require.ErrorIs(t, err, item.ErrNotFound)
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	it := &item.Item{Name: "widget", Price: 1}
	require.NoError(t, repo.Create(ctx, it))
	require.NoError(t, repo.Delete(ctx, it.ID))
	_, err := repo.GetByID(ctx, it.ID)
	require.ErrorIs(t, err, item.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, it.ID))
}

func TestItemRepository_ClosedDatabaseIsStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	repo, database := newSQLiteRepo(t)
	require.NoError(t, database.Close())

	_, err := repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, item.ErrStoreUnavailable)
	_, err = repo.List(ctx)
	require.ErrorIs(t, err, item.ErrStoreUnavailable)
	_, _, err = repo.SearchByName(ctx, "a", 1, 0)
	require.ErrorIs(t, err, item.ErrStoreUnavailable)
	require.ErrorIs(t, repo.Delete(ctx, 1), item.ErrStoreUnavailable)
}

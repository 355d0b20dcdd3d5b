package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

const itemColumns = `id, name, description, price, version`

// ItemRepository implements the item record store on top of sqlx.
type ItemRepository struct {
	db     *db.Database
	logger *logrus.Logger
	// containsExpr is the case-sensitive substring predicate of the SQL dialect.
	containsExpr string
}

// NewItemRepository creates a new item repository
func NewItemRepository(database *db.Database, logger *logrus.Logger) ports.ItemRepository {
	contains := `strpos(name, $1) > 0`
	if database.Driver == db.DriverSQLite {
		contains = `instr(name, $1) > 0`
	}
	return &ItemRepository{
		db:           database,
		logger:       logger,
		containsExpr: contains,
	}
}

// storeError marks err as a record store failure while keeping the driver error in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, item.ErrStoreUnavailable, err)
}

// Create inserts an item and fills in the store-assigned id and version
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING ` + itemColumns

	var created item.Item
	if err := r.db.DB.GetContext(ctx, &created, query, it.Name, it.Description, it.Price); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"name": it.Name}).WithError(err).Error("failed to insert item")
		}
		return storeError("create item", err)
	}
	*it = created
	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	var it item.Item
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &it, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item with ID %d: %w", id, item.ErrNotFound)
		}
		return nil, storeError("get item by ID", err)
	}

	return &it, nil
}

// List retrieves every item ordered by id
func (r *ItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	items := []*item.Item{}
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id ASC`

	if err := r.db.DB.SelectContext(ctx, &items, query); err != nil {
		return nil, storeError("list items", err)
	}

	return items, nil
}

// SearchByName returns one window of items whose name contains query, plus the total number of matches
func (r *ItemRepository) SearchByName(ctx context.Context, query string, limit, offset int) ([]*item.Item, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM items WHERE ` + r.containsExpr
	if err := r.db.DB.GetContext(ctx, &total, countQuery, query); err != nil {
		return nil, 0, storeError("count items by name", err)
	}

	items := []*item.Item{}
	if total == 0 || int64(offset) >= total {
		return items, total, nil
	}

	selectQuery := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE ` + r.containsExpr + `
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &items, selectQuery, query, limit, offset); err != nil {
		return nil, 0, storeError("search items by name", err)
	}

	return items, total, nil
}

// Update overwrites the mutable fields of an existing item and bumps its version
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, price = $4, version = version + 1
		WHERE id = $1
		RETURNING ` + itemColumns

	var updated item.Item
	err := r.db.DB.GetContext(ctx, &updated, query, it.ID, it.Name, it.Description, it.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item with ID %d: %w", it.ID, item.ErrNotFound)
		}
		return storeError("update item", err)
	}
	*it = updated
	return nil
}

// Delete removes an item by ID. Deleting a missing item is not an error.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return storeError("delete item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"id": id}).Debug("delete of unknown item")
	}

	return nil
}

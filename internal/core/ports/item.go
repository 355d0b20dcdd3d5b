package ports

import (
	"context"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
)

// ItemRepository defines the record store operations for items.
type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	// List returns every item in ascending id order.
	List(ctx context.Context) ([]*item.Item, error)
	// SearchByName returns items whose name contains query (case-sensitive) and the total match count.
	SearchByName(ctx context.Context, query string, limit, offset int) ([]*item.Item, int64, error)
	Update(ctx context.Context, it *item.Item) error
	Delete(ctx context.Context, id int64) error
}

// ItemService defines the cached item operations exposed to the API layer.
type ItemService interface {
	Create(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error)
	ReadAll(ctx context.Context) ([]item.ItemView, error)
	ReadOne(ctx context.Context, id int64) (*item.ItemView, error)
	Update(ctx context.Context, id int64, req *item.ItemRequest) (*item.ItemView, error)
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, query string, page, size int) (*item.ItemPage, error)
}

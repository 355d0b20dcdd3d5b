package item

import (
	"errors"
	"math"
)

var (
	// ErrNotFound is returned when the referenced item does not exist in the record store.
	ErrNotFound = errors.New("item not found")
	// ErrStoreUnavailable wraps every record store failure other than not found.
	ErrStoreUnavailable = errors.New("item store unavailable")
	// ErrInvalidPageRequest is returned for negative page numbers or out of range page sizes.
	ErrInvalidPageRequest = errors.New("invalid page request")
	// ErrInvalidItem is returned when a create or update request fails validation.
	ErrInvalidItem = errors.New("invalid item")
)

// MaxPageSize bounds the page size accepted by search.
const MaxPageSize = 100

// Item is the record store's representation of an item.
type Item struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	// Version is bumped by the store on every update and never leaves the storage layer.
	Version int64 `db:"version"`
}

// ItemView is the read-only projection handed to the cache and to API callers.
type ItemView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ItemPage is one page of a paginated search.
type ItemPage struct {
	Content       []ItemView `json:"content"`
	Number        int        `json:"number"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"total_elements"`
	TotalPages    int        `json:"total_pages"`
}

// ItemRequest carries the mutable fields of an item for create and update.
type ItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// FromEntity projects a stored item into its view.
func FromEntity(it *Item) ItemView {
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
	}
}

// FromEntities projects items preserving their order.
func FromEntities(items []*Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, FromEntity(it))
	}
	return views
}

// NewItemPage builds a page and derives the total page count.
func NewItemPage(content []ItemView, number, size int, total int64) ItemPage {
	if content == nil {
		content = []ItemView{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return ItemPage{
		Content:       content,
		Number:        number,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// ValidatePageRequest checks the page number and size used by search.
// The row offset page*size must fit in an int.
func ValidatePageRequest(page, size int) error {
	if page < 0 || size < 1 || size > MaxPageSize {
		return ErrInvalidPageRequest
	}
	if page > math.MaxInt/size {
		return ErrInvalidPageRequest
	}
	return nil
}

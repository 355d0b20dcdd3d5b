package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// DefaultItemCacheTTL is applied when a policy leaves TTL unset.
const DefaultItemCacheTTL = 10 * time.Second

// ItemCachePolicy configures how ItemService uses the cache.
type ItemCachePolicy struct {
	// TTL is the absolute lifetime of every entry, in every namespace.
	TTL time.Duration
	// EvictAggregatesOnCreate also drops the list and search namespaces on create.
	// Off by default: a new item shows up in cached lists only after their TTL lapses.
	EvictAggregatesOnCreate bool
}

// ItemService runs item operations through the record store and the cache.
//
// Single items are write-through: create and update store the fresh view under
// its id. List and search results are cache-aside and are evicted as whole
// namespaces on update and delete, because they depend on the entire collection.
type ItemService struct {
	repo     ports.ItemRepository
	cache    cacheSide
	policy   ItemCachePolicy
	validate *validator.Validate
	logger   *logrus.Logger
	sf       singleflight.Group
}

// NewItemService wires the record store and the single cache handle used for every namespace.
func NewItemService(repo ports.ItemRepository, cache ports.CacheStore, policy ItemCachePolicy, logger *logrus.Logger) *ItemService {
	if policy.TTL <= 0 {
		policy.TTL = DefaultItemCacheTTL
	}
	return &ItemService{
		repo:     repo,
		cache:    cacheSide{store: cache, logger: logger},
		policy:   policy,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *ItemService) validateRequest(req *item.ItemRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", item.ErrInvalidItem)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", item.ErrInvalidItem, err)
	}
	return nil
}

// Create always writes to the store, then caches the new item under its id.
func (s *ItemService) Create(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	it := &item.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"name": req.Name}).WithError(err).Error("failed to create item in repo")
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	view := item.FromEntity(it)
	s.cache.setSilently(ctx, item.NamespaceItem, item.ItemKey(view.ID), view, s.policy.TTL)
	if s.policy.EvictAggregatesOnCreate {
		s.cache.evictAllSilently(ctx, item.AggregateNamespaces()...)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"id": view.ID, "name": view.Name}).Info("item created")
	}
	return &view, nil
}

// ReadAll returns every item in store order.
func (s *ItemService) ReadAll(ctx context.Context) ([]item.ItemView, error) {
	return loadWithSingleflight(ctx, s.cache, &s.sf, item.NamespaceAll, item.AllItemsKey, s.policy.TTL, func(ctx context.Context) ([]item.ItemView, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return item.FromEntities(items), nil
	})
}

// ReadOne returns a single item. Missing items fail with item.ErrNotFound and are not cached.
func (s *ItemService) ReadOne(ctx context.Context, id int64) (*item.ItemView, error) {
	view, err := loadWithSingleflight(ctx, s.cache, &s.sf, item.NamespaceItem, item.ItemKey(id), s.policy.TTL, func(ctx context.Context) (item.ItemView, error) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"id": id}).Info("read one item from store")
		}
		it, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return item.ItemView{}, err
		}
		return item.FromEntity(it), nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Update writes to the store first; on success it refreshes the item's entry and
// drops the list and search namespaces.
func (s *ItemService) Update(ctx context.Context, id int64, req *item.ItemRequest) (*item.ItemView, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	it := &item.Item{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Update(ctx, it); err != nil {
		if s.logger != nil && !errors.Is(err, item.ErrNotFound) {
			s.logger.WithFields(logrus.Fields{"id": id}).WithError(err).Error("failed to update item in repo")
		}
		return nil, err
	}

	view := item.FromEntity(it)
	s.cache.setSilently(ctx, item.NamespaceItem, item.ItemKey(id), view, s.policy.TTL)
	s.cache.evictAllSilently(ctx, item.AggregateNamespaces()...)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"id": id}).Info("item updated")
	}
	return &view, nil
}

// Delete removes the item from the store, then drops its entry and the list and
// search namespaces so no cached read can show the deleted item.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"id": id}).WithError(err).Error("failed to delete item in repo")
		}
		return err
	}

	s.cache.evictSilently(ctx, item.NamespaceItem, item.ItemKey(id))
	s.cache.evictAllSilently(ctx, item.AggregateNamespaces()...)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"id": id}).Info("item deleted")
	}
	return nil
}

// SearchByName returns one page of items whose name contains query.
// The query is used verbatim, both for the store and for the cache key.
func (s *ItemService) SearchByName(ctx context.Context, query string, page, size int) (*item.ItemPage, error) {
	if err := item.ValidatePageRequest(page, size); err != nil {
		return nil, err
	}
	result, err := loadWithSingleflight(ctx, s.cache, &s.sf, item.NamespaceSearch, item.SearchKey(query, page, size), s.policy.TTL, func(ctx context.Context) (item.ItemPage, error) {
		items, total, err := s.repo.SearchByName(ctx, query, size, page*size)
		if err != nil {
			return item.ItemPage{}, err
		}
		return item.NewItemPage(item.FromEntities(items), page, size, total), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Flush drops every item namespace. It is called on shutdown.
func (s *ItemService) Flush(ctx context.Context) error {
	if s.cache.store == nil {
		return nil
	}
	var errs []error
	for _, ns := range item.Namespaces() {
		if err := s.cache.store.EvictAll(ctx, ns); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush %s: %w", ns, err))
		}
	}
	return errors.Join(errs...)
}

var _ ports.ItemService = (*ItemService)(nil)

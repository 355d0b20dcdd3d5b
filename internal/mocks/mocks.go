package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// CacheStoreMock is a mock implementation of ports.CacheStore. Unset functions behave like an empty cache.
type CacheStoreMock struct {
	GetFn      func(ctx context.Context, namespace, key string) ([]byte, bool, error)
	PutFn      func(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	EvictFn    func(ctx context.Context, namespace, key string) error
	EvictAllFn func(ctx context.Context, namespace string) error
}

func (m *CacheStoreMock) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, namespace, key)
	}
	return nil, false, nil
}

func (m *CacheStoreMock) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, namespace, key, value, ttl)
	}
	return nil
}

func (m *CacheStoreMock) Evict(ctx context.Context, namespace, key string) error {
	if m.EvictFn != nil {
		return m.EvictFn(ctx, namespace, key)
	}
	return nil
}

func (m *CacheStoreMock) EvictAll(ctx context.Context, namespace string) error {
	if m.EvictAllFn != nil {
		return m.EvictAllFn(ctx, namespace)
	}
	return nil
}

// ItemRepositoryMock is a mock implementation of ports.ItemRepository.
type ItemRepositoryMock struct {
	CreateFn       func(ctx context.Context, it *item.Item) error
	GetByIDFn      func(ctx context.Context, id int64) (*item.Item, error)
	ListFn         func(ctx context.Context) ([]*item.Item, error)
	SearchByNameFn func(ctx context.Context, query string, limit, offset int) ([]*item.Item, int64, error)
	UpdateFn       func(ctx context.Context, it *item.Item) error
	DeleteFn       func(ctx context.Context, id int64) error
}

func (m *ItemRepositoryMock) Create(ctx context.Context, it *item.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, it)
	}
	return nil
}

func (m *ItemRepositoryMock) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, item.ErrNotFound
}

func (m *ItemRepositoryMock) List(ctx context.Context) ([]*item.Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *ItemRepositoryMock) SearchByName(ctx context.Context, query string, limit, offset int) ([]*item.Item, int64, error) {
	if m.SearchByNameFn != nil {
		return m.SearchByNameFn(ctx, query, limit, offset)
	}
	return nil, 0, nil
}

func (m *ItemRepositoryMock) Update(ctx context.Context, it *item.Item) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, it)
	}
	return item.ErrNotFound
}

func (m *ItemRepositoryMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// ItemServiceMock is a mock implementation of ports.ItemService.
type ItemServiceMock struct {
	CreateFn       func(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error)
	ReadAllFn      func(ctx context.Context) ([]item.ItemView, error)
	ReadOneFn      func(ctx context.Context, id int64) (*item.ItemView, error)
	UpdateFn       func(ctx context.Context, id int64, req *item.ItemRequest) (*item.ItemView, error)
	DeleteFn       func(ctx context.Context, id int64) error
	SearchByNameFn func(ctx context.Context, query string, page, size int) (*item.ItemPage, error)
}

func (m *ItemServiceMock) Create(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *ItemServiceMock) ReadAll(ctx context.Context) ([]item.ItemView, error) {
	if m.ReadAllFn != nil {
		return m.ReadAllFn(ctx)
	}
	return []item.ItemView{}, nil
}

func (m *ItemServiceMock) ReadOne(ctx context.Context, id int64) (*item.ItemView, error) {
	if m.ReadOneFn != nil {
		return m.ReadOneFn(ctx, id)
	}
	return nil, item.ErrNotFound
}

func (m *ItemServiceMock) Update(ctx context.Context, id int64, req *item.ItemRequest) (*item.ItemView, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, req)
	}
	return nil, item.ErrNotFound
}

func (m *ItemServiceMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *ItemServiceMock) SearchByName(ctx context.Context, query string, page, size int) (*item.ItemPage, error) {
	if m.SearchByNameFn != nil {
		return m.SearchByNameFn(ctx, query, page, size)
	}
	p := item.NewItemPage(nil, page, size, 0)
	return &p, nil
}

// HealthCheckerMock is a mock implementation of ports.HealthChecker.
type HealthCheckerMock struct {
	NameValue string
	CheckFn   func(ctx context.Context) error
}

func (m *HealthCheckerMock) Name() string { return m.NameValue }

func (m *HealthCheckerMock) Check(ctx context.Context) error {
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return nil
}

var (
	_ ports.CacheStore     = (*CacheStoreMock)(nil)
	_ ports.ItemRepository = (*ItemRepositoryMock)(nil)
	_ ports.ItemService    = (*ItemServiceMock)(nil)
	_ ports.HealthChecker  = (*HealthCheckerMock)(nil)
)

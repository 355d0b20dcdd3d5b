package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
	item_http "github.com/avatarctic/item-cache-service/internal/infrastructure/httpserver"
	"github.com/avatarctic/item-cache-service/internal/mocks"
)

func newTestServer(svc ports.ItemService, checkers ...ports.HealthChecker) *item_http.Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return item_http.NewServer(&item_http.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, logger, item_http.ServerDeps{ItemService: svc, HealthCheckers: checkers})
}

func do(srv *item_http.Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestItemHandlers_CreateReturns201(t *testing.T) {
	var got *item.ItemRequest
	svc := &mocks.ItemServiceMock{CreateFn: func(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error) {
		got = req
		return &item.ItemView{ID: 7, Name: req.Name, Description: req.Description, Price: req.Price}, nil
	}}
	srv := newTestServer(svc)

	rec := do(srv, http.MethodPost, "/api/v1/items", `{"name":"lamp","description":"desk","price":12.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "lamp", got.Name)

	var view item.ItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, item.ItemView{ID: 7, Name: "lamp", Description: "desk", Price: 12.5}, view)
}

func TestItemHandlers_CreateRejectsInvalidBodies(t *testing.T) {
	called := false
	svc := &mocks.ItemServiceMock{CreateFn: func(ctx context.Context, req *item.ItemRequest) (*item.ItemView, error) {
		called = true
		return &item.ItemView{}, nil
	}}
	srv := newTestServer(svc)

	for _, body := range []string{`{"name":`, `{"description":"no name"}`, `{"name":"x","price":-1}`} {
		rec := do(srv, http.MethodPost, "/api/v1/items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.False(t, called)
}

func TestItemHandlers_ReadAll(t *testing.T) {
	svc := &mocks.ItemServiceMock{ReadAllFn: func(ctx context.Context) ([]item.ItemView, error) {
		return []item.ItemView{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, nil
	}}
	rec := do(newTestServer(svc), http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []item.ItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, int64(1), views[0].ID)
	assert.Equal(t, int64(2), views[1].ID)
}

func TestItemHandlers_ReadAllEmptyIsArray(t *testing.T) {
	svc := &mocks.ItemServiceMock{ReadAllFn: func(ctx context.Context) ([]item.ItemView, error) { return nil, nil }}
	rec := do(newTestServer(svc), http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestItemHandlers_ReadOne(t *testing.T) {
	svc := &mocks.ItemServiceMock{ReadOneFn: func(ctx context.Context, id int64) (*item.ItemView, error) {
		if id == 3 {
			return &item.ItemView{ID: 3, Name: "c"}, nil
		}
		return nil, fmt.Errorf("item with ID %d: %w", id, item.ErrNotFound)
	}}
	srv := newTestServer(svc)

	rec := do(srv, http.MethodGet, "/api/v1/items/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"c"`)

	rec = do(srv, http.MethodGet, "/api/v1/items/4", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(srv, http.MethodGet, "/api/v1/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemHandlers_UpdatePassesIDAndBody(t *testing.T) {
	var gotID int64
	svc := &mocks.ItemServiceMock{UpdateFn: func(ctx context.Context, id int64, req *item.ItemRequest) (*item.ItemView, error) {
		gotID = id
		return &item.ItemView{ID: id, Name: req.Name, Price: req.Price}, nil
	}}
	srv := newTestServer(svc)

	rec := do(srv, http.MethodPut, "/api/v1/items/9", `{"name":"renamed","price":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), gotID)
	assert.Contains(t, rec.Body.String(), `"name":"renamed"`)
}

func TestItemHandlers_UpdateMissingReturns404(t *testing.T) {
	srv := newTestServer(&mocks.ItemServiceMock{})
	rec := do(srv, http.MethodPut, "/api/v1/items/9", `{"name":"renamed","price":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemHandlers_DeleteReturns204(t *testing.T) {
	var gotID int64
	svc := &mocks.ItemServiceMock{DeleteFn: func(ctx context.Context, id int64) error {
		gotID = id
		return nil
	}}
	rec := do(newTestServer(svc), http.MethodDelete, "/api/v1/items/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), gotID)
}

func TestItemHandlers_StoreFailureReturns500(t *testing.T) {
	svc := &mocks.ItemServiceMock{DeleteFn: func(ctx context.Context, id int64) error {
		return fmt.Errorf("failed to delete item: %w: %w", item.ErrStoreUnavailable, errors.New("connection refused"))
	}}
	rec := do(newTestServer(svc), http.MethodDelete, "/api/v1/items/5", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestItemHandlers_SearchDefaults(t *testing.T) {
	var gotQ string
	var gotPage, gotSize int
	svc := &mocks.ItemServiceMock{SearchByNameFn: func(ctx context.Context, q string, page, size int) (*item.ItemPage, error) {
		gotQ, gotPage, gotSize = q, page, size
		p := item.NewItemPage([]item.ItemView{{ID: 1, Name: "lamp"}}, page, size, 1)
		return &p, nil
	}}
	rec := do(newTestServer(svc), http.MethodGet, "/api/v1/items/search?q=la", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "la", gotQ)
	assert.Equal(t, 0, gotPage)
	assert.Equal(t, 20, gotSize)

	var page item.ItemPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Content, 1)
}

func TestItemHandlers_SearchBadParams(t *testing.T) {
	svc := &mocks.ItemServiceMock{SearchByNameFn: func(ctx context.Context, q string, page, size int) (*item.ItemPage, error) {
		if err := item.ValidatePageRequest(page, size); err != nil {
			return nil, err
		}
		p := item.NewItemPage(nil, page, size, 0)
		return &p, nil
	}}
	srv := newTestServer(svc)

	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/v1/items/search?q=a&page=x", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/v1/items/search?q=a&size=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/v1/items/search?q=a&page=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/v1/items/search?q=widget&page=4611686018427387904&size=2", "").Code)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/v1/items/search?q=a&page=2&size=5", "").Code)
}

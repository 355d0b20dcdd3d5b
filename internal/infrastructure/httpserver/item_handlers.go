package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/item-cache-service/internal/core/domain/item"
)

// itemHTTPError maps service errors onto HTTP responses.
func (s *Server) itemHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, item.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, item.ErrInvalidItem), errors.Is(err, item.ErrInvalidPageRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).WithError(err).Error("item request failed")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func (s *Server) bindItemRequest(c echo.Context) (*item.ItemRequest, error) {
	var req item.ItemRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) createItem(c echo.Context) error {
	req, err := s.bindItemRequest(c)
	if err != nil {
		return err
	}
	view, err := s.itemService.Create(c.Request().Context(), req)
	if err != nil {
		return s.itemHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (s *Server) readAllItems(c echo.Context) error {
	views, err := s.itemService.ReadAll(c.Request().Context())
	if err != nil {
		return s.itemHTTPError(c, err)
	}
	if views == nil {
		views = []item.ItemView{}
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) readItem(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return err
	}
	view, err := s.itemService.ReadOne(c.Request().Context(), id)
	if err != nil {
		return s.itemHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) updateItem(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return err
	}
	req, err := s.bindItemRequest(c)
	if err != nil {
		return err
	}
	view, err := s.itemService.Update(c.Request().Context(), id, req)
	if err != nil {
		return s.itemHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) deleteItem(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return err
	}
	if err := s.itemService.Delete(c.Request().Context(), id); err != nil {
		return s.itemHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// searchItems serves GET /items/search?q=&page=&size=. Pages are zero based.
func (s *Server) searchItems(c echo.Context) error {
	page, err := queryInt(c, "page", defaultSearchPage)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", defaultSearchSize)
	if err != nil {
		return err
	}
	result, err := s.itemService.SearchByName(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return s.itemHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

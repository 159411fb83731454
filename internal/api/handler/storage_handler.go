package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skladhub/warehousing-system/internal/api/middleware"
	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// StorageHandler handles HTTP requests for storage record operations.
type StorageHandler struct {
	service ports.StorageService
}

func NewStorageHandler(service ports.StorageService) *StorageHandler {
	return &StorageHandler{service: service}
}

// List returns storage records visible to the caller. Managers see every
// record, clients only their own.
//
// @Summary      List storage records
// @Tags         storage
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   domain.Storage
// @Failure      401  {object}  map[string]string
// @Router       /storage/ [get]
func (h *StorageHandler) List(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), role, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create opens a new pending storage record on behalf of a client.
//
// @Summary      Create a storage record
// @Tags         storage
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      createStorageRequest  true  "Storage details"
// @Success      201   {object}  domain.Storage
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /storage/ [post]
func (h *StorageHandler) Create(c echo.Context) error {
	var req createStorageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateStorageInput{
		UserID:    string(req.UserID),
		ProductID: string(req.ProductID),
		StartDate: req.StartDate,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// Patch applies a status decision or closes a storage record. A body carrying
// end_date is a close operation; otherwise status must name a decision on a
// pending record.
//
// @Summary      Update or close a storage record
// @Tags         storage
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string               true  "Storage ID"
// @Param        body  body      patchStorageRequest  true  "Status decision or end date"
// @Success      200   {object}  domain.Storage
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /storage/{id}/ [patch]
func (h *StorageHandler) Patch(c echo.Context) error {
	var req patchStorageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	actor, _ := c.Get(middleware.CtxUsername).(string)
	id := c.Param("id")

	var (
		updated *domain.Storage
		err     error
	)
	switch {
	case req.EndDate != nil:
		// Closing clients still send status "approved" alongside the end
		// date. Anything else in the status field is rejected.
		if req.Status != nil {
			s := domain.StorageStatus(*req.Status)
			if s != domain.StatusApproved && s != domain.StatusClosed {
				return fmt.Errorf("%w: status %q cannot accompany an end date", domain.ErrValidation, *req.Status)
			}
		}
		updated, err = h.service.Close(c.Request().Context(), id, *req.EndDate, actor)
	case req.Status != nil:
		updated, err = h.service.UpdateStatus(c.Request().Context(), id, domain.StorageStatus(*req.Status), actor)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

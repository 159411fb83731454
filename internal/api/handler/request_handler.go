package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skladhub/warehousing-system/internal/api/metrics"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// RequestHandler handles HTTP requests for storage request operations.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// List returns storage requests visible to the caller. Managers see every
// request, clients only their own.
//
// @Summary      List storage requests
// @Tags         requests
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   domain.Request
// @Failure      401  {object}  map[string]string
// @Router       /requests/ [get]
func (h *RequestHandler) List(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	requests, err := h.service.List(c.Request().Context(), role, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Create registers a new storage request for the authenticated client.
//
// @Summary      Create a storage request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      createRequestRequest  true  "Request details"
// @Success      201   {object}  domain.Request
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /requests/ [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		UserID:    userID,
		ProductID: string(req.ProductID),
		StartDate: req.StartDate,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	metrics.RequestsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, created)
}

// Patch links a storage record to a request.
//
// @Summary      Link a storage record to a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string              true  "Request ID"
// @Param        body  body      linkStorageRequest  true  "Storage to link"
// @Success      200   {object}  domain.Request
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /requests/{id}/ [patch]
func (h *RequestHandler) Patch(c echo.Context) error {
	var req linkStorageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.LinkStorage(c.Request().Context(), c.Param("id"), string(req.StorageID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

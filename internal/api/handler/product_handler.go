package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skladhub/warehousing-system/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductRepository
}

func NewProductHandler(products ports.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns the product catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  map[string]string
// @Router       /products/ [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/service"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// ProductsHandler exposes product endpoints.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// List handles GET /product.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductList(products))
}

// Get handles GET /product/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// ListByCategory handles GET /product/bycat/:id.
func (h *ProductsHandler) ListByCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	products, err := h.catalog.ListProductsByCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductList(products))
}

// Create handles POST /product.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), principal, req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Update handles PUT /product/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), principal, id, req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Delete handles DELETE /product/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.catalog.DeleteProduct(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	resp := dto.DeleteResponse{}
	if deleted {
		resp.DeletedID = &id
	}
	return c.JSON(resp)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/service"
)

// CategoriesHandler exposes category endpoints.
type CategoriesHandler struct {
	catalog *service.CatalogService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(catalog *service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog}
}

// List handles GET /category.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	cats, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, dto.NewCategoryResponse(&cats[i]))
	}
	return c.JSON(out)
}

// Get handles GET /category/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategoryResponse(cat))
}

package dto

import "github.com/spec-kit/catalog-service/internal/domain"

// CategoryResponse payload.
type CategoryResponse struct {
	ID          int64  `json:"categoryId"`
	Name        string `json:"categoryName"`
	Description string `json:"categoryDescription"`
}

// ProductResponse payload.
type ProductResponse struct {
	ID          int64   `json:"productId"`
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"productName"`
	Description string  `json:"productDescription"`
	Stock       int32   `json:"productStock"`
	Price       float64 `json:"productPrice"`
}

// DeleteResponse reports the deleted id, or null when nothing matched.
type DeleteResponse struct {
	DeletedID *int64 `json:"deletedId"`
}

func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		Price:       p.Price,
	}
}

func NewProductList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

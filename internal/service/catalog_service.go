package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const maxPrice = 99999999.99

// CatalogService serves categories and products. Reads are open; writes need an Admin.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CatalogDependencies encapsulates repositories required for the catalog.
type CatalogDependencies struct {
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		categories: deps.CategoryRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ProductInput is the create/update payload.
type ProductInput struct {
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"productName"`
	Description string  `json:"productDescription"`
	Stock       int32   `json:"productStock"`
	Price       float64 `json:"productPrice"`
}

// Validate checks every field and reports all failures together.
func (in ProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CategoryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&in.Stock, validation.Min(int32(0))),
		validation.Field(&in.Price, validation.Min(0.0), validation.Max(maxPrice)),
	)
}

func requireAdmin(actor *auth.Principal) error {
	if actor == nil {
		return apperrors.NewUnauthorized(auth.ReasonUnauthenticated)
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cats, nil
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	return cat, nil
}

// ListProducts returns all products ordered by name.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// ListProductsByCategory returns the products of one category ordered by name.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	return p, nil
}

// CreateProduct validates and stores a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, actor *auth.Principal, in ProductInput) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	product, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(fmt.Errorf("create product: %w", err))
	}
	s.publish(ctx, events.EventProductCreated, actor, product)
	return product, nil
}

// UpdateProduct replaces every field of an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor *auth.Principal, id int64, in ProductInput) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	product, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.products.Update(ctx, product); err != nil {
		return nil, notFoundOr(err, "product")
	}
	s.publish(ctx, events.EventProductUpdated, actor, product)
	return product, nil
}

// DeleteProduct removes a product and reports whether it existed.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor *auth.Principal, id int64) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return false, apperrors.MapError(fmt.Errorf("delete product: %w", err))
	}
	if deleted {
		s.publish(ctx, events.EventProductDeleted, actor, &domain.Product{ID: id})
	}
	return deleted, nil
}

// prepare validates the input, escapes text fields and checks the category exists.
func (s *CatalogService) prepare(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("categoryId: category does not exist.",
				map[string]any{"categoryId": "category does not exist"})
		}
		return nil, apperrors.MapError(err)
	}

	return &domain.Product{
		CategoryID:  in.CategoryID,
		Name:        html.EscapeString(in.Name),
		Description: html.EscapeString(in.Description),
		Stock:       in.Stock,
		Price:       in.Price,
	}, nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, actor *auth.Principal, p *domain.Product) {
	if s.dispatcher == nil {
		return
	}
	event := events.New(eventType, events.Actor{LoginID: actor.LoginID, Role: actor.Role},
		events.ProductChangedPayload{ProductID: p.ID, CategoryID: p.CategoryID})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}
	return apperrors.MapError(err)
}

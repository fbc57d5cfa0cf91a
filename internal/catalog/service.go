package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/pkg/config"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Service exposes storefront catalog queries.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetFacets(ctx context.Context) (*Facets, error)
}

// ListProductsInput carries the raw filter and pagination parameters
// for one catalog page.
type ListProductsInput struct {
	Category string
	Search   string
	Brands   []string
	MaxPrice int
	Sort     string
	Page     int
	PageSize int
}

type service struct {
	repo Repository
	cfg  config.CatalogConfig
}

// NewService builds the catalog service.
func NewService(repo Repository, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog: repository is required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListDTO, error) {
	dtos, err := s.loadActive(ctx)
	if err != nil {
		return nil, err
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}

	result := Query(dtos, QuerySpec{
		Category: input.Category,
		Search:   input.Search,
		Brands:   input.Brands,
		MaxPrice: input.MaxPrice,
		Sort:     ParseSortKey(input.Sort),
	}, input.Page, pageSize)

	return &ProductListDTO{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		PageSize:   result.PageSize,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	dto := ToProductDTO(*product, s.cfg)
	return &dto, nil
}

func (s *service) GetFacets(ctx context.Context) (*Facets, error) {
	dtos, err := s.loadActive(ctx)
	if err != nil {
		return nil, err
	}
	facets := BuildFacets(dtos)
	return &facets, nil
}

func (s *service) loadActive(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load catalog")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToProductDTO(p, s.cfg))
	}
	return dtos, nil
}

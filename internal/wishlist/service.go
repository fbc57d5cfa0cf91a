package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/internal/catalog"
	"github.com/medimart/medimart-backend/pkg/config"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Service manages the per-session wishlist, a set of product ids kept
// in Redis and hydrated against the catalog on read.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID) error
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
	List(ctx context.Context, sessionID string) ([]catalog.ProductDTO, error)
}

type redisSets interface {
	SAdd(ctx context.Context, key string, ttl time.Duration, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	WishlistKey(sessionID string) string
}

type service struct {
	sets     redisSets
	products catalog.Repository
	catCfg   config.CatalogConfig
	ttl      time.Duration
}

// NewService builds the wishlist service. The TTL refreshes on every
// add, matching the cart's retention window.
func NewService(sets redisSets, products catalog.Repository, catCfg config.CatalogConfig, ttl time.Duration) (Service, error) {
	if sets == nil {
		return nil, fmt.Errorf("wishlist: redis client is required")
	}
	if products == nil {
		return nil, fmt.Errorf("wishlist: catalog repository is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("wishlist: ttl must be positive")
	}
	return &service{sets: sets, products: products, catCfg: catCfg, ttl: ttl}, nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.sets.SAdd(ctx, s.sets.WishlistKey(sessionID), s.ttl, productID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save wishlist")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if err := s.sets.SRem(ctx, s.sets.WishlistKey(sessionID), productID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update wishlist")
	}
	return nil
}

// List returns the wishlisted products still present and active in the
// catalog. Ids whose product has since been removed are skipped.
func (s *service) List(ctx context.Context, sessionID string) ([]catalog.ProductDTO, error) {
	members, err := s.sets.SMembers(ctx, s.sets.WishlistKey(sessionID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load wishlist")
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []catalog.ProductDTO{}, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load wishlist products")
	}

	dtos := make([]catalog.ProductDTO, 0, len(products))
	for _, product := range products {
		if !product.IsActive {
			continue
		}
		dtos = append(dtos, catalog.ToProductDTO(product, s.catCfg))
	}
	return dtos, nil
}

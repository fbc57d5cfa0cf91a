package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/internal/catalog"
	"github.com/medimart/medimart-backend/pkg/config"
	"github.com/medimart/medimart-backend/pkg/db/models"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Service exposes session-scoped cart operations.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartDTO, error)
	IncreaseQuantity(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error)
	DecreaseQuantity(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (*CartDTO, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*CartDTO, error)
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	Lines  []Line `json:"lines"`
	Totals Totals `json:"totals"`
}

type service struct {
	store    Store
	engine   *Engine
	products catalog.Repository
	cfg      config.CatalogConfig

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewService builds the cart service.
func NewService(store Store, engine *Engine, products catalog.Repository, cfg config.CatalogConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart: store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("cart: engine is required")
	}
	if products == nil {
		return nil, fmt.Errorf("cart: catalog repository is required")
	}
	return &service{
		store:    store,
		engine:   engine,
		products: products,
		cfg:      cfg,
		locks:    make(map[string]*sessionLock),
	}, nil
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// acquireLock serializes mutations per session so the one-line-per-
// product invariant survives concurrent requests. Entries are dropped
// when the last holder releases, keeping the map bounded by in-flight
// requests rather than every session ever seen.
func (s *service) acquireLock(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *service) releaseLock(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*CartDTO, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(cart), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartDTO, error) {
	snapshot, err := s.productSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		s.engine.AddItem(cart, *snapshot, quantity)
		return nil
	})
}

func (s *service) IncreaseQuantity(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		return s.engine.IncreaseQuantity(cart, productID)
	})
}

func (s *service) DecreaseQuantity(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		return s.engine.DecreaseQuantity(cart, productID)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		return s.engine.RemoveItem(cart, productID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	lock := s.acquireLock(sessionID)
	defer s.releaseLock(sessionID, lock)

	return s.store.Delete(ctx, sessionID)
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		_, err := s.engine.ApplyCoupon(cart, code)
		return err
	})
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		s.engine.RemoveCoupon(cart)
		return nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID string, apply func(*Cart) error) (*CartDTO, error) {
	lock := s.acquireLock(sessionID)
	defer s.releaseLock(sessionID, lock)

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := apply(cart); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.toDTO(cart), nil
}

func (s *service) productSnapshot(ctx context.Context, productID uuid.UUID) (*Line, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &Line{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Category:  product.Category,
		Price:     product.Price,
		Stock:     stockOrDefault(product, s.cfg.DefaultStock),
	}, nil
}

func stockOrDefault(product *models.Product, fallback int) int {
	if product.CountInStock != nil {
		return *product.CountInStock
	}
	return fallback
}

func (s *service) toDTO(cart *Cart) *CartDTO {
	lines := cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &CartDTO{
		Lines:  lines,
		Totals: s.engine.ComputeTotals(cart),
	}
}

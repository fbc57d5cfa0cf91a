package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/pkg/config"
	"github.com/medimart/medimart-backend/pkg/db/models"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

type memoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: make(map[string]*Cart)}
}

func (m *memoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[sessionID]; ok {
		clone := *cart
		clone.Lines = append([]Line(nil), cart.Lines...)
		return &clone, nil
	}
	return &Cart{}, nil
}

func (m *memoryStore) Save(_ context.Context, sessionID string, cart *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *cart
	clone.Lines = append([]Line(nil), cart.Lines...)
	m.carts[sessionID] = &clone
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]models.Product
}

func (s *stubProducts) ListActive(context.Context) ([]models.Product, error) { return nil, nil }

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProducts) FindByIDs(context.Context, []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}

func (s *stubProducts) AdjustStock(context.Context, uuid.UUID, int) error { return nil }
func (s *stubProducts) CountActive(context.Context) (int64, error)        { return 0, nil }
func (s *stubProducts) CountLowStock(context.Context, int) (int64, error) { return 0, nil }

func newTestService(t *testing.T, products map[uuid.UUID]models.Product) Service {
	t.Helper()

	engine, err := NewEngine(testPricing(), DefaultCouponRegistry())
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	svc, err := NewService(newMemoryStore(), engine, &stubProducts{products: products}, config.CatalogConfig{DefaultStock: 10})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func activeProduct(price int, stock *int) models.Product {
	return models.Product{
		ID:           uuid.New(),
		Name:         "Cough Syrup",
		Category:     "Medicines",
		Price:        price,
		CountInStock: stock,
		IsActive:     true,
	}
}

func TestServiceAddItemSnapshotsProduct(t *testing.T) {
	t.Parallel()

	stock := 5
	product := activeProduct(90, &stock)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, "session-1", product.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(dto.Lines))
	}
	got := dto.Lines[0]
	if got.Name != product.Name || got.Price != product.Price || got.Stock != 5 || got.Quantity != 2 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if dto.Totals.Subtotal != 180 {
		t.Fatalf("expected subtotal 180, got %d", dto.Totals.Subtotal)
	}
}

func TestServiceAddItemUsesDefaultStock(t *testing.T) {
	t.Parallel()

	product := activeProduct(90, nil)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})

	dto, err := svc.AddItem(context.Background(), "session-1", product.ID, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Lines[0].Quantity != 10 {
		t.Fatalf("expected clamp to default stock 10, got %d", dto.Lines[0].Quantity)
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	_, err := svc.AddItem(context.Background(), "session-1", uuid.New(), 1)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestServiceAddItemRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	product := activeProduct(90, nil)
	product.IsActive = false
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})

	_, err := svc.AddItem(context.Background(), "session-1", product.ID, 1)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for inactive product, got %v", err)
	}
}

func TestServiceCartPersistsAcrossCalls(t *testing.T) {
	t.Parallel()

	stock := 10
	product := activeProduct(600, &stock)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "session-1", product.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ApplyCoupon(ctx, "session-1", "HEALTH10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dto, err := svc.GetCart(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Totals.Discount != 50 {
		t.Fatalf("expected persisted coupon discount 50, got %d", dto.Totals.Discount)
	}

	other, err := svc.GetCart(ctx, "session-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other.Lines) != 0 {
		t.Fatal("sessions must not share carts")
	}
}

func TestServiceClearRemovesCart(t *testing.T) {
	t.Parallel()

	stock := 10
	product := activeProduct(100, &stock)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "session-1", product.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dto, err := svc.GetCart(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Lines) != 0 || dto.Totals.Total != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", dto)
	}
}

func TestServiceConcurrentAddsKeepSingleLine(t *testing.T) {
	t.Parallel()

	stock := 100
	product := activeProduct(50, &stock)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, "session-1", product.ID, 1); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	dto, err := svc.GetCart(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(dto.Lines))
	}
	if dto.Lines[0].Quantity != 10 {
		t.Fatalf("expected quantity 10 after 10 adds, got %d", dto.Lines[0].Quantity)
	}
}

func TestServiceLockMapDoesNotGrow(t *testing.T) {
	t.Parallel()

	stock := 100
	product := activeProduct(50, &stock)
	svc := newTestService(t, map[uuid.UUID]models.Product{product.ID: product})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		sessionID := fmt.Sprintf("session-%d", i)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, sessionID, product.ID, 1); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if err := svc.Clear(ctx, sessionID); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	impl := svc.(*service)
	impl.mu.Lock()
	remaining := len(impl.locks)
	impl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected lock map drained after requests finish, got %d entries", remaining)
	}
}

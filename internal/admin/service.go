package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medimart/medimart-backend/internal/catalog"
	"github.com/medimart/medimart-backend/internal/orders"
	"github.com/medimart/medimart-backend/pkg/config"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Service exposes the admin dashboard overview.
type Service interface {
	Overview(ctx context.Context) (*OverviewDTO, error)
}

// OverviewDTO summarizes store health for the dashboard. Revenue is in
// whole rupees; the average order value keeps two decimal places.
type OverviewDTO struct {
	TotalProducts     int64  `json:"total_products"`
	LowStockProducts  int64  `json:"low_stock_products"`
	TotalOrders       int64  `json:"total_orders"`
	TotalRevenue      int64  `json:"total_revenue"`
	AverageOrderValue string `json:"average_order_value"`
}

type service struct {
	products catalog.Repository
	orders   orders.Repository
	cfg      config.CatalogConfig
}

// NewService builds the admin service.
func NewService(products catalog.Repository, orderRepo orders.Repository, cfg config.CatalogConfig) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("admin: catalog repository is required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("admin: orders repository is required")
	}
	return &service{products: products, orders: orderRepo, cfg: cfg}, nil
}

func (s *service) Overview(ctx context.Context) (*OverviewDTO, error) {
	totalProducts, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count products")
	}
	lowStock, err := s.products.CountLowStock(ctx, s.cfg.LowStockCeiling)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count low stock products")
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count orders")
	}
	revenue, err := s.orders.SumRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to sum revenue")
	}

	aov := decimal.Zero
	if totalOrders > 0 {
		aov = decimal.NewFromInt(revenue).DivRound(decimal.NewFromInt(totalOrders), 2)
	}

	return &OverviewDTO{
		TotalProducts:     totalProducts,
		LowStockProducts:  lowStock,
		TotalOrders:       totalOrders,
		TotalRevenue:      revenue,
		AverageOrderValue: aov.StringFixed(2),
	}, nil
}

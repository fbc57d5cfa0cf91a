package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/pkg/config"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Sentinel failures for cart operations. Callers match them with
// errors.Is; the HTTP layer maps them through pkg/errors metadata.
var (
	ErrLineNotFound        = errors.New("product not in cart")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponMinimumNotMet = errors.New("cart subtotal below coupon minimum")
)

// Engine applies cart mutations and pricing. It is pure over the Cart
// value passed in: callers own loading and persisting the state.
type Engine struct {
	pricing config.PricingConfig
	coupons *CouponRegistry
}

// NewEngine builds a cart engine.
func NewEngine(pricing config.PricingConfig, coupons *CouponRegistry) (*Engine, error) {
	if coupons == nil {
		return nil, fmt.Errorf("cart: coupon registry is required")
	}
	return &Engine{pricing: pricing, coupons: coupons}, nil
}

// AddItem adds a product line or, when the product is already carted,
// raises its quantity. The resulting quantity is always clamped to
// [1, stock].
func (e *Engine) AddItem(cart *Cart, snapshot Line, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := cart.lineIndex(snapshot.ProductID); i >= 0 {
		cart.Lines[i].Quantity = clampQuantity(cart.Lines[i].Quantity+quantity, cart.Lines[i].Stock)
		cart.UpdatedAt = time.Now().UTC()
		return
	}

	snapshot.Quantity = clampQuantity(quantity, snapshot.Stock)
	cart.Lines = append(cart.Lines, snapshot)
	cart.UpdatedAt = time.Now().UTC()
}

// IncreaseQuantity raises a line's quantity by one, clamped to the
// line's stock snapshot.
func (e *Engine) IncreaseQuantity(cart *Cart, productID uuid.UUID) error {
	i := cart.lineIndex(productID)
	if i < 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrLineNotFound, "cannot increase quantity")
	}
	cart.Lines[i].Quantity = clampQuantity(cart.Lines[i].Quantity+1, cart.Lines[i].Stock)
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

// DecreaseQuantity lowers a line's quantity by one, floored at 1. It
// never removes the line.
func (e *Engine) DecreaseQuantity(cart *Cart, productID uuid.UUID) error {
	i := cart.lineIndex(productID)
	if i < 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrLineNotFound, "cannot decrease quantity")
	}
	if cart.Lines[i].Quantity > 1 {
		cart.Lines[i].Quantity--
	}
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveItem deletes a line regardless of its quantity.
func (e *Engine) RemoveItem(cart *Cart, productID uuid.UUID) error {
	i := cart.lineIndex(productID)
	if i < 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrLineNotFound, "cannot remove item")
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

// Clear empties the cart and drops any applied coupon.
func (e *Engine) Clear(cart *Cart) {
	cart.Lines = nil
	cart.CouponCode = ""
	cart.UpdatedAt = time.Now().UTC()
}

// ComputeTotals prices the cart. An applied coupon whose minimum is no
// longer met contributes no discount but stays attached so it revives
// when the subtotal recovers.
func (e *Engine) ComputeTotals(cart *Cart) Totals {
	subtotal := 0
	for _, line := range cart.Lines {
		subtotal += line.Price * line.Quantity
	}

	shipping := 0
	convenienceFee := 0
	if !cart.IsEmpty() {
		if subtotal <= e.pricing.FreeShippingAbove {
			shipping = e.pricing.ShippingFlatFee
		}
		convenienceFee = e.pricing.ConvenienceFee
	}

	discount := 0
	if cart.CouponCode != "" {
		if coupon, ok := e.coupons.Lookup(cart.CouponCode); ok && coupon.Active && subtotal >= coupon.MinSubtotal {
			discount = coupon.FlatAmount
		}
	}

	total := subtotal + shipping + convenienceFee - discount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		Shipping:       shipping,
		ConvenienceFee: convenienceFee,
		Discount:       discount,
		Total:          total,
		CouponCode:     cart.CouponCode,
	}
}

// ApplyCoupon validates a code against the current subtotal and, on
// success, attaches it and returns the discount amount. Applying a new
// coupon replaces any previously applied one. Failures leave the cart
// untouched.
func (e *Engine) ApplyCoupon(cart *Cart, code string) (int, error) {
	coupon, ok := e.coupons.Lookup(code)
	if !ok {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrCouponNotFound, "invalid coupon code")
	}
	if !coupon.Active {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrCouponInactive, "coupon no longer active")
	}

	subtotal := 0
	for _, line := range cart.Lines {
		subtotal += line.Price * line.Quantity
	}
	if subtotal < coupon.MinSubtotal {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrCouponMinimumNotMet,
			fmt.Sprintf("coupon requires a minimum order of %d", coupon.MinSubtotal))
	}

	cart.CouponCode = coupon.Code
	cart.UpdatedAt = time.Now().UTC()
	return coupon.FlatAmount, nil
}

// RemoveCoupon detaches any applied coupon. Always succeeds.
func (e *Engine) RemoveCoupon(cart *Cart) {
	cart.CouponCode = ""
	cart.UpdatedAt = time.Now().UTC()
}

func clampQuantity(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

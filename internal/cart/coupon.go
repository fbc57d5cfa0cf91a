package cart

import "strings"

// Coupon is one promotional rule. Discounts are flat amounts in whole
// rupees, valid only while Active and the cart subtotal meets the
// minimum.
type Coupon struct {
	Code        string
	Description string
	FlatAmount  int
	MinSubtotal int
	Active      bool
}

// CouponRegistry resolves coupon codes case-insensitively.
type CouponRegistry struct {
	byCode map[string]Coupon
}

// NewCouponRegistry builds a registry over the given coupons.
func NewCouponRegistry(coupons ...Coupon) *CouponRegistry {
	byCode := make(map[string]Coupon, len(coupons))
	for _, c := range coupons {
		byCode[normalizeCouponCode(c.Code)] = c
	}
	return &CouponRegistry{byCode: byCode}
}

// DefaultCouponRegistry returns the registry with the coupons the
// storefront currently runs.
func DefaultCouponRegistry() *CouponRegistry {
	return NewCouponRegistry(Coupon{
		Code:        "HEALTH10",
		Description: "Flat ₹50 off on orders above ₹500",
		FlatAmount:  50,
		MinSubtotal: 500,
		Active:      true,
	})
}

// Lookup returns the coupon for a code, matched case-insensitively.
func (r *CouponRegistry) Lookup(code string) (Coupon, bool) {
	coupon, ok := r.byCode[normalizeCouponCode(code)]
	return coupon, ok
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

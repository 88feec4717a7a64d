// Package discount carries the coupon discount rules. The validation service
// is the single place discount arithmetic happens; everything that renders a
// price change mirrors its result through ApplyCoupon instead of recomputing
// percentages, so the math cannot diverge between views.
package discount

// ValidationResult is the outcome of validating a coupon code against a plan
// price for a specific user.
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	CouponID       uint     `json:"coupon_id,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
	FinalPrice     *float64 `json:"final_price,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// Applied is the resolved pricing handed to views and the payment flow.
type Applied struct {
	FinalPrice float64 `json:"final_price"`
	Discount   float64 `json:"discount"`
	Applied    bool    `json:"applied"`
}

// ApplyCoupon resolves a plan price against a validation result. An invalid
// result passes the plan price through untouched. A valid result is mirrored
// as-is: missing fields default to no discount and the plan price.
func ApplyCoupon(planPrice float64, v ValidationResult) Applied {
	if !v.Valid {
		return Applied{FinalPrice: planPrice, Discount: 0, Applied: false}
	}
	out := Applied{FinalPrice: planPrice, Applied: true}
	if v.DiscountAmount != nil {
		out.Discount = *v.DiscountAmount
	}
	if v.FinalPrice != nil {
		out.FinalPrice = *v.FinalPrice
	}
	return out
}

// ShowOriginalPrice reports whether the original price should be rendered
// struck through next to the paid amount: only when it is present and
// strictly greater.
func ShowOriginalPrice(originalAmount *float64, amount float64) bool {
	return originalAmount != nil && *originalAmount > amount
}

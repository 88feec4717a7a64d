package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestApplyCouponInvalidPassesThrough(t *testing.T) {
	got := ApplyCoupon(1000, ValidationResult{Valid: false})
	assert.Equal(t, Applied{FinalPrice: 1000, Discount: 0, Applied: false}, got)
}

func TestApplyCouponMirrorsValidation(t *testing.T) {
	got := ApplyCoupon(1000, ValidationResult{Valid: true, DiscountAmount: f64(200), FinalPrice: f64(800)})
	assert.Equal(t, Applied{FinalPrice: 800, Discount: 200, Applied: true}, got)
}

func TestApplyCouponDefaultsMissingFields(t *testing.T) {
	got := ApplyCoupon(1000, ValidationResult{Valid: true})
	assert.Equal(t, Applied{FinalPrice: 1000, Discount: 0, Applied: true}, got)
}

func TestShowOriginalPrice(t *testing.T) {
	assert.False(t, ShowOriginalPrice(nil, 800))
	assert.False(t, ShowOriginalPrice(f64(800), 800))
	assert.False(t, ShowOriginalPrice(f64(700), 800))
	assert.True(t, ShowOriginalPrice(f64(1000), 800))
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		percent   float64
		maxAmount float64
		want      float64
	}{
		{name: "plain percent", price: 1000, percent: 20, maxAmount: 0, want: 200},
		{name: "capped", price: 1000, percent: 20, maxAmount: 150, want: 150},
		{name: "cap above percent is ignored", price: 1000, percent: 10, maxAmount: 500, want: 100},
		{name: "full discount", price: 1000, percent: 100, maxAmount: 0, want: 1000},
		{name: "never exceeds price", price: 50, percent: 100, maxAmount: 80, want: 50},
		{name: "rounded to cents", price: 99.99, percent: 33, maxAmount: 0, want: 33},
	}

	for _, tt := range tests {
		if got := Compute(tt.price, tt.percent, tt.maxAmount); got != tt.want {
			t.Fatalf("%s: Compute(%v, %v, %v) = %v, want %v", tt.name, tt.price, tt.percent, tt.maxAmount, got, tt.want)
		}
	}
}

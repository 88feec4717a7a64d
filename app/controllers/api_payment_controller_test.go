package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumapanel/lumapanel/app/models"
)

func TestPaymentResponseWithoutDiscount(t *testing.T) {
	payment := &models.Payment{ID: 1, Amount: 100, Status: models.PaymentStatusPending, RefCode: "ref-1"}

	out := paymentResponse(payment)

	_, hasOriginal := out["original_amount"]
	assert.False(t, hasOriginal, "undiscounted payments must not expose an original amount")
	_, hasDiscount := out["discount"]
	assert.False(t, hasDiscount)
}

func TestPaymentResponseWithDiscount(t *testing.T) {
	original := 100.0
	payment := &models.Payment{ID: 2, Amount: 75, OriginalAmount: &original, Status: models.PaymentStatusSuccess, RefCode: "ref-2"}

	out := paymentResponse(payment)

	assert.Equal(t, 100.0, out["original_amount"])
	assert.Equal(t, 25.0, out["discount"])
}

// An original amount equal to the paid amount is not a discount and must not
// be rendered struck through.
func TestPaymentResponseEqualOriginalAmountHidden(t *testing.T) {
	original := 80.0
	payment := &models.Payment{ID: 3, Amount: 80, OriginalAmount: &original, Status: models.PaymentStatusSuccess, RefCode: "ref-3"}

	out := paymentResponse(payment)

	_, hasOriginal := out["original_amount"]
	assert.False(t, hasOriginal)
}

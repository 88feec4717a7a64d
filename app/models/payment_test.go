package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentDiscount(t *testing.T) {
	original := 1000.0
	p := Payment{Amount: 800, OriginalAmount: &original}
	assert.Equal(t, 200.0, p.Discount())
	assert.True(t, p.HasDiscount())

	plain := Payment{Amount: 800}
	assert.Equal(t, 0.0, plain.Discount())
	assert.False(t, plain.HasDiscount())

	// original equal to the paid amount shows no discount
	same := 800.0
	even := Payment{Amount: 800, OriginalAmount: &same}
	assert.Equal(t, 0.0, even.Discount())
	assert.False(t, even.HasDiscount())
}

func TestPaymentTransitions(t *testing.T) {
	p := Payment{Status: PaymentStatusPending}
	assert.True(t, p.CanTransitionTo(PaymentStatusSuccess))
	assert.True(t, p.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, p.CanTransitionTo(PaymentStatusCanceled))
	assert.False(t, p.CanTransitionTo("refunded"))
	assert.False(t, p.IsTerminal())

	for _, status := range []string{PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCanceled} {
		done := Payment{Status: status}
		assert.True(t, done.IsTerminal())
		assert.False(t, done.CanTransitionTo(PaymentStatusPending))
		assert.False(t, done.CanTransitionTo(PaymentStatusSuccess))
	}
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusSuccess  = "success"
	PaymentStatusFailed   = "failed"
	PaymentStatusCanceled = "canceled"
)

// Payment records a purchase attempt. OriginalAmount is only set when a
// coupon discount applied; Amount is then the discounted payable value.
type Payment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID         uint           `gorm:"not null;index" json:"plan_id"`
	Plan           Plan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	PackageID      *uint          `gorm:"default:null;index" json:"package_id,omitempty"`
	Amount         float64        `gorm:"not null" json:"amount"`
	OriginalAmount *float64       `gorm:"default:null" json:"original_amount,omitempty"`
	Status         string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CouponID       *uint          `gorm:"default:null;index" json:"coupon_id,omitempty"`
	RefCode        string         `gorm:"type:varchar(36);uniqueIndex" json:"ref_code"`
	Platform       string         `gorm:"type:varchar(30);default:'web'" json:"platform"`
	PaidAt         *time.Time     `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Discount returns the discount granted on this payment. Zero unless an
// original amount above the paid amount is on record.
func (p *Payment) Discount() float64 {
	if p.OriginalAmount == nil {
		return 0
	}
	if d := *p.OriginalAmount - p.Amount; d > 0 {
		return d
	}
	return 0
}

// HasDiscount reports whether the original price should be displayed struck
// through: only when an original amount is present and strictly greater than
// the paid amount.
func (p *Payment) HasDiscount() bool {
	return p.OriginalAmount != nil && *p.OriginalAmount > p.Amount
}

// IsTerminal reports whether the payment has reached a final state.
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo allows only pending -> {success, failed, canceled}.
// Terminal states are immutable.
func (p *Payment) CanTransitionTo(status string) bool {
	if p.Status != PaymentStatusPending {
		return false
	}
	switch status {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCanceled:
		return true
	}
	return false
}

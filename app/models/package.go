package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

const (
	PackageStatusActive    = "active"
	PackageStatusExpired   = "expired"
	PackageStatusSuspended = "suspended"
)

// Package is an issued, time-bounded instance of a Plan. It copies the plan's
// request limit at issuance and decrements its own remaining counter
// independently of the plan.
type Package struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID           uint           `gorm:"not null;index" json:"plan_id"`
	Plan             Plan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	RequestTotal     int            `gorm:"not null;default:0" json:"request_total"`
	RequestRemaining int            `gorm:"not null;default:0" json:"request_remaining"`
	Status           string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartDate        time.Time      `gorm:"not null" json:"start_date"`
	EndDate          time.Time      `gorm:"not null;index" json:"end_date"`
	PurchasePlatform string         `gorm:"type:varchar(30);default:'web'" json:"purchase_platform"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewPackageFromPlan issues a package from a plan, copying its request limit.
func NewPackageFromPlan(userID uint, plan *Plan, platform string, now time.Time) *Package {
	limit := plan.RequestLimit()
	if platform == "" {
		platform = "web"
	}
	return &Package{
		UserID:           userID,
		PlanID:           plan.ID,
		RequestTotal:     limit.Total,
		RequestRemaining: limit.Remaining,
		Status:           PackageStatusActive,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, plan.DurationDays),
		PurchasePlatform: platform,
	}
}

// RequestLimit returns the package's limit pair.
func (p *Package) RequestLimit() quota.RequestLimit {
	return quota.RequestLimit{Total: p.RequestTotal, Remaining: p.RequestRemaining}
}

// IsUnlimited reports whether the package carries an uncapped request limit.
func (p *Package) IsUnlimited() bool {
	return quota.IsUnlimited(p.RequestTotal)
}

// UsagePercent returns the consumed share of the request limit.
func (p *Package) UsagePercent() int {
	return p.RequestLimit().UsagePercent()
}

// IsExpired reports whether the package end date has passed.
func (p *Package) IsExpired(now time.Time) bool {
	return now.After(p.EndDate)
}

// CanConsume reports whether one more request may be served from this
// package. Unlimited packages always can while active.
func (p *Package) CanConsume() bool {
	if p.Status != PackageStatusActive {
		return false
	}
	if p.IsUnlimited() {
		return true
	}
	return p.RequestRemaining > 0
}

// Consume decrements the remaining counter. Unlimited packages never
// decrement.
func (p *Package) Consume() bool {
	if !p.CanConsume() {
		return false
	}
	if !p.IsUnlimited() {
		p.RequestRemaining--
	}
	return true
}

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

// Coupon is a time-windowed percentage discount. MaxUsagePerUser may carry
// the unlimited sentinel (-1); MaxAmount <= 0 means the discount is uncapped.
type Coupon struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Code            string         `gorm:"type:varchar(60);uniqueIndex" json:"code" validate:"required,min=3,max=60"`
	Percent         float64        `gorm:"not null" json:"percent" validate:"gt=0,lte=100"`
	MaxAmount       float64        `gorm:"not null;default:0" json:"max_amount" validate:"gte=0"`
	MaxUsage        int            `gorm:"not null;default:0" json:"max_usage" validate:"gte=0"`
	MaxUsagePerUser int            `gorm:"not null;default:1" json:"max_usage_per_user" validate:"gte=-1"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	ForPlans        string         `gorm:"type:varchar(191);default:''" json:"for_plans"`
	ForUsers        string         `gorm:"type:varchar(191);default:''" json:"for_users"`
	Active          bool           `gorm:"default:true;index" json:"active"`
	UsedCount       int            `gorm:"not null;default:0" json:"used_count"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponRedemption records one successful application of a coupon to a
// payment. Per-user caps count rows in this table.
type CouponRedemption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CouponID  uint      `gorm:"not null;index:idx_coupon_redemptions_coupon_user,priority:1" json:"coupon_id"`
	UserID    uint      `gorm:"not null;index:idx_coupon_redemptions_coupon_user,priority:2" json:"user_id"`
	PaymentID uint      `gorm:"not null;index" json:"payment_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Validate checks field constraints plus the date ordering rule. A coupon
// whose end date is not after its start date is rejected before any
// persistence happens.
func (c *Coupon) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if !c.EndDate.After(c.StartDate) {
		return fmt.Errorf("end_date: must be after start_date")
	}
	return nil
}

// IsWithinWindow reports whether now falls inside the coupon's validity
// window.
func (c *Coupon) IsWithinWindow(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// HasUnlimitedPerUser reports whether per-user redemptions are uncapped.
func (c *Coupon) HasUnlimitedPerUser() bool {
	return quota.IsUnlimited(c.MaxUsagePerUser)
}

// IsExhausted reports whether the global usage cap has been reached.
// A MaxUsage of zero means no global cap.
func (c *Coupon) IsExhausted() bool {
	return c.MaxUsage > 0 && c.UsedCount >= c.MaxUsage
}

// AppliesToPlan checks the plan scoping list. An empty list matches every
// plan.
func (c *Coupon) AppliesToPlan(planID uint) bool {
	return idListContains(c.ForPlans, planID)
}

// AppliesToUser checks the user scoping list. An empty list matches every
// user.
func (c *Coupon) AppliesToUser(userID uint) bool {
	return idListContains(c.ForUsers, userID)
}

func idListContains(csv string, id uint) bool {
	trimmed := strings.TrimSpace(csv)
	if trimmed == "" {
		return true
	}
	for _, part := range strings.Split(trimmed, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		if uint(n) == id {
			return true
		}
	}
	return false
}

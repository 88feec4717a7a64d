package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

const PlatformAll = "all"

// Plan is the subscription template packages are issued from. RequestTotal
// may carry the unlimited sentinel (-1).
type Plan struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(150);uniqueIndex" json:"name" validate:"required,min=2,max=150"`
	Description     string         `gorm:"type:text" json:"description" validate:"max=2000"`
	Price           float64        `gorm:"not null" json:"price" validate:"gte=0"`
	DurationDays    int            `gorm:"not null" json:"duration_days" validate:"gte=1,lte=3650"`
	RequestTotal    int            `gorm:"not null;default:0" json:"request_total" validate:"gte=-1"`
	TargetPlatforms string         `gorm:"type:varchar(191);default:'all'" json:"target_platforms"`
	Active          bool           `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// RequestLimit returns the fresh limit a newly issued package starts with.
func (p *Plan) RequestLimit() quota.RequestLimit {
	return quota.RequestLimit{Total: p.RequestTotal, Remaining: p.RequestTotal}
}

// IsUnlimited reports whether the plan carries an uncapped request limit.
func (p *Plan) IsUnlimited() bool {
	return quota.IsUnlimited(p.RequestTotal)
}

// Platforms splits the stored platform list.
func (p *Plan) Platforms() []string {
	parts := strings.Split(p.TargetPlatforms, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// TargetsPlatform reports whether the plan is sold on the given platform.
// The "all" marker matches every platform.
func (p *Plan) TargetsPlatform(tag string) bool {
	for _, platform := range p.Platforms() {
		if platform == PlatformAll || platform == tag {
			return true
		}
	}
	return false
}

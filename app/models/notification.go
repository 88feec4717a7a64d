package models

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/internal/pkg/audience"
)

const (
	NotificationTypeExpiry  = "expiry"
	NotificationTypePayment = "payment"
	NotificationTypeSystem  = "system"
	NotificationTypeOther   = "other"
)

// Notification targets either everyone (no user, no plan), the subscribers
// of a plan, or a single user. The audience is always derived from the two
// optional references, never stored.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Message   string         `gorm:"type:text;not null" json:"message" validate:"required"`
	Type      string         `gorm:"type:varchar(20);not null;default:'other'" json:"type" validate:"oneof=expiry payment system other"`
	UserID    *uint          `gorm:"default:null;index" json:"user_id,omitempty"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID    *uint          `gorm:"default:null;index" json:"plan_id,omitempty"`
	Plan      *Plan          `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	SendSMS   bool           `gorm:"default:false" json:"send_sms"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Notification) Validate() error {
	v := validator.New()

	return v.Struct(n)
}

// Audience classifies the notification's recipients. Plan targeting wins
// over user targeting when both references are set.
func (n *Notification) Audience() audience.Target {
	return audience.Classify(uintPtrToID(n.UserID), uintPtrToID(n.PlanID))
}

// MarkAsRead flags the notification as read.
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

func uintPtrToID(v *uint) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

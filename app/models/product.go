package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProductTypePattern = "pattern"
	ProductTypeColor   = "color"
	ProductTypeMixed   = "mixed"
)

// Product is a user-owned catalog of cosmetic patterns and colors. The type
// is fixed at creation and constrains which pattern codes are selectable.
type Product struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UUID      string           `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	User      User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name      string           `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Type      string           `gorm:"type:varchar(20);not null" json:"type" validate:"oneof=pattern color mixed"`
	Patterns  []ProductPattern `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"patterns"`
	Colors    []ProductColor   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductPattern is one ordered pattern entry of a product catalog.
type ProductPattern struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Code      string    `gorm:"type:varchar(60);not null" json:"code" validate:"required,max=60"`
	ImageURL  string    `gorm:"type:varchar(500);default:null" json:"image_url,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProductColor is one ordered color entry of a product catalog.
type ProductColor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	HexCode   string    `gorm:"type:varchar(9);not null" json:"hex_code" validate:"required,hexcolor"`
	ImageURL  string    `gorm:"type:varchar(500);default:null" json:"image_url,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// BeforeCreate assigns the public UUID.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

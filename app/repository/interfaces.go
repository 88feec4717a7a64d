package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithStats(offset, limit int) ([]UserWithStats, error)
	TouchAPIKeyUsage(id uint, at time.Time) error
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	GetActive() ([]models.Plan, error)
	GetActiveForPlatform(platform string) ([]models.Plan, error)
	List(offset, limit int) ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
	Count() (int64, error)
}

// PackageRepository defines the interface for issued package operations
type PackageRepository interface {
	Create(pkg *models.Package) error
	GetByID(id uint) (*models.Package, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Package, error)
	GetActiveByUserID(userID uint) ([]models.Package, error)
	List(offset, limit int) ([]models.Package, error)
	ListByStatus(status string, offset, limit int) ([]models.Package, error)
	GetOverdueActive(now time.Time, limit int) ([]models.Package, error)
	Update(pkg *models.Package) error
	Delete(id uint) error
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	ConsumeRequest(id uint) (*models.Package, error)
}

// CouponRepository defines the interface for coupon operations
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	List(offset, limit int) ([]models.Coupon, error)
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	Count() (int64, error)
	CountRedemptionsByUser(couponID, userID uint) (int64, error)
	RecordRedemption(couponID, userID, paymentID uint) error
}

// PaymentRepository defines the interface for payment operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByRefCode(refCode string) (*models.Payment, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Payment, error)
	List(offset, limit int) ([]models.Payment, error)
	ListByStatus(status string, offset, limit int) ([]models.Payment, error)
	Update(payment *models.Payment) error
	Count() (int64, error)
	SumSucceededAmount() (float64, error)
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	List(offset, limit int) ([]models.Notification, error)
	GetVisibleToUser(userID uint, planIDs []uint, offset, limit int) ([]models.Notification, error)
	Update(notification *models.Notification) error
	Delete(id uint) error
	Count() (int64, error)
	GetAllForStats() ([]models.Notification, error)
}

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByUUID(uuid string) (*models.Product, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Product, error)
	Update(product *models.Product) error
	ReplacePatterns(productID uint, patterns []models.ProductPattern) error
	ReplaceColors(productID uint, colors []models.ProductColor) error
	Delete(id uint) error
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
}

// UserWithStats represents a user with aggregated package and payment counts
type UserWithStats struct {
	User          models.User
	PackageCount  int64
	PaymentCount  int64
	ProductCount  int64
	RevenueAmount float64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Package      PackageRepository
	Coupon       CouponRepository
	Payment      PaymentRepository
	Notification NotificationRepository
	Product      ProductRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Package:      NewPackageRepository(db),
		Coupon:       NewCouponRepository(db),
		Payment:      NewPaymentRepository(db),
		Notification: NewNotificationRepository(db),
		Product:      NewProductRepository(db),
	}
}

package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// ErrCouponExhausted is returned when a redemption would exceed the coupon's
// global usage cap.
var ErrCouponExhausted = errors.New("coupon usage exhausted")

// couponRepository implements the CouponRepository interface
type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository instance
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.First(&coupon, id).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetByCode resolves a coupon by its code, case-insensitively.
func (r *couponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) List(offset, limit int) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error
	return coupons, err
}

func (r *couponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *couponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

func (r *couponRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Coupon{}).Count(&count).Error
	return count, err
}

func (r *couponRepository) CountRedemptionsByUser(couponID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).Count(&count).Error
	return count, err
}

// RecordRedemption stores a redemption row and bumps the coupon's used
// counter inside one transaction. The coupon row is locked so two concurrent
// redemptions cannot both pass the global cap.
func (r *couponRepository) RecordRedemption(couponID, userID, paymentID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var coupon models.Coupon
		if err := tx.Clauses(lockForUpdate()).First(&coupon, couponID).Error; err != nil {
			return err
		}
		if coupon.IsExhausted() {
			return ErrCouponExhausted
		}
		redemption := models.CouponRedemption{
			CouponID:  couponID,
			UserID:    userID,
			PaymentID: paymentID,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return err
		}
		return tx.Model(&models.Coupon{}).Where("id = ?", couponID).
			Update("used_count", gorm.Expr("used_count + 1")).Error
	})
}

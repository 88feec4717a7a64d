package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

// ErrQuotaExhausted is returned when a consume hits a package without
// remaining requests.
var ErrQuotaExhausted = errors.New("request quota exhausted")

// packageRepository implements the PackageRepository interface
type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository instance
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Create(pkg *models.Package) error {
	return r.db.Create(pkg).Error
}

func (r *packageRepository) GetByID(id uint) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Preload("Plan").First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) GetByUserID(userID uint, offset, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Preload("Plan").Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) GetActiveByUserID(userID uint) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Preload("Plan").
		Where("user_id = ? AND status = ?", userID, models.PackageStatusActive).
		Order("end_date ASC").Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) List(offset, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Preload("Plan").Order("created_at DESC").Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) ListByStatus(status string, offset, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Preload("Plan").Where("status = ?", status).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// GetOverdueActive returns active packages whose end date has passed. Used
// by the expiry sweeper.
func (r *packageRepository) GetOverdueActive(now time.Time, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Where("status = ? AND end_date < ?", models.PackageStatusActive, now).
		Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) Update(pkg *models.Package) error {
	return r.db.Save(pkg).Error
}

func (r *packageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Package{}, id).Error
}

func (r *packageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Package{}).Count(&count).Error
	return count, err
}

func (r *packageRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Package{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ConsumeRequest atomically decrements the remaining request counter of an
// active package. Unlimited packages pass through without a decrement;
// exhausted ones return ErrQuotaExhausted.
func (r *packageRepository) ConsumeRequest(id uint) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(lockForUpdate()).First(&pkg, id).Error; err != nil {
			return err
		}
		if pkg.Status != models.PackageStatusActive {
			return ErrQuotaExhausted
		}
		if quota.IsUnlimited(pkg.RequestTotal) {
			return nil
		}
		if pkg.RequestRemaining <= 0 {
			return ErrQuotaExhausted
		}
		pkg.RequestRemaining--
		return tx.Model(&models.Package{}).Where("id = ?", pkg.ID).
			Update("request_remaining", pkg.RequestRemaining).Error
	})
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

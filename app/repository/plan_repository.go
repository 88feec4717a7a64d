package repository

import (
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByName(name string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetActive retrieves all plans currently offered for sale
func (r *planRepository) GetActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

// GetActiveForPlatform filters active plans down to one purchase platform.
// Platform matching includes the "all" marker, which is resolved in Go since
// the list is stored as CSV.
func (r *planRepository) GetActiveForPlatform(platform string) ([]models.Plan, error) {
	plans, err := r.GetActive()
	if err != nil {
		return nil, err
	}
	out := make([]models.Plan, 0, len(plans))
	for _, plan := range plans {
		if plan.TargetsPlatform(platform) {
			out = append(out, plan)
		}
	}
	return out, nil
}

func (r *planRepository) List(offset, limit int) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

func (r *planRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}

func (r *planRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Plan{}).Count(&count).Error
	return count, err
}

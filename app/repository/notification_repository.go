package repository

import (
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) List(offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, err
}

// GetVisibleToUser returns the notifications a user should see: ones
// addressed to them directly, ones targeting a plan they hold a package of,
// and broadcasts.
func (r *notificationRepository) GetVisibleToUser(userID uint, planIDs []uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.Where("user_id = ?", userID).
		Or("user_id IS NULL AND plan_id IS NULL")
	if len(planIDs) > 0 {
		q = q.Or("plan_id IN ?", planIDs)
	}
	err := r.db.Where(q).Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) Update(notification *models.Notification) error {
	return r.db.Save(notification).Error
}

func (r *notificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *notificationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Count(&count).Error
	return count, err
}

// GetAllForStats loads the minimal column set needed by the audience stats
// aggregation.
func (r *notificationRepository) GetAllForStats() ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Select("id", "user_id", "plan_id", "type", "send_sms").Find(&notifications).Error
	return notifications, err
}

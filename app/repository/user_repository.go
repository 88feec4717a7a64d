package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPIKeyHash resolves an unrevoked API key hash to its user.
func (r *userRepository) GetByAPIKeyHash(hash string) (*models.User, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search searches for users by name, email or phone
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", searchPattern, searchPattern, searchPattern).
		Find(&users).Error
	return users, err
}

// GetWithStats retrieves users together with package, payment and product counts
func (r *userRepository) GetWithStats(offset, limit int) ([]UserWithStats, error) {
	users, err := r.List(offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]UserWithStats, 0, len(users))
	for _, user := range users {
		stats := UserWithStats{User: user}
		if err := r.db.Model(&models.Package{}).Where("user_id = ?", user.ID).Count(&stats.PackageCount).Error; err != nil {
			return nil, err
		}
		if err := r.db.Model(&models.Payment{}).Where("user_id = ?", user.ID).Count(&stats.PaymentCount).Error; err != nil {
			return nil, err
		}
		if err := r.db.Model(&models.Product{}).Where("user_id = ?", user.ID).Count(&stats.ProductCount).Error; err != nil {
			return nil, err
		}
		var revenue *float64
		if err := r.db.Model(&models.Payment{}).
			Where("user_id = ? AND status = ?", user.ID, models.PaymentStatusSuccess).
			Select("SUM(amount)").Scan(&revenue).Error; err != nil {
			return nil, err
		}
		if revenue != nil {
			stats.RevenueAmount = *revenue
		}
		out = append(out, stats)
	}
	return out, nil
}

// TouchAPIKeyUsage refreshes the last-used timestamp of the user's API key.
func (r *userRepository) TouchAPIKeyUsage(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("api_key_last_used_at", at).Error
}

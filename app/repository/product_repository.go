package repository

import (
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.preloadOrdered(r.db).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByUUID(uuid string) (*models.Product, error) {
	var product models.Product
	err := r.preloadOrdered(r.db).Where("uuid = ?", uuid).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByUserID(userID uint, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.preloadOrdered(r.db).Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Omit("Patterns", "Colors").Save(product).Error
}

// ReplacePatterns swaps the ordered pattern set of a product in one
// transaction.
func (r *productRepository) ReplacePatterns(productID uint, patterns []models.ProductPattern) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductPattern{}).Error; err != nil {
			return err
		}
		for i := range patterns {
			patterns[i].ID = 0
			patterns[i].ProductID = productID
			patterns[i].SortOrder = i
		}
		if len(patterns) == 0 {
			return nil
		}
		return tx.Create(&patterns).Error
	})
}

// ReplaceColors swaps the ordered color set of a product in one transaction.
func (r *productRepository) ReplaceColors(productID uint, colors []models.ProductColor) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductColor{}).Error; err != nil {
			return err
		}
		for i := range colors {
			colors[i].ID = 0
			colors[i].ProductID = productID
			colors[i].SortOrder = i
		}
		if len(colors) == 0 {
			return nil
		}
		return tx.Create(&colors).Error
	})
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductPattern{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductColor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *productRepository) preloadOrdered(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patterns", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

package pos

import (
	"fmt"

	"maitred/internal/models"

	"github.com/jinzhu/gorm"
)

// Catalog manages the menu: categories and products. It has no business
// logic beyond validation and ordering; the coordinator never writes here.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a catalog store over the given database.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ListCategories returns categories in menu order, with their products.
func (s *Catalog) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Preload("Products").
		Order("sort_order asc").
		Find(&categories).Error
	return categories, err
}

// CreateCategory adds a menu category. New categories sort after the
// existing ones unless a sort order is given.
func (s *Catalog) CreateCategory(name, color string, sortOrder int) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrInvalidInput)
	}
	if sortOrder == 0 {
		var count int64
		if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
			return nil, err
		}
		sortOrder = int(count) + 1
	}
	category := models.Category{Name: name, Color: color, SortOrder: sortOrder}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category and orphans nothing: categories with
// products are protected.
func (s *Catalog) DeleteCategory(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
		}
		return err
	}
	var products int64
	err := s.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&products).Error
	if err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("category %q still has products: %w", category.Name, ErrConflict)
	}
	return s.db.Delete(&category).Error
}

// ListProducts returns all products sorted by name, with their category.
func (s *Catalog) ListProducts() ([]models.Product, error) {
	var products []models.Product
	err := s.db.
		Preload("Category").
		Order("name asc").
		Find(&products).Error
	return products, err
}

// CreateProduct adds a menu item to a category.
func (s *Catalog) CreateProduct(name string, price float64, categoryID uint) (*models.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required: %w", ErrInvalidInput)
	}
	if price < 0 {
		return nil, fmt.Errorf("product price must not be negative: %w", ErrInvalidInput)
	}
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
		}
		return nil, err
	}
	product := models.Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		InStock:    true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProductStock flips a product's availability on the terminal.
func (s *Catalog) SetProductStock(productID uint, inStock bool) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}
	if err := s.db.Model(&product).Update("in_stock", inStock).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product from the menu. Past order items keep
// their own price snapshot, so old bills stay correct.
func (s *Catalog) DeleteProduct(productID uint) error {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return err
	}
	return s.db.Delete(&product).Error
}

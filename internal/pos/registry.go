package pos

import (
	"fmt"

	"maitred/internal/models"

	"github.com/jinzhu/gorm"
)

// TableRegistry manages the floor plan: table identity, geometry and
// status. The coordinator is the only other writer of table status.
type TableRegistry struct {
	db *gorm.DB
}

// NewTableRegistry creates a registry over the given database.
func NewTableRegistry(db *gorm.DB) *TableRegistry {
	return &TableRegistry{db: db}
}

// CreateTableInput carries the admin form for a new table. Zero geometry
// falls back to a 100x100 square at the origin, matching the floor editor
// defaults.
type CreateTableInput struct {
	Name   string `json:"name"`
	Shape  string `json:"shape"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Create adds a table to the floor plan, defaulting to AVAILABLE.
func (r *TableRegistry) Create(in CreateTableInput) (*models.Table, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("table name is required: %w", ErrInvalidInput)
	}
	if in.Shape == "" {
		in.Shape = string(models.TableShapeSquare)
	}
	if !models.ValidTableShape(in.Shape) {
		return nil, fmt.Errorf("unknown table shape %q: %w", in.Shape, ErrInvalidInput)
	}
	if in.X < 0 || in.Y < 0 || in.Width < 0 || in.Height < 0 {
		return nil, fmt.Errorf("table geometry must not be negative: %w", ErrInvalidInput)
	}
	if in.Width == 0 {
		in.Width = 100
	}
	if in.Height == 0 {
		in.Height = 100
	}

	table := models.Table{
		Name:   in.Name,
		Shape:  in.Shape,
		X:      in.X,
		Y:      in.Y,
		Width:  in.Width,
		Height: in.Height,
		Status: string(models.TableStatusAvailable),
	}
	if err := r.db.Create(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// List returns all tables sorted by name.
func (r *TableRegistry) List() ([]models.Table, error) {
	var tables []models.Table
	err := r.db.Order("name asc").Find(&tables).Error
	return tables, err
}

// Get returns one table.
func (r *TableRegistry) Get(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.First(&table, tableID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
		}
		return nil, err
	}
	return &table, nil
}

// UpdatePosition moves a table on the floor plan. Only the geometry
// changes; status is untouched.
func (r *TableRegistry) UpdatePosition(tableID uint, x, y int) (*models.Table, error) {
	if x < 0 || y < 0 {
		return nil, fmt.Errorf("table position must not be negative: %w", ErrInvalidInput)
	}
	table, err := r.Get(tableID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"x": x, "y": y}
	if err := r.db.Model(table).Updates(updates).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// UpdateStatus sets a table's status directly. This is the floor plan's
// manual override (marking a table RESERVED, or clearing a stale state);
// order-driven transitions go through the coordinator.
func (r *TableRegistry) UpdateStatus(tableID uint, status string) (*models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, fmt.Errorf("unknown table status %q: %w", status, ErrInvalidInput)
	}
	table, err := r.Get(tableID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(table).Update("status", status).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Delete removes a table from the floor plan. A table with an OPEN order
// is protected.
func (r *TableRegistry) Delete(tableID uint) error {
	table, err := r.Get(tableID)
	if err != nil {
		return err
	}

	var open int64
	err = r.db.Model(&models.Order{}).
		Where("table_id = ? AND status = ?", tableID, string(models.OrderStatusOpen)).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("table %q still has an open order: %w", table.Name, ErrConflict)
	}

	return r.db.Delete(table).Error
}

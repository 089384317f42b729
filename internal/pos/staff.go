package pos

import (
	"fmt"

	"maitred/internal/models"

	"github.com/jinzhu/gorm"
)

// Staff manages employee records. The PIN is both identity and login
// credential, so uniqueness is checked here and backed by a unique index
// against races.
type Staff struct {
	db *gorm.DB
}

// NewStaff creates an employee store over the given database.
func NewStaff(db *gorm.DB) *Staff {
	return &Staff{db: db}
}

// Create adds an employee. The PIN must be a unique 4-6 digit code.
func (s *Staff) Create(name, pin, role string) (*models.Employee, error) {
	if name == "" {
		return nil, fmt.Errorf("employee name is required: %w", ErrInvalidInput)
	}
	if !models.ValidPIN(pin) {
		return nil, fmt.Errorf("PIN must be 4-6 digits: %w", ErrInvalidInput)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}

	var taken int64
	if err := s.db.Model(&models.Employee{}).Where("pin = ?", pin).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, fmt.Errorf("PIN already in use: %w", ErrConflict)
	}

	employee := models.Employee{Name: name, PIN: pin, Role: role}
	if err := s.db.Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List returns employees, most recently added first.
func (s *Staff) List() ([]models.Employee, error) {
	var employees []models.Employee
	err := s.db.Order("created_at desc").Find(&employees).Error
	return employees, err
}

// Delete removes an employee.
func (s *Staff) Delete(employeeID uint) error {
	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
		}
		return err
	}
	return s.db.Delete(&employee).Error
}

// FindByPIN resolves a login attempt. A wrong PIN is indistinguishable
// from a missing employee.
func (s *Staff) FindByPIN(pin string) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.Where("pin = ?", pin).First(&employee).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("no employee with that PIN: %w", ErrNotFound)
		}
		return nil, err
	}
	return &employee, nil
}

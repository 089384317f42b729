package models

import (
	"github.com/jinzhu/gorm"
)

// Employee is a staff member who signs in to the terminal with a numeric
// PIN. The PIN doubles as the login credential, so it must be unique.
type Employee struct {
	gorm.Model
	Name string `json:"name"`
	PIN  string `gorm:"column:pin;unique_index" json:"-"`
	Role string `json:"role"`
}

// Role represents an employee's access level
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
	RoleKitchen Role = "KITCHEN"
	RoleBar     Role = "BAR"
)

// ValidRole reports whether r is a known employee role.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleCashier, RoleKitchen, RoleBar:
		return true
	}
	return false
}

// ValidPIN reports whether pin is a 4-6 digit numeric code.
func ValidPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

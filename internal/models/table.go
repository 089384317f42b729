package models

import (
	"github.com/jinzhu/gorm"
)

// Table represents a physical table on the restaurant floor plan.
// Geometry fields (X, Y, Width, Height) are presentation metadata used by
// the floor editor; Status gates order assignment.
type Table struct {
	gorm.Model
	Name   string `gorm:"unique_index" json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Shape  string `json:"shape"`
	Status string `json:"status"`
}

// TableStatus represents the possible occupancy states of a table
type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusOccupied  TableStatus = "OCCUPIED"
	TableStatusReserved  TableStatus = "RESERVED"
)

// TableShape represents the possible shapes of a table
type TableShape string

const (
	TableShapeSquare    TableShape = "square"
	TableShapeCircle    TableShape = "circle"
	TableShapeRectangle TableShape = "rectangle"
)

// ValidTableStatus reports whether s is a known table status.
func ValidTableStatus(s string) bool {
	switch TableStatus(s) {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

// ValidTableShape reports whether s is a known table shape.
func ValidTableShape(s string) bool {
	switch TableShape(s) {
	case TableShapeSquare, TableShapeCircle, TableShapeRectangle:
		return true
	}
	return false
}

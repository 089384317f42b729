package models

import (
	"github.com/jinzhu/gorm"
)

// Category groups products on the order terminal. Color and SortOrder
// only affect how the menu is laid out.
type Category struct {
	gorm.Model
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
	Products  []Product `gorm:"foreignkey:CategoryID" json:"products,omitempty"`
}

// Product is a sellable menu item. Price is in Lao Kip, which has no
// minor unit. The price on a product may change over time; orders snapshot
// it into their line items at creation.
type Product struct {
	gorm.Model
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID uint    `json:"categoryId"`
	Category   *Category `gorm:"foreignkey:CategoryID" json:"category,omitempty"`
	InStock    bool    `json:"inStock"`
}

// Package database owns the gorm connection, schema migration and default
// data seeding.
package database

import (
	"fmt"
	"time"

	"maitred/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Open connects to the database. driver is "sqlite3" for a local file or
// "postgres" with a full DSN.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates and updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Employee{},
	).Error
}

// Seed ensures essential data exists: an admin account, a small staff, the
// default menu (prices in Lao Kip) and six tables. Safe to run on every
// start.
func Seed(db *gorm.DB) error {
	if err := seedEmployees(db); err != nil {
		return err
	}
	if err := seedMenu(db); err != nil {
		return err
	}
	return seedTables(db)
}

func seedEmployees(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Employee{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	staff := []models.Employee{
		{Name: "Admin User", PIN: "1234", Role: string(models.RoleAdmin)},
		{Name: "John Cashier", PIN: "1111", Role: string(models.RoleCashier)},
		{Name: "Jane Kitchen", PIN: "2222", Role: string(models.RoleKitchen)},
		{Name: "Bob Bar", PIN: "3333", Role: string(models.RoleBar)},
	}
	for _, employee := range staff {
		if err := db.Create(&employee).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	menu := []models.Category{
		{
			Name: "Drinks", Color: "#3b82f6", SortOrder: 1,
			Products: []models.Product{
				{Name: "Coffee", Price: 15000, InStock: true},
				{Name: "Tea", Price: 10000, InStock: true},
				{Name: "Latte", Price: 20000, InStock: true},
				{Name: "Cappuccino", Price: 18000, InStock: true},
				{Name: "Orange Juice", Price: 12000, InStock: true},
			},
		},
		{
			Name: "Food", Color: "#ef4444", SortOrder: 2,
			Products: []models.Product{
				{Name: "Sandwich", Price: 35000, InStock: true},
				{Name: "Burger", Price: 50000, InStock: true},
				{Name: "Pizza", Price: 65000, InStock: true},
				{Name: "Salad", Price: 40000, InStock: true},
				{Name: "Pasta", Price: 55000, InStock: true},
			},
		},
		{
			Name: "Desserts", Color: "#ec4899", SortOrder: 3,
			Products: []models.Product{
				{Name: "Cake", Price: 25000, InStock: true},
				{Name: "Ice Cream", Price: 20000, InStock: true},
				{Name: "Brownie", Price: 18000, InStock: true},
			},
		},
	}
	for i := range menu {
		if err := db.Create(&menu[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTables(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tables := []models.Table{
		{Name: "T1", X: 50, Y: 50, Width: 100, Height: 100, Shape: "square"},
		{Name: "T2", X: 200, Y: 50, Width: 100, Height: 100, Shape: "square"},
		{Name: "T3", X: 350, Y: 50, Width: 100, Height: 100, Shape: "circle"},
		{Name: "T4", X: 50, Y: 200, Width: 100, Height: 100, Shape: "square"},
		{Name: "T5", X: 200, Y: 200, Width: 100, Height: 100, Shape: "circle"},
		{Name: "T6", X: 350, Y: 200, Width: 100, Height: 100, Shape: "square"},
	}
	for i := range tables {
		tables[i].Status = string(models.TableStatusAvailable)
		if err := db.Create(&tables[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

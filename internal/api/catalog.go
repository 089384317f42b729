package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMenu returns categories with their products, in menu order. This is
// what the order terminal renders.
func (s *Server) GetMenu(c *gin.Context) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategories lists categories for the admin screen.
func (s *Server) GetCategories(c *gin.Context) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a menu category.
func (s *Server) CreateCategory(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Color     string `json:"color"`
		SortOrder int    `json:"sortOrder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := s.catalog.CreateCategory(req.Name, req.Color, req.SortOrder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes an empty category.
func (s *Server) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteCategory(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// GetProducts lists all products with their category.
func (s *Server) GetProducts(c *gin.Context) {
	products, err := s.catalog.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a menu item.
func (s *Server) CreateProduct(c *gin.Context) {
	var req struct {
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		CategoryID uint    `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := s.catalog.CreateProduct(req.Name, req.Price, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// SetProductStock flips a product's availability.
func (s *Server) SetProductStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		InStock bool `json:"inStock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := s.catalog.SetProductStock(id, req.InStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the menu.
func (s *Server) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

package api

import (
	"net/http"

	"maitred/internal/pos"

	"github.com/gin-gonic/gin"
)

// GetTables returns the floor plan sorted by table name.
func (s *Server) GetTables(c *gin.Context) {
	tables, err := s.registry.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// CreateTable adds a table to the floor plan.
func (s *Server) CreateTable(c *gin.Context) {
	var in pos.CreateTableInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := s.registry.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// UpdateTablePosition persists a drag on the floor editor.
func (s *Server) UpdateTablePosition(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := s.registry.UpdatePosition(id, req.X, req.Y)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTableStatus is the manual status override (e.g. RESERVED).
func (s *Server) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := s.registry.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeleteTable removes a table; refused while it has an open order.
func (s *Server) DeleteTable(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.registry.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}

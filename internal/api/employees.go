package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetEmployees lists staff, newest first. PINs are never serialized.
func (s *Server) GetEmployees(c *gin.Context) {
	employees, err := s.staff.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// CreateEmployee adds a staff member with a login PIN.
func (s *Server) CreateEmployee(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		PIN  string `json:"pin"`
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employee, err := s.staff.Create(req.Name, req.PIN, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// DeleteEmployee removes a staff member.
func (s *Server) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.staff.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

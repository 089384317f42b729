package api

import (
	"net/http"
	"strconv"

	"maitred/internal/pos"

	"github.com/gin-gonic/gin"
)

// CreateOrder submits the terminal's cart as a new order. The optional
// idempotency key makes retries safe after a dropped connection.
func (s *Server) CreateOrder(c *gin.Context) {
	var in pos.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		in.IdempotencyKey = key
	}

	order, err := s.coordinator.CreateOrder(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetActiveOrders returns all open orders, oldest first.
func (s *Server) GetActiveOrders(c *gin.Context) {
	orders, err := s.coordinator.GetActiveOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with items, products and table.
func (s *Server) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := s.coordinator.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetTableOrders returns the open orders seated at a table.
func (s *Server) GetTableOrders(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	orders, err := s.coordinator.GetOrdersByTable(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CompleteOrder settles the bill and frees the table.
func (s *Server) CompleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := s.coordinator.CompleteOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder voids an open order and frees the table.
func (s *Server) CancelOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := s.coordinator.CancelOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// MoveOrder reseats an open order at another table.
func (s *Server) MoveOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		TableID uint `json:"tableId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := s.coordinator.MoveOrderToTable(id, req.TableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// SplitBill moves selected items onto a new order, optionally at another
// table. Responds with the new order.
func (s *Server) SplitBill(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		ItemIDs []uint `json:"itemIds"`
		TableID *uint  `json:"tableId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := s.coordinator.SplitBill(id, req.ItemIDs, req.TableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateItemStatus advances an item along the kitchen state machine.
func (s *Server) UpdateItemStatus(c *gin.Context) {
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
	item, err := s.coordinator.UpdateItemStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// paramID parses the :id path parameter; on failure it answers 400 and
// returns false.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

package api

import (
	"net/http"

	"maitred/internal/kitchen"

	"github.com/gin-gonic/gin"
)

// GetKitchenQueue returns the ticket queue for the kitchen display.
// ?filter=ALL|PENDING|COOKING narrows it to orders with work in that
// state.
func (s *Server) GetKitchenQueue(c *gin.Context) {
	filter := c.DefaultQuery("filter", string(kitchen.FilterAll))
	if !kitchen.ValidFilter(filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter"})
		return
	}

	tickets, err := s.queue.Build(kitchen.Filter(filter))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSalesReport aggregates completed orders, optionally bounded by
// ?start=...&end=... (RFC 3339 or YYYY-MM-DD). Both bounds or neither.
func (s *Server) GetSalesReport(c *gin.Context) {
	var start, end *time.Time
	startParam := c.Query("start")
	endParam := c.Query("end")
	if (startParam == "") != (endParam == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be given together"})
		return
	}
	if startParam != "" {
		from, err := parseDate(startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
		to, err := parseDate(endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
		start, end = &from, &to
	}

	report, err := s.reporter.Sales(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTodayStats reports over the current local day.
func (s *Server) GetTodayStats(c *gin.Context) {
	report, err := s.reporter.Today()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

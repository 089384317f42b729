// Package api exposes the POS over HTTP: JSON endpoints for the order
// terminal, floor plan, kitchen display, admin screens and reports, plus
// the WebSocket feed.
package api

import (
	"errors"
	"net/http"
	"time"

	"maitred/internal/events"
	"maitred/internal/kitchen"
	"maitred/internal/monitoring"
	"maitred/internal/pos"

	"github.com/gin-gonic/gin"
)

// Server wires the gin router to the POS services.
type Server struct {
	router      *gin.Engine
	coordinator *pos.Coordinator
	registry    *pos.TableRegistry
	catalog     *pos.Catalog
	staff       *pos.Staff
	reporter    *pos.Reporter
	queue       *kitchen.Queue
	hub         *events.Hub
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// Options carries the dependencies for a server.
type Options struct {
	Coordinator *pos.Coordinator
	Registry    *pos.TableRegistry
	Catalog     *pos.Catalog
	Staff       *pos.Staff
	Reporter    *pos.Reporter
	Queue       *kitchen.Queue
	Hub         *events.Hub
	Monitor     *monitoring.Monitor
	JWTSecret   string
	TokenTTL    time.Duration
}

// NewServer creates the API server and registers all routes.
func NewServer(opts Options) *Server {
	router := gin.Default()

	s := &Server{
		router:      router,
		coordinator: opts.Coordinator,
		registry:    opts.Registry,
		catalog:     opts.Catalog,
		staff:       opts.Staff,
		reporter:    opts.Reporter,
		queue:       opts.Queue,
		hub:         opts.Hub,
		jwtSecret:   []byte(opts.JWTSecret),
		tokenTTL:    opts.TokenTTL,
	}
	if s.tokenTTL == 0 {
		s.tokenTTL = 12 * time.Hour
	}
	if opts.Monitor != nil {
		router.Use(opts.Monitor.Middleware())
	}

	s.setupRoutes()
	return s
}

// Router returns the gin router, for serving and for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Event feed for kitchen displays and POS terminals
	if s.hub != nil {
		s.router.GET("/ws", s.hub.HandleWS)
	}

	s.router.POST("/api/v1/auth/login", s.Login)

	v1 := s.router.Group("/api/v1")
	v1.Use(s.AuthMiddleware())
	{
		// Order terminal
		v1.GET("/menu", s.GetMenu)
		v1.GET("/tables", s.GetTables)
		v1.GET("/tables/:id/orders", s.GetTableOrders)
		v1.POST("/orders", s.CreateOrder)
		v1.GET("/orders", s.GetActiveOrders)
		v1.GET("/orders/:id", s.GetOrder)
		v1.POST("/orders/:id/complete", s.CompleteOrder)
		v1.POST("/orders/:id/cancel", s.CancelOrder)
		v1.POST("/orders/:id/move", s.MoveOrder)
		v1.POST("/orders/:id/split", s.SplitBill)

		// Kitchen display
		v1.GET("/kitchen/queue", s.GetKitchenQueue)
		v1.PUT("/items/:id/status", s.UpdateItemStatus)
	}

	admin := s.router.Group("/api/v1")
	admin.Use(s.AuthMiddleware(), s.RequireRole("ADMIN", "MANAGER"))
	{
		// Floor plan administration
		admin.POST("/tables", s.CreateTable)
		admin.PUT("/tables/:id/position", s.UpdateTablePosition)
		admin.PUT("/tables/:id/status", s.UpdateTableStatus)
		admin.DELETE("/tables/:id", s.DeleteTable)

		// Menu administration
		admin.GET("/categories", s.GetCategories)
		admin.POST("/categories", s.CreateCategory)
		admin.DELETE("/categories/:id", s.DeleteCategory)
		admin.GET("/products", s.GetProducts)
		admin.POST("/products", s.CreateProduct)
		admin.PUT("/products/:id/stock", s.SetProductStock)
		admin.DELETE("/products/:id", s.DeleteProduct)

		// Staff administration
		admin.GET("/employees", s.GetEmployees)
		admin.POST("/employees", s.CreateEmployee)
		admin.DELETE("/employees/:id", s.DeleteEmployee)

		// Reporting
		admin.GET("/reports/sales", s.GetSalesReport)
		admin.GET("/reports/today", s.GetTodayStats)
	}
}

// respondError maps the pos error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pos.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pos.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, pos.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

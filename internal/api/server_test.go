package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"maitred/internal/database"
	"maitred/internal/events"
	"maitred/internal/kitchen"
	"maitred/internal/models"
	"maitred/internal/pos"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	server *Server
	db     *gorm.DB

	coffee models.Product
	burger models.Product
	t1     models.Table
	t2     models.Table
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	staff := pos.NewStaff(db)
	_, err = staff.Create("Admin", "1234", string(models.RoleAdmin))
	require.NoError(t, err)
	_, err = staff.Create("Cashier", "1111", string(models.RoleCashier))
	require.NoError(t, err)

	f := &serverFixture{db: db}

	drinks := models.Category{Name: "Drinks", SortOrder: 1}
	require.NoError(t, db.Create(&drinks).Error)
	food := models.Category{Name: "Food", SortOrder: 2}
	require.NoError(t, db.Create(&food).Error)
	f.coffee = models.Product{Name: "Coffee", Price: 15000, CategoryID: drinks.ID, InStock: true}
	require.NoError(t, db.Create(&f.coffee).Error)
	f.burger = models.Product{Name: "Burger", Price: 50000, CategoryID: food.ID, InStock: true}
	require.NoError(t, db.Create(&f.burger).Error)
	f.t1 = models.Table{Name: "T1", Status: string(models.TableStatusAvailable)}
	require.NoError(t, db.Create(&f.t1).Error)
	f.t2 = models.Table{Name: "T2", Status: string(models.TableStatusAvailable)}
	require.NoError(t, db.Create(&f.t2).Error)

	coordinator := pos.NewCoordinator(db, nil, nil)
	f.server = NewServer(Options{
		Coordinator: coordinator,
		Registry:    pos.NewTableRegistry(db),
		Catalog:     pos.NewCatalog(db),
		Staff:       staff,
		Reporter:    pos.NewReporter(db),
		Queue:       kitchen.NewQueue(coordinator),
		Hub:         events.NewHub(),
		JWTSecret:   "test-secret",
	})
	return f
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func (f *serverFixture) login(t *testing.T, pin string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"pin": pin})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsUnknownPIN(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Failed logins must not reveal whether the PIN exists.
	assert.Contains(t, w.Body.String(), "invalid PIN")
}

func TestAuthRequired(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuardOnAdminRoutes(t *testing.T) {
	f := newServerFixture(t)
	cashier := f.login(t, "1111")
	admin := f.login(t, "1234")

	w := f.do(t, http.MethodPost, "/api/v1/tables", cashier, gin.H{"name": "T9"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/tables", admin, gin.H{"name": "T9"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := newServerFixture(t)
	token := f.login(t, "1111")

	w := f.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{
		"tableId": f.t1.ID,
		"items": []gin.H{
			{"productId": f.coffee.ID, "quantity": 3, "price": 15000},
			{"productId": f.burger.ID, "quantity": 1, "price": 50000},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, float64(95000), order.TotalAmount)
	require.Len(t, order.Items, 2)

	// The kitchen sees the ticket.
	w = f.do(t, http.MethodGet, "/api/v1/kitchen/queue", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []kitchen.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, "T1", tickets[0].TableName)

	// Advance one item through the state machine.
	itemID := order.Items[0].ID
	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/items/%d/status", itemID), token, gin.H{"status": "COOKING"})
	require.Equal(t, http.StatusOK, w.Code)

	// A skipped step is a client error.
	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/items/%d/status", itemID), token, gin.H{"status": "SERVED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Settle the bill.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/complete", order.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Completing twice conflicts.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/complete", order.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	assert.Empty(t, open)
}

func TestCreateOrderOnOccupiedTableConflicts(t *testing.T) {
	f := newServerFixture(t)
	token := f.login(t, "1111")

	body := gin.H{
		"tableId": f.t1.ID,
		"items":   []gin.H{{"productId": f.coffee.ID, "quantity": 1, "price": 15000}},
	}
	w := f.do(t, http.MethodPost, "/api/v1/orders", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/orders", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotencyKeyHeader(t *testing.T) {
	f := newServerFixture(t)
	token := f.login(t, "1111")

	body := gin.H{"items": []gin.H{{"productId": f.coffee.ID, "quantity": 1, "price": 15000}}}

	first := httptest.NewRecorder()
	second := httptest.NewRecorder()
	for _, w := range []*httptest.ResponseRecorder{first, second} {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "terminal-1-retry")
		f.server.Router().ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var a, b models.Order
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.ID, b.ID)
}

func TestErrorMapping(t *testing.T) {
	f := newServerFixture(t)
	token := f.login(t, "1111")

	w := f.do(t, http.MethodGet, "/api/v1/orders/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/orders/nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/kitchen/queue?filter=BURNT", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveAndSplitOverHTTP(t *testing.T) {
	f := newServerFixture(t)
	token := f.login(t, "1111")

	w := f.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{
		"tableId": f.t1.ID,
		"items": []gin.H{
			{"productId": f.coffee.ID, "quantity": 3, "price": 15000},
			{"productId": f.burger.ID, "quantity": 1, "price": 50000},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/move", order.ID), token, gin.H{"tableId": f.t2.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var moved models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	require.NotNil(t, moved.TableID)
	assert.Equal(t, f.t2.ID, *moved.TableID)

	// Split the burger onto its own bill back at T1.
	var burgerItem uint
	for _, item := range order.Items {
		if item.ProductID == f.burger.ID {
			burgerItem = item.ID
		}
	}
	require.NotZero(t, burgerItem)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/split", order.ID), token, gin.H{
		"itemIds": []uint{burgerItem},
		"tableId": f.t1.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var split models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &split))
	assert.Equal(t, float64(50000), split.TotalAmount)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var remaining models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &remaining))
	assert.Equal(t, float64(45000), remaining.TotalAmount)
}

func TestSalesReportEndpoints(t *testing.T) {
	f := newServerFixture(t)
	cashier := f.login(t, "1111")
	admin := f.login(t, "1234")

	w := f.do(t, http.MethodPost, "/api/v1/orders", cashier, gin.H{
		"items": []gin.H{{"productId": f.coffee.ID, "quantity": 1, "price": 15000}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/complete", order.ID), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/reports/today", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report pos.SalesReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, float64(15000), report.TotalRevenue)
	assert.Equal(t, 1, report.TotalOrders)

	// Bounds must come as a pair.
	w = f.do(t, http.MethodGet, "/api/v1/reports/sales?start=2026-01-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/reports/sales?start=2000-01-01&end=2000-01-02", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Zero(t, report.TotalOrders)
}

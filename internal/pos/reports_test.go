package pos

import (
	"testing"
	"time"

	"maitred/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesReportEmpty(t *testing.T) {
	db := newTestDB(t)
	r := NewReporter(db)

	report, err := r.Sales(nil, nil)
	require.NoError(t, err)

	assert.Zero(t, report.TotalRevenue)
	assert.Zero(t, report.TotalOrders)
	assert.Empty(t, report.CategoryStats)
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.Orders)
}

func TestSalesReportAggregates(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	c := NewCoordinator(db, nil, nil)
	r := NewReporter(db)

	// Two completed orders, one open, one cancelled.
	first, err := c.CreateOrder(CreateOrderInput{
		TableID: &f.t1.ID,
		Items: []LineItem{
			{ProductID: f.coffee.ID, Quantity: 2, Price: 15000},
			{ProductID: f.burger.ID, Quantity: 1, Price: 50000},
		},
	})
	require.NoError(t, err)
	_, err = c.CompleteOrder(first.ID)
	require.NoError(t, err)

	second, err := c.CreateOrder(CreateOrderInput{
		Items: []LineItem{{ProductID: f.coffee.ID, Quantity: 1, Price: 15000}},
	})
	require.NoError(t, err)
	_, err = c.CompleteOrder(second.ID)
	require.NoError(t, err)

	_, err = c.CreateOrder(CreateOrderInput{
		Items: []LineItem{{ProductID: f.burger.ID, Quantity: 5, Price: 50000}},
	})
	require.NoError(t, err)

	voided, err := c.CreateOrder(CreateOrderInput{
		Items: []LineItem{{ProductID: f.burger.ID, Quantity: 9, Price: 50000}},
	})
	require.NoError(t, err)
	_, err = c.CancelOrder(voided.ID)
	require.NoError(t, err)

	report, err := r.Sales(nil, nil)
	require.NoError(t, err)

	// Only the two completed orders count: 80000 + 15000.
	assert.Equal(t, float64(95000), report.TotalRevenue)
	assert.Equal(t, 2, report.TotalOrders)

	byName := map[string]GroupStat{}
	for _, stat := range report.CategoryStats {
		byName[stat.Name] = stat
	}
	assert.Equal(t, float64(50000), byName["Food"].Revenue)
	assert.Equal(t, 1, byName["Food"].Count)
	assert.Equal(t, float64(45000), byName["Drinks"].Revenue)
	assert.Equal(t, 3, byName["Drinks"].Count)

	require.NotEmpty(t, report.TopProducts)
	assert.Equal(t, "Burger", report.TopProducts[0].Name)
	assert.Equal(t, float64(50000), report.TopProducts[0].Revenue)

	// Newest completed order first.
	require.Len(t, report.Orders, 2)
	assert.Equal(t, second.ID, report.Orders[0].ID)
}

func TestSalesReportDateBounds(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	c := NewCoordinator(db, nil, nil)
	r := NewReporter(db)

	order, err := c.CreateOrder(CreateOrderInput{
		Items: []LineItem{{ProductID: f.coffee.ID, Quantity: 1, Price: 15000}},
	})
	require.NoError(t, err)
	_, err = c.CompleteOrder(order.ID)
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	longPast := past.Add(-24 * time.Hour)
	report, err := r.Sales(&longPast, &past)
	require.NoError(t, err)
	assert.Zero(t, report.TotalOrders)

	today, err := r.Today()
	require.NoError(t, err)
	assert.Equal(t, 1, today.TotalOrders)
	assert.Equal(t, float64(15000), today.TotalRevenue)
}

func TestSalesReportSurvivesDeletedProduct(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	c := NewCoordinator(db, nil, nil)
	r := NewReporter(db)

	order, err := c.CreateOrder(CreateOrderInput{
		Items: []LineItem{{ProductID: f.coffee.ID, Quantity: 2, Price: 15000}},
	})
	require.NoError(t, err)
	_, err = c.CompleteOrder(order.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Product{}, f.coffee.ID).Error)

	report, err := r.Sales(nil, nil)
	require.NoError(t, err)

	// Revenue comes from the order snapshot; the deleted product just
	// drops out of the per-product breakdown.
	assert.Equal(t, float64(30000), report.TotalRevenue)
	assert.Equal(t, 1, report.TotalOrders)
	assert.Empty(t, report.TopProducts)
}

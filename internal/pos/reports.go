package pos

import (
	"sort"
	"time"

	"maitred/internal/models"

	"github.com/jinzhu/gorm"
)

// Reporter is the read-only fold over completed orders. It never mutates
// anything, so it is safe to call repeatedly and concurrently.
type Reporter struct {
	db *gorm.DB
}

// NewReporter creates a reporter over the given database.
func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// GroupStat is revenue and unit count for one category or product.
type GroupStat struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// SalesReport is the aggregate over a set of completed orders.
type SalesReport struct {
	TotalRevenue  float64        `json:"totalRevenue"`
	TotalOrders   int            `json:"totalOrders"`
	CategoryStats []GroupStat    `json:"categoryStats"`
	TopProducts   []GroupStat    `json:"topProducts"`
	Orders        []models.Order `json:"orders"`
}

// Sales builds the report over COMPLETED orders, optionally bounded by
// creation time. Nil bounds mean all time. Orders come back newest first.
func (r *Reporter) Sales(start, end *time.Time) (*SalesReport, error) {
	query := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Table").
		Where("status = ?", string(models.OrderStatusCompleted))
	if start != nil && end != nil {
		query = query.Where("created_at >= ? AND created_at < ?", *start, *end)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &SalesReport{
		TotalOrders:   len(orders),
		CategoryStats: []GroupStat{},
		TopProducts:   []GroupStat{},
		Orders:        orders,
	}

	categories := make(map[string]*GroupStat)
	products := make(map[string]*GroupStat)
	for _, order := range orders {
		report.TotalRevenue += order.TotalAmount
		for _, item := range order.Items {
			if item.Product == nil {
				continue // product deleted since the order closed
			}
			revenue := item.Price * float64(item.Quantity)

			if item.Product.Category != nil {
				accumulate(categories, item.Product.Category.Name, revenue, item.Quantity)
			}
			accumulate(products, item.Product.Name, revenue, item.Quantity)
		}
	}

	for _, stat := range categories {
		report.CategoryStats = append(report.CategoryStats, *stat)
	}
	sort.Slice(report.CategoryStats, func(i, j int) bool {
		return report.CategoryStats[i].Revenue > report.CategoryStats[j].Revenue
	})

	for _, stat := range products {
		report.TopProducts = append(report.TopProducts, *stat)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
	})
	if len(report.TopProducts) > 10 {
		report.TopProducts = report.TopProducts[:10]
	}

	return report, nil
}

// Today reports over [local midnight, next midnight).
func (r *Reporter) Today() (*SalesReport, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := midnight.AddDate(0, 0, 1)
	return r.Sales(&midnight, &tomorrow)
}

func accumulate(stats map[string]*GroupStat, name string, revenue float64, quantity int) {
	stat, ok := stats[name]
	if !ok {
		stat = &GroupStat{Name: name}
		stats[name] = stat
	}
	stat.Revenue += revenue
	stat.Count += quantity
}

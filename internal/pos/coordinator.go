package pos

import (
	"fmt"
	"time"

	"maitred/internal/events"
	"maitred/internal/models"
	"maitred/internal/monitoring"

	"github.com/jinzhu/gorm"
)

// Coordinator owns the order lifecycle and its coupling to table
// occupancy. Every multi-row mutation runs in a single transaction, and
// every table status transition is a compare-and-swap: a table is only
// occupied if it is currently AVAILABLE.
type Coordinator struct {
	db      *gorm.DB
	bus     events.Publisher
	monitor *monitoring.Monitor
}

// NewCoordinator creates a coordinator. bus may be nil when no listeners
// are wired (tests); monitor may be nil likewise.
func NewCoordinator(db *gorm.DB, bus events.Publisher, monitor *monitoring.Monitor) *Coordinator {
	return &Coordinator{db: db, bus: bus, monitor: monitor}
}

// LineItem is one requested product line when creating an order. Price is
// the snapshot the terminal took from the menu; it is stored as-is and
// never re-read from the product.
type LineItem struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Notes     string  `json:"notes"`
	Modifiers string  `json:"modifiers"`
}

// CreateOrderInput carries everything needed to open an order. TableID is
// nil for takeout. IdempotencyKey, when set, makes the call safe to retry:
// a repeated key returns the order created by the first attempt.
type CreateOrderInput struct {
	TableID        *uint      `json:"tableId"`
	Items          []LineItem `json:"items"`
	IdempotencyKey string     `json:"idempotencyKey"`
}

// CreateOrder opens a new OPEN order with the given items (all PENDING)
// and, when a table is named, claims it AVAILABLE -> OCCUPIED.
func (c *Coordinator) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
		}
	}

	if in.IdempotencyKey != "" {
		var existing models.Order
		err := c.db.Where("idempotency_key = ?", in.IdempotencyKey).First(&existing).Error
		if err == nil {
			return c.GetOrder(existing.ID)
		}
		if !gorm.IsRecordNotFoundError(err) {
			return nil, err
		}
	}

	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.RollbackUnlessCommitted()

	for _, item := range in.Items {
		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
			}
			return nil, err
		}
	}

	if in.TableID != nil {
		if err := occupyTable(tx, *in.TableID); err != nil {
			return nil, err
		}
	}

	number, err := nextOrderNumber(tx)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber: number,
		TableID:     in.TableID,
		Status:      string(models.OrderStatusOpen),
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}
	var total float64
	for _, item := range in.Items {
		total += item.Price * float64(item.Quantity)
	}
	order.TotalAmount = total

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		row := models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Status:    string(models.ItemStatusPending),
			Notes:     item.Notes,
			Modifiers: item.Modifiers,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	created, err := c.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}
	c.monitor.RecordOrderCreated()
	c.publish(events.TypeOrderCreated, created)
	return created, nil
}

// GetOrder returns one order with its items, products and table.
func (c *Coordinator) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := c.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Table").
		First(&order, orderID).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// GetActiveOrders returns all OPEN orders, oldest first, so the kitchen
// works them in arrival order.
func (c *Coordinator) GetActiveOrders() ([]models.Order, error) {
	var orders []models.Order
	err := c.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Table").
		Where("status = ?", string(models.OrderStatusOpen)).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// GetOrdersByTable returns the OPEN orders seated at a table, used to
// resume an in-progress order when the waiter reopens it.
func (c *Coordinator) GetOrdersByTable(tableID uint) ([]models.Order, error) {
	var orders []models.Order
	err := c.db.
		Preload("Items").
		Preload("Items.Product").
		Where("table_id = ? AND status = ?", tableID, string(models.OrderStatusOpen)).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// UpdateItemStatus advances one item along PENDING -> COOKING -> READY ->
// SERVED. Unknown statuses are rejected as invalid input, anything but the
// single forward step as a conflict.
func (c *Coordinator) UpdateItemStatus(itemID uint, status string) (*models.OrderItem, error) {
	if !models.ValidItemStatus(status) {
		return nil, fmt.Errorf("unknown item status %q: %w", status, ErrInvalidInput)
	}

	var item models.OrderItem
	if err := c.db.First(&item, itemID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	if !models.CanTransition(models.ItemStatus(item.Status), models.ItemStatus(status)) {
		return nil, fmt.Errorf("item cannot go from %s to %s: %w", item.Status, status, ErrConflict)
	}

	// Guarded on the status we read, so two displays racing on the same
	// item cannot both win.
	res := c.db.Model(&models.OrderItem{}).
		Where("id = ? AND status = ?", itemID, item.Status).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("item %d changed concurrently: %w", itemID, ErrConflict)
	}

	item.Status = status
	c.monitor.RecordItemTransition(status)
	c.publish(events.TypeItemStatusChanged, map[string]interface{}{
		"itemId":  item.ID,
		"orderId": item.OrderID,
		"status":  item.Status,
	})
	return &item, nil
}

// CompleteOrder closes an OPEN order and frees its table, both in one
// transaction.
func (c *Coordinator) CompleteOrder(orderID uint) (*models.Order, error) {
	order, err := c.closeOrder(orderID, models.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	c.monitor.RecordOrderCompleted(order.TotalAmount)
	c.publish(events.TypeOrderCompleted, order)
	return order, nil
}

// CancelOrder voids an OPEN order and frees its table. Cancelled orders
// keep their rows but never count toward reports.
func (c *Coordinator) CancelOrder(orderID uint) (*models.Order, error) {
	order, err := c.closeOrder(orderID, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	c.monitor.RecordOrderCancelled()
	c.publish(events.TypeOrderUpdated, order)
	return order, nil
}

func (c *Coordinator) closeOrder(orderID uint, to models.OrderStatus) (*models.Order, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.RollbackUnlessCommitted()

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.Status != string(models.OrderStatusOpen) {
		return nil, fmt.Errorf("order #%d is already %s: %w", order.OrderNumber, order.Status, ErrConflict)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       string(to),
		"completed_at": &now,
	}
	if err := tx.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	if order.TableID != nil {
		if err := freeTable(tx, *order.TableID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return c.GetOrder(orderID)
}

// MoveOrderToTable reseats an OPEN order: the old table is freed, the
// order re-pointed and the new table claimed, atomically. The new table
// must be AVAILABLE.
func (c *Coordinator) MoveOrderToTable(orderID, newTableID uint) (*models.Order, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.RollbackUnlessCommitted()

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.Status != string(models.OrderStatusOpen) {
		return nil, fmt.Errorf("order #%d is %s: %w", order.OrderNumber, order.Status, ErrConflict)
	}
	if order.TableID != nil && *order.TableID == newTableID {
		return nil, fmt.Errorf("order #%d is already at table %d: %w", order.OrderNumber, newTableID, ErrInvalidInput)
	}

	if order.TableID != nil {
		if err := freeTable(tx, *order.TableID); err != nil {
			return nil, err
		}
	}
	if err := tx.Model(&order).Update("table_id", newTableID).Error; err != nil {
		return nil, err
	}
	if err := occupyTable(tx, newTableID); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	moved, err := c.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	c.publish(events.TypeOrderUpdated, moved)
	return moved, nil
}

// SplitBill moves the named items off an OPEN order onto a fresh order.
// The moved items keep their product, quantity, price snapshot, kitchen
// status, notes and modifiers but get fresh identity. The two totals
// always sum to the original total. When newTableID names a different
// table, it is claimed for the new order.
func (c *Coordinator) SplitBill(orderID uint, itemIDs []uint, newTableID *uint) (*models.Order, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("no items selected: %w", ErrInvalidInput)
	}

	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.RollbackUnlessCommitted()

	var original models.Order
	if err := tx.Preload("Items").First(&original, orderID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if original.Status != string(models.OrderStatusOpen) {
		return nil, fmt.Errorf("order #%d is %s: %w", original.OrderNumber, original.Status, ErrConflict)
	}

	wanted := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var split []models.OrderItem
	for _, item := range original.Items {
		if wanted[item.ID] {
			split = append(split, item)
			delete(wanted, item.ID)
		}
	}
	if len(wanted) > 0 {
		return nil, fmt.Errorf("some items do not belong to order #%d: %w", original.OrderNumber, ErrInvalidInput)
	}
	if len(split) == len(original.Items) {
		return nil, fmt.Errorf("cannot split away every item of order #%d: %w", original.OrderNumber, ErrInvalidInput)
	}

	splitTotal := models.ItemsTotal(split)
	remainingTotal := original.TotalAmount - splitTotal

	targetTable := original.TableID
	if newTableID != nil {
		if original.TableID == nil || *newTableID != *original.TableID {
			if err := occupyTable(tx, *newTableID); err != nil {
				return nil, err
			}
		}
		targetTable = newTableID
	}

	number, err := nextOrderNumber(tx)
	if err != nil {
		return nil, err
	}
	newOrder := models.Order{
		OrderNumber: number,
		TableID:     targetTable,
		Status:      string(models.OrderStatusOpen),
		TotalAmount: splitTotal,
	}
	if err := tx.Create(&newOrder).Error; err != nil {
		return nil, err
	}
	for _, item := range split {
		moved := models.OrderItem{
			OrderID:   newOrder.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Status:    item.Status,
			Notes:     item.Notes,
			Modifiers: item.Modifiers,
		}
		if err := tx.Create(&moved).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Where("id IN (?)", itemIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&original).Update("total_amount", remainingTotal).Error; err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	created, err := c.GetOrder(newOrder.ID)
	if err != nil {
		return nil, err
	}
	if updated, err := c.GetOrder(orderID); err == nil {
		c.publish(events.TypeOrderUpdated, updated)
	}
	c.publish(events.TypeOrderCreated, created)
	return created, nil
}

func (c *Coordinator) publish(t events.Type, payload interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.New(t, payload))
}

// occupyTable claims a table for an order. The WHERE clause is the
// compare-and-swap: zero rows affected means the table is missing or not
// AVAILABLE, and the two cases are told apart afterwards.
func occupyTable(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, string(models.TableStatusAvailable)).
		Update("status", string(models.TableStatusOccupied))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return fmt.Errorf("table %d: %w", tableID, ErrNotFound)
			}
			return err
		}
		return fmt.Errorf("table %q is %s: %w", table.Name, table.Status, ErrConflict)
	}
	return nil
}

func freeTable(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Update("status", string(models.TableStatusAvailable)).Error
}

// nextOrderNumber hands out sequential ticket numbers. MAX+1 inside the
// transaction; cancelled and soft-deleted orders keep their numbers.
func nextOrderNumber(tx *gorm.DB) (int, error) {
	var current struct{ N int }
	err := tx.Table("orders").
		Select("coalesce(max(order_number), 0) as n").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current.N + 1, nil
}

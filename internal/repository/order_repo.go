package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// OrderRepository persists order documents. The JSON document is the
// source of truth; the indexed columns are derived from it on every write.
type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(tx *sql.Tx, order *entity.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	document, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	query := `
		INSERT INTO orders (id, invoice_number, status, start_date, end_date, allocated, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.exec(tx, query,
		order.ID,
		order.OrderDetails.InvoiceNumber,
		order.InvoiceStatus,
		order.OrderDetails.StartDate,
		order.OrderDetails.EndDate,
		boolToInt(order.Allocation != nil),
		string(document),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.String("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// Update rewrites an order document and its derived columns.
func (r *OrderRepository) Update(tx *sql.Tx, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	document, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	query := `
		UPDATE orders
		SET invoice_number = ?, status = ?, start_date = ?, end_date = ?, allocated = ?, document = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.exec(tx, query,
		order.OrderDetails.InvoiceNumber,
		order.InvoiceStatus,
		order.OrderDetails.StartDate,
		order.OrderDetails.EndDate,
		boolToInt(order.Allocation != nil),
		string(document),
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update order", zap.String("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("order not found: %s", order.ID)
	}

	return nil
}

// GetByID returns an order by ID, or nil when it does not exist.
func (r *OrderRepository) GetByID(id string) (*entity.Order, error) {
	return r.getByID(nil, id)
}

// GetByIDTx reads an order inside a transaction. Completion uses this for
// the optimistic status re-check before committing an allocation.
func (r *OrderRepository) GetByIDTx(tx *sql.Tx, id string) (*entity.Order, error) {
	return r.getByID(tx, id)
}

func (r *OrderRepository) getByID(tx *sql.Tx, id string) (*entity.Order, error) {
	query := `SELECT document FROM orders WHERE id = ?`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRow(query, id)
	} else {
		row = r.db.QueryRow(query, id)
	}

	var document string
	err := row.Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return unmarshalOrder(document)
}

// List returns orders newest first.
func (r *OrderRepository) List(limit, offset int) ([]*entity.Order, error) {
	query := `SELECT document FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListAllocated returns every order with a committed allocation. The
// monthly report filters by year in memory; allocated orders number in the
// hundreds per year at most.
func (r *OrderRepository) ListAllocated() ([]*entity.Order, error) {
	query := `SELECT document FROM orders WHERE allocated = 1 ORDER BY updated_at`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list allocated orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list allocated orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *OrderRepository) exec(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
	if tx != nil {
		return tx.Exec(query, args...)
	}
	return r.db.Exec(query, args...)
}

func scanOrders(rows *sql.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order, err := unmarshalOrder(document)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func unmarshalOrder(document string) (*entity.Order, error) {
	var order entity.Order
	if err := json.Unmarshal([]byte(document), &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order document: %w", err)
	}
	return &order, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

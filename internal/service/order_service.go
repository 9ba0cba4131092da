package service

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/billing"
	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// DefaultIntakeStatus is the status new orders start in.
const DefaultIntakeStatus = "intake"

// OrderService owns order intake and the totals preview the invoice screen
// shows.
type OrderService struct {
	orders    OrderStore
	rates     RateSource
	tx        Transactor
	totalsCfg billing.TotalsConfig
	defRate   float64
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderStore,
	rates RateSource,
	tx Transactor,
	totalsCfg billing.TotalsConfig,
	defaultInternalRate float64,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		rates:     rates,
		tx:        tx,
		totalsCfg: totalsCfg,
		defRate:   defaultInternalRate,
		logger:    logger,
	}
}

// Create stores a new order. Missing IDs and statuses get defaults; the
// running paid total is reconciled with the payment history on the way in.
func (s *OrderService) Create(order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.InvoiceStatus == "" {
		order.InvoiceStatus = DefaultIntakeStatus
	}
	// The history is the ledger. A client-supplied running total is never
	// trusted, so an order posted with no history starts at zero paid.
	order.PaymentData.AmountPaid = entity.Flex(order.PaymentData.HistoryTotal())

	err := s.tx.WithTransaction(func(tx *sql.Tx) error {
		return s.orders.Create(tx, order)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("invoice_number", order.OrderDetails.InvoiceNumber))
	return nil
}

// Get returns an order by ID.
func (s *OrderService) Get(id string) (*entity.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return order, nil
}

// List returns a page of orders, newest first.
func (s *OrderService) List(limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(limit, offset)
}

// PreviewTotals computes the invoice totals for an order with the current
// tax-rate table.
func (s *OrderService) PreviewTotals(id string) (*billing.Totals, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	table, err := s.rateTable()
	if err != nil {
		return nil, err
	}

	totals := billing.ComputeTotals(order, table, s.totalsCfg)
	return &totals, nil
}

func (s *OrderService) rateTable() (billing.RateTable, error) {
	rates, err := s.rates.LoadRates()
	if err != nil {
		return billing.RateTable{}, err
	}
	return billing.NewRateTable(rates, s.defRate), nil
}

package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// PaymentService appends payment records. The history is the ledger;
// AmountPaid is recomputed from it on every append so the two can never
// drift. Refunds are negative records, which is how a paid order gets back
// to zero before it can be cancelled.
type PaymentService struct {
	orders OrderStore
	status StatusStore
	tx     Transactor
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(orders OrderStore, status StatusStore, tx Transactor, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		orders: orders,
		status: status,
		tx:     tx,
		logger: logger,
	}
}

// RecordPayment appends a payment to an order's history and returns the
// updated order.
func (s *PaymentService) RecordPayment(orderID string, amount float64, note string) (*entity.Order, error) {
	if amount == 0 {
		return nil, ErrZeroPayment
	}

	var updated *entity.Order
	err := s.tx.WithTransaction(func(tx *sql.Tx) error {
		order, err := s.orders.GetByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}

		def, err := s.status.GetByCode(order.InvoiceStatus)
		if err != nil {
			return err
		}
		if def != nil && def.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrOrderTerminal, orderID)
		}

		order.PaymentData.History = append(order.PaymentData.History, entity.PaymentRecord{
			ID:     uuid.NewString(),
			Amount: amount,
			Date:   time.Now(),
			Note:   note,
		})
		order.PaymentData.AmountPaid = entity.Flex(order.PaymentData.HistoryTotal())

		if err := s.orders.Update(tx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("order_id", orderID),
		zap.Float64("amount", amount),
		zap.Float64("amount_paid", updated.PaymentData.AmountPaid.Value))
	return updated, nil
}

package service

import (
	"database/sql"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// OrderStore is what the services need from order persistence.
type OrderStore interface {
	Create(tx *sql.Tx, order *entity.Order) error
	Update(tx *sql.Tx, order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetByIDTx(tx *sql.Tx, id string) (*entity.Order, error)
	List(limit, offset int) ([]*entity.Order, error)
	ListAllocated() ([]*entity.Order, error)
}

// StatusStore serves status board reference data.
type StatusStore interface {
	GetByCode(code string) (*entity.InvoiceStatusDefinition, error)
	List() ([]entity.InvoiceStatusDefinition, error)
}

// RateSource serves the material-company tax rates.
type RateSource interface {
	LoadRates() (map[string]float64, error)
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

package service

import (
	"database/sql"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// mockOrderStore implements OrderStore with function fields so each test
// plugs in only the calls it cares about.
type mockOrderStore struct {
	createFn        func(tx *sql.Tx, order *entity.Order) error
	updateFn        func(tx *sql.Tx, order *entity.Order) error
	getByIDFn       func(id string) (*entity.Order, error)
	getByIDTxFn     func(tx *sql.Tx, id string) (*entity.Order, error)
	listFn          func(limit, offset int) ([]*entity.Order, error)
	listAllocatedFn func() ([]*entity.Order, error)
}

func (m *mockOrderStore) Create(tx *sql.Tx, order *entity.Order) error {
	return m.createFn(tx, order)
}

func (m *mockOrderStore) Update(tx *sql.Tx, order *entity.Order) error {
	return m.updateFn(tx, order)
}

func (m *mockOrderStore) GetByID(id string) (*entity.Order, error) {
	return m.getByIDFn(id)
}

func (m *mockOrderStore) GetByIDTx(tx *sql.Tx, id string) (*entity.Order, error) {
	return m.getByIDTxFn(tx, id)
}

func (m *mockOrderStore) List(limit, offset int) ([]*entity.Order, error) {
	return m.listFn(limit, offset)
}

func (m *mockOrderStore) ListAllocated() ([]*entity.Order, error) {
	return m.listAllocatedFn()
}

// memOrders is a map-backed mockOrderStore for tests that want real
// read-modify-write behavior instead of canned responses.
func memOrders(orders map[string]*entity.Order) *mockOrderStore {
	get := func(id string) (*entity.Order, error) {
		return orders[id], nil
	}
	put := func(_ *sql.Tx, order *entity.Order) error {
		orders[order.ID] = order
		return nil
	}
	return &mockOrderStore{
		createFn:    put,
		updateFn:    put,
		getByIDFn:   get,
		getByIDTxFn: func(_ *sql.Tx, id string) (*entity.Order, error) { return get(id) },
	}
}

type mockStatusStore struct {
	defs map[string]entity.InvoiceStatusDefinition
}

func (m *mockStatusStore) GetByCode(code string) (*entity.InvoiceStatusDefinition, error) {
	def, ok := m.defs[code]
	if !ok {
		return nil, nil
	}
	return &def, nil
}

func (m *mockStatusStore) List() ([]entity.InvoiceStatusDefinition, error) {
	defs := make([]entity.InvoiceStatusDefinition, 0, len(m.defs))
	for _, def := range m.defs {
		defs = append(defs, def)
	}
	return defs, nil
}

// workshopStatuses is the reference data the tests run against.
func workshopStatuses() *mockStatusStore {
	return &mockStatusStore{defs: map[string]entity.InvoiceStatusDefinition{
		"intake":      {Code: "intake", Label: "Intake"},
		"in_workshop": {Code: "in_workshop", Label: "In Workshop"},
		"done":        {Code: "done", Label: "Done", IsEndState: true, EndStateType: entity.EndStateDone},
		"cancelled":   {Code: "cancelled", Label: "Cancelled", IsEndState: true, EndStateType: entity.EndStateCancelled},
	}}
}

type staticRates struct {
	rates map[string]float64
	err   error
}

func (s staticRates) LoadRates() (map[string]float64, error) {
	return s.rates, s.err
}

// fakeTx runs the function directly with a nil *sql.Tx. The map-backed
// stores ignore the handle, so the services' transactional flow runs
// unchanged.
type fakeTx struct{}

func (fakeTx) WithTransaction(fn func(*sql.Tx) error) error {
	return fn(nil)
}

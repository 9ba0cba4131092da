package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// CompanyRepository serves the material-company tax rates. Rates seeded
// from config live alongside rows the reference-data screens maintain.
type CompanyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sql.DB, logger *zap.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:     db,
		logger: logger,
	}
}

// LoadRates returns all configured company rates keyed by name.
func (r *CompanyRepository) LoadRates() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT name, tax_rate FROM material_companies`)
	if err != nil {
		r.logger.Error("Failed to load company rates", zap.Error(err))
		return nil, fmt.Errorf("failed to load company rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var name string
		var rate float64
		if err := rows.Scan(&name, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan company rate: %w", err)
		}
		rates[name] = rate
	}
	return rates, rows.Err()
}

// Upsert writes a company rate, replacing any existing one.
func (r *CompanyRepository) Upsert(tx *sql.Tx, name string, rate float64) error {
	query := `
		INSERT INTO material_companies (name, tax_rate) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET tax_rate = excluded.tax_rate
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, name, rate)
	} else {
		_, err = r.db.Exec(query, name, rate)
	}
	if err != nil {
		r.logger.Error("Failed to upsert company rate", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to upsert company rate: %w", err)
	}
	return nil
}

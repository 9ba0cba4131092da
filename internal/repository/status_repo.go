package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// StatusRepository serves the configurable status board reference data.
type StatusRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStatusRepository creates a new status repository
func NewStatusRepository(db *sql.DB, logger *zap.Logger) *StatusRepository {
	return &StatusRepository{
		db:     db,
		logger: logger,
	}
}

// GetByCode returns a status definition, or nil when the code is unknown.
func (r *StatusRepository) GetByCode(code string) (*entity.InvoiceStatusDefinition, error) {
	query := `
		SELECT code, label, color, is_end_state, end_state_type, sort_order
		FROM status_definitions
		WHERE code = ?
	`

	var def entity.InvoiceStatusDefinition
	var isEndState int
	var endStateType string

	err := r.db.QueryRow(query, code).Scan(
		&def.Code, &def.Label, &def.Color, &isEndState, &endStateType, &def.SortOrder,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get status definition", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get status definition: %w", err)
	}

	def.IsEndState = isEndState != 0
	def.EndStateType = entity.EndStateType(endStateType)
	return &def, nil
}

// List returns all status definitions in board order.
func (r *StatusRepository) List() ([]entity.InvoiceStatusDefinition, error) {
	query := `
		SELECT code, label, color, is_end_state, end_state_type, sort_order
		FROM status_definitions
		ORDER BY sort_order
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list status definitions", zap.Error(err))
		return nil, fmt.Errorf("failed to list status definitions: %w", err)
	}
	defer rows.Close()

	var defs []entity.InvoiceStatusDefinition
	for rows.Next() {
		var def entity.InvoiceStatusDefinition
		var isEndState int
		var endStateType string
		if err := rows.Scan(&def.Code, &def.Label, &def.Color, &isEndState, &endStateType, &def.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan status definition: %w", err)
		}
		def.IsEndState = isEndState != 0
		def.EndStateType = entity.EndStateType(endStateType)
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

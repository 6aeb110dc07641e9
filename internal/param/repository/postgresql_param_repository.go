// Package repository implements data persistence for parameterizations.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL stores scope targets as a native text array,
// MySQL as a JSON document.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/userhub/internal/database"
	apperrors "github.com/allisson/userhub/internal/errors"
	"github.com/allisson/userhub/internal/param/domain"
)

// PostgreSQLParameterizationRepository implements parameterization
// persistence for PostgreSQL.
type PostgreSQLParameterizationRepository struct {
	db *sql.DB
}

// NewPostgreSQLParameterizationRepository creates a new PostgreSQL
// parameterization repository.
func NewPostgreSQLParameterizationRepository(db *sql.DB) *PostgreSQLParameterizationRepository {
	return &PostgreSQLParameterizationRepository{db: db}
}

const pgParamColumns = `id, friendly_name, technical_key, data_type, value,
	scope_type, scope_target_ids, editable, created_at, updated_at`

// Create inserts a new parameterization.
func (p *PostgreSQLParameterizationRepository) Create(
	ctx context.Context,
	param *domain.Parameterization,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO parameterizations
			  (id, friendly_name, technical_key, data_type, value, scope_type, scope_target_ids, editable, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		param.ID,
		param.FriendlyName,
		param.TechnicalKey,
		param.DataType,
		param.Value,
		param.ScopeType,
		pq.Array(param.ScopeTargetIDs),
		param.Editable,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrTechnicalKeyTaken
		}
		return apperrors.Wrap(err, "failed to create parameterization")
	}
	return nil
}

// GetByID retrieves a parameterization by ID.
func (p *PostgreSQLParameterizationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Parameterization, error) {
	query := `SELECT ` + pgParamColumns + ` FROM parameterizations WHERE id = $1`
	return p.getOne(ctx, query, id)
}

// GetByTechnicalKey retrieves a parameterization by its canonical key.
func (p *PostgreSQLParameterizationRepository) GetByTechnicalKey(
	ctx context.Context,
	key string,
) (*domain.Parameterization, error) {
	query := `SELECT ` + pgParamColumns + ` FROM parameterizations WHERE technical_key = $1`
	return p.getOne(ctx, query, key)
}

func (p *PostgreSQLParameterizationRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.Parameterization, error) {
	querier := database.GetTx(ctx, p.db)

	var param domain.Parameterization
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&param.ID,
		&param.FriendlyName,
		&param.TechnicalKey,
		&param.DataType,
		&param.Value,
		&param.ScopeType,
		pq.Array(&param.ScopeTargetIDs),
		&param.Editable,
		&param.CreatedAt,
		&param.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParameterizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get parameterization")
	}

	return &param, nil
}

// List retrieves parameterizations ordered by creation time with pagination.
func (p *PostgreSQLParameterizationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Parameterization, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgParamColumns + ` FROM parameterizations
			  ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list parameterizations")
	}
	defer rows.Close()

	params := make([]*domain.Parameterization, 0)
	for rows.Next() {
		var param domain.Parameterization
		err := rows.Scan(
			&param.ID,
			&param.FriendlyName,
			&param.TechnicalKey,
			&param.DataType,
			&param.Value,
			&param.ScopeType,
			pq.Array(&param.ScopeTargetIDs),
			&param.Editable,
			&param.CreatedAt,
			&param.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan parameterization")
		}
		params = append(params, &param)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate parameterizations")
	}

	return params, nil
}

// Update modifies an existing parameterization.
func (p *PostgreSQLParameterizationRepository) Update(
	ctx context.Context,
	param *domain.Parameterization,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE parameterizations
			  SET friendly_name = $1, technical_key = $2, data_type = $3, value = $4,
			  	  scope_type = $5, scope_target_ids = $6, editable = $7, updated_at = NOW()
			  WHERE id = $8`

	result, err := querier.ExecContext(
		ctx,
		query,
		param.FriendlyName,
		param.TechnicalKey,
		param.DataType,
		param.Value,
		param.ScopeType,
		pq.Array(param.ScopeTargetIDs),
		param.Editable,
		param.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrTechnicalKeyTaken
		}
		return apperrors.Wrap(err, "failed to update parameterization")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return domain.ErrParameterizationNotFound
	}
	return nil
}

// Delete removes a parameterization.
func (p *PostgreSQLParameterizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM parameterizations WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete parameterization")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check delete result")
	}
	if affected == 0 {
		return domain.ErrParameterizationNotFound
	}
	return nil
}

// isPostgreSQLUniqueViolation checks for a unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/database"
	apperrors "github.com/allisson/userhub/internal/errors"
	"github.com/allisson/userhub/internal/param/domain"
)

// MySQLParameterizationRepository implements parameterization persistence
// for MySQL. Scope targets are stored as a JSON document.
type MySQLParameterizationRepository struct {
	db *sql.DB
}

// NewMySQLParameterizationRepository creates a new MySQL parameterization
// repository.
func NewMySQLParameterizationRepository(db *sql.DB) *MySQLParameterizationRepository {
	return &MySQLParameterizationRepository{db: db}
}

const mysqlParamColumns = `id, friendly_name, technical_key, data_type, value,
	scope_type, scope_target_ids, editable, created_at, updated_at`

func encodeScopeTargets(targets []string) (string, error) {
	if targets == nil {
		targets = []string{}
	}
	encoded, err := json.Marshal(targets)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode scope targets")
	}
	return string(encoded), nil
}

func decodeScopeTargets(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var targets []string
	if err := json.Unmarshal([]byte(encoded), &targets); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode scope targets")
	}
	return targets, nil
}

// Create inserts a new parameterization.
func (m *MySQLParameterizationRepository) Create(
	ctx context.Context,
	param *domain.Parameterization,
) error {
	querier := database.GetTx(ctx, m.db)

	targets, err := encodeScopeTargets(param.ScopeTargetIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO parameterizations
			  (id, friendly_name, technical_key, data_type, value, scope_type, scope_target_ids, editable, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		param.ID,
		param.FriendlyName,
		param.TechnicalKey,
		param.DataType,
		param.Value,
		param.ScopeType,
		targets,
		param.Editable,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrTechnicalKeyTaken
		}
		return apperrors.Wrap(err, "failed to create parameterization")
	}
	return nil
}

// GetByID retrieves a parameterization by ID.
func (m *MySQLParameterizationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Parameterization, error) {
	query := `SELECT ` + mysqlParamColumns + ` FROM parameterizations WHERE id = ?`
	return m.getOne(ctx, query, id)
}

// GetByTechnicalKey retrieves a parameterization by its canonical key.
func (m *MySQLParameterizationRepository) GetByTechnicalKey(
	ctx context.Context,
	key string,
) (*domain.Parameterization, error) {
	query := `SELECT ` + mysqlParamColumns + ` FROM parameterizations WHERE technical_key = ?`
	return m.getOne(ctx, query, key)
}

func (m *MySQLParameterizationRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.Parameterization, error) {
	querier := database.GetTx(ctx, m.db)

	var param domain.Parameterization
	var targets string
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&param.ID,
		&param.FriendlyName,
		&param.TechnicalKey,
		&param.DataType,
		&param.Value,
		&param.ScopeType,
		&targets,
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

	param.ScopeTargetIDs, err = decodeScopeTargets(targets)
	if err != nil {
		return nil, err
	}

	return &param, nil
}

// List retrieves parameterizations ordered by creation time with pagination.
func (m *MySQLParameterizationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Parameterization, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlParamColumns + ` FROM parameterizations
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list parameterizations")
	}
	defer rows.Close()

	params := make([]*domain.Parameterization, 0)
	for rows.Next() {
		var param domain.Parameterization
		var targets string
		err := rows.Scan(
			&param.ID,
			&param.FriendlyName,
			&param.TechnicalKey,
			&param.DataType,
			&param.Value,
			&param.ScopeType,
			&targets,
			&param.Editable,
			&param.CreatedAt,
			&param.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan parameterization")
		}
		param.ScopeTargetIDs, err = decodeScopeTargets(targets)
		if err != nil {
			return nil, err
		}
		params = append(params, &param)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate parameterizations")
	}

	return params, nil
}

// Update modifies an existing parameterization.
func (m *MySQLParameterizationRepository) Update(
	ctx context.Context,
	param *domain.Parameterization,
) error {
	querier := database.GetTx(ctx, m.db)

	targets, err := encodeScopeTargets(param.ScopeTargetIDs)
	if err != nil {
		return err
	}

	query := `UPDATE parameterizations
			  SET friendly_name = ?, technical_key = ?, data_type = ?, value = ?,
			  	  scope_type = ?, scope_target_ids = ?, editable = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		param.FriendlyName,
		param.TechnicalKey,
		param.DataType,
		param.Value,
		param.ScopeType,
		targets,
		param.Editable,
		param.ID,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
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
func (m *MySQLParameterizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM parameterizations WHERE id = ?`, id)
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

// isMySQLDuplicateEntry checks for a duplicate entry error.
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}

// Package repository implements data persistence for access groups.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL stores capability keys as a native text
// array, MySQL as a JSON document.
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
	"github.com/allisson/userhub/internal/group/domain"
)

// PostgreSQLGroupRepository implements group persistence for PostgreSQL.
type PostgreSQLGroupRepository struct {
	db *sql.DB
}

// NewPostgreSQLGroupRepository creates a new PostgreSQL group repository.
func NewPostgreSQLGroupRepository(db *sql.DB) *PostgreSQLGroupRepository {
	return &PostgreSQLGroupRepository{db: db}
}

// Create inserts a new group.
func (p *PostgreSQLGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_groups (id, name, code, description, features, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		group.ID,
		group.Name,
		group.Code,
		group.Description,
		pq.Array(group.Features),
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrGroupCodeTaken
		}
		return apperrors.Wrap(err, "failed to create group")
	}
	return nil
}

// GetByID retrieves a group by ID.
func (p *PostgreSQLGroupRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Group, error) {
	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups WHERE id = $1`
	return p.getOne(ctx, query, id)
}

// GetByCode retrieves a group by its canonical code.
func (p *PostgreSQLGroupRepository) GetByCode(
	ctx context.Context,
	code string,
) (*domain.Group, error) {
	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups WHERE code = $1`
	return p.getOne(ctx, query, code)
}

func (p *PostgreSQLGroupRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.Group, error) {
	querier := database.GetTx(ctx, p.db)

	var group domain.Group
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&group.ID,
		&group.Name,
		&group.Code,
		&group.Description,
		pq.Array(&group.Features),
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group")
	}

	return &group, nil
}

// List retrieves groups ordered by creation time with pagination.
func (p *PostgreSQLGroupRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Group, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups")
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		var group domain.Group
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Code,
			&group.Description,
			pq.Array(&group.Features),
			&group.CreatedAt,
			&group.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group")
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate groups")
	}

	return groups, nil
}

// Update modifies an existing group.
func (p *PostgreSQLGroupRepository) Update(ctx context.Context, group *domain.Group) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_groups
			  SET name = $1, code = $2, description = $3, features = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		group.Name,
		group.Code,
		group.Description,
		pq.Array(group.Features),
		group.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrGroupCodeTaken
		}
		return apperrors.Wrap(err, "failed to update group")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// Delete removes a group. User assignments cascade via the schema.
func (p *PostgreSQLGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM access_groups WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete group")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check delete result")
	}
	if affected == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// ListFeaturesByGroupIDs returns the capability keys granted by each of the
// given groups. IDs with no matching group are absent from the result.
func (p *PostgreSQLGroupRepository) ListFeaturesByGroupIDs(
	ctx context.Context,
	groupIDs []uuid.UUID,
) (map[uuid.UUID][]string, error) {
	if len(groupIDs) == 0 {
		return map[uuid.UUID][]string{}, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, features FROM access_groups WHERE id = ANY($1)`

	rows, err := querier.QueryContext(ctx, query, pq.Array(groupIDs))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list group features")
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]string, len(groupIDs))
	for rows.Next() {
		var id uuid.UUID
		var features []string
		if err := rows.Scan(&id, pq.Array(&features)); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group features")
		}
		result[id] = features
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate group features")
	}

	return result, nil
}

// isPostgreSQLUniqueViolation checks for a unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

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
	"github.com/allisson/userhub/internal/group/domain"
)

// MySQLGroupRepository implements group persistence for MySQL. Capability
// keys are stored as a JSON document since MySQL has no array type.
type MySQLGroupRepository struct {
	db *sql.DB
}

// NewMySQLGroupRepository creates a new MySQL group repository.
func NewMySQLGroupRepository(db *sql.DB) *MySQLGroupRepository {
	return &MySQLGroupRepository{db: db}
}

func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode features")
	}
	return string(encoded), nil
}

func decodeFeatures(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var features []string
	if err := json.Unmarshal([]byte(encoded), &features); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode features")
	}
	return features, nil
}

// Create inserts a new group.
func (m *MySQLGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	querier := database.GetTx(ctx, m.db)

	features, err := encodeFeatures(group.Features)
	if err != nil {
		return err
	}

	query := `INSERT INTO access_groups (id, name, code, description, features, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		group.ID,
		group.Name,
		group.Code,
		group.Description,
		features,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrGroupCodeTaken
		}
		return apperrors.Wrap(err, "failed to create group")
	}
	return nil
}

// GetByID retrieves a group by ID.
func (m *MySQLGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups WHERE id = ?`
	return m.getOne(ctx, query, id)
}

// GetByCode retrieves a group by its canonical code.
func (m *MySQLGroupRepository) GetByCode(ctx context.Context, code string) (*domain.Group, error) {
	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups WHERE code = ?`
	return m.getOne(ctx, query, code)
}

func (m *MySQLGroupRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.Group, error) {
	querier := database.GetTx(ctx, m.db)

	var group domain.Group
	var features string
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&group.ID,
		&group.Name,
		&group.Code,
		&group.Description,
		&features,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group")
	}

	group.Features, err = decodeFeatures(features)
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// List retrieves groups ordered by creation time with pagination.
func (m *MySQLGroupRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Group, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, code, description, features, created_at, updated_at
			  FROM access_groups ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups")
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		var group domain.Group
		var features string
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Code,
			&group.Description,
			&features,
			&group.CreatedAt,
			&group.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group")
		}
		group.Features, err = decodeFeatures(features)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate groups")
	}

	return groups, nil
}

// Update modifies an existing group.
func (m *MySQLGroupRepository) Update(ctx context.Context, group *domain.Group) error {
	querier := database.GetTx(ctx, m.db)

	features, err := encodeFeatures(group.Features)
	if err != nil {
		return err
	}

	query := `UPDATE access_groups
			  SET name = ?, code = ?, description = ?, features = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		group.Name,
		group.Code,
		group.Description,
		features,
		group.ID,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
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
func (m *MySQLGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM access_groups WHERE id = ?`, id)
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
func (m *MySQLGroupRepository) ListFeaturesByGroupIDs(
	ctx context.Context,
	groupIDs []uuid.UUID,
) (map[uuid.UUID][]string, error) {
	if len(groupIDs) == 0 {
		return map[uuid.UUID][]string{}, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(groupIDs)), ",")
	query := `SELECT id, features FROM access_groups WHERE id IN (` + placeholders + `)`

	args := make([]any, len(groupIDs))
	for i, id := range groupIDs {
		args[i] = id
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list group features")
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]string, len(groupIDs))
	for rows.Next() {
		var id uuid.UUID
		var features string
		if err := rows.Scan(&id, &features); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group features")
		}
		result[id], err = decodeFeatures(features)
		if err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate group features")
	}

	return result, nil
}

// isMySQLDuplicateEntry checks for a duplicate entry error.
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}

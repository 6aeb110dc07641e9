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
	"github.com/allisson/userhub/internal/user/domain"
)

// MySQLUserRepository implements user persistence for MySQL. Capability
// override lists are stored as JSON documents since MySQL has no array type.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

const mysqlUserColumns = `id, name, login, email, password, is_active,
	allow_features, denied_features, created_at, updated_at`

func encodeKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	encoded, err := json.Marshal(keys)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode capability keys")
	}
	return string(encoded), nil
}

func decodeKeys(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(encoded), &keys); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode capability keys")
	}
	return keys, nil
}

// Create inserts a new user and its group assignments.
func (m *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, m.db)

	allow, err := encodeKeys(user.AllowFeatures)
	if err != nil {
		return err
	}
	deny, err := encodeKeys(user.DeniedFeatures)
	if err != nil {
		return err
	}

	query := `INSERT INTO users
			  (id, name, login, email, password, is_active, allow_features, denied_features, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Login,
		user.Email,
		user.Password,
		user.IsActive,
		allow,
		deny,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	return m.replaceGroups(ctx, user.ID, user.GroupIDs)
}

// GetByID retrieves a user by ID.
func (m *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE id = ?`
	return m.getOne(ctx, query, id)
}

// GetByLogin retrieves a user by login.
func (m *MySQLUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE login = ?`
	return m.getOne(ctx, query, login)
}

// GetByEmail retrieves a user by email.
func (m *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE email = ?`
	return m.getOne(ctx, query, email)
}

func (m *MySQLUserRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.User, error) {
	querier := database.GetTx(ctx, m.db)

	var user domain.User
	var allow, deny string
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Login,
		&user.Email,
		&user.Password,
		&user.IsActive,
		&allow,
		&deny,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if user.AllowFeatures, err = decodeKeys(allow); err != nil {
		return nil, err
	}
	if user.DeniedFeatures, err = decodeKeys(deny); err != nil {
		return nil, err
	}

	user.GroupIDs, err = m.loadGroupIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List retrieves users ordered by creation time with pagination.
func (m *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		var allow, deny string
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Login,
			&user.Email,
			&user.Password,
			&user.IsActive,
			&allow,
			&deny,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		if user.AllowFeatures, err = decodeKeys(allow); err != nil {
			return nil, err
		}
		if user.DeniedFeatures, err = decodeKeys(deny); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	for _, user := range users {
		user.GroupIDs, err = m.loadGroupIDs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return users, nil
}

// Update modifies a user and replaces its group assignments.
func (m *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, m.db)

	allow, err := encodeKeys(user.AllowFeatures)
	if err != nil {
		return err
	}
	deny, err := encodeKeys(user.DeniedFeatures)
	if err != nil {
		return err
	}

	query := `UPDATE users
			  SET name = ?, email = ?, password = ?, is_active = ?,
			  	  allow_features = ?, denied_features = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.Password,
		user.IsActive,
		allow,
		deny,
		user.ID,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}

	return m.replaceGroups(ctx, user.ID, user.GroupIDs)
}

// Delete removes a user. Group assignments cascade via the schema.
func (m *MySQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check delete result")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// replaceGroups rewrites the user's group assignments.
func (m *MySQLUserRepository) replaceGroups(
	ctx context.Context,
	userID uuid.UUID,
	groupIDs []uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM user_groups WHERE user_id = ?`, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to clear user groups")
	}

	for _, groupID := range groupIDs {
		_, err := querier.ExecContext(
			ctx,
			`INSERT INTO user_groups (user_id, group_id) VALUES (?, ?)`,
			userID,
			groupID,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to assign user group")
		}
	}
	return nil
}

func (m *MySQLUserRepository) loadGroupIDs(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT group_id FROM user_groups WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load user groups")
	}
	defer rows.Close()

	groupIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var groupID uuid.UUID
		if err := rows.Scan(&groupID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user group")
		}
		groupIDs = append(groupIDs, groupID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate user groups")
	}

	return groupIDs, nil
}

// isMySQLDuplicateEntry checks for a duplicate entry error.
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}

// Package repository implements data persistence for user entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Group assignments live in the user_groups join table and
// are written together with the user row, so callers should wrap writes in a
// transaction.
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
	"github.com/allisson/userhub/internal/user/domain"
)

// PostgreSQLUserRepository implements user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

const pgUserColumns = `id, name, login, email, password, is_active,
	allow_features, denied_features, created_at, updated_at`

// Create inserts a new user and its group assignments.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users
			  (id, name, login, email, password, is_active, allow_features, denied_features, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Login,
		user.Email,
		user.Password,
		user.IsActive,
		pq.Array(user.AllowFeatures),
		pq.Array(user.DeniedFeatures),
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	return p.replaceGroups(ctx, user.ID, user.GroupIDs)
}

// GetByID retrieves a user by ID.
func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = $1`
	return p.getOne(ctx, query, id)
}

// GetByLogin retrieves a user by login.
func (p *PostgreSQLUserRepository) GetByLogin(
	ctx context.Context,
	login string,
) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE login = $1`
	return p.getOne(ctx, query, login)
}

// GetByEmail retrieves a user by email.
func (p *PostgreSQLUserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE email = $1`
	return p.getOne(ctx, query, email)
}

func (p *PostgreSQLUserRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*domain.User, error) {
	querier := database.GetTx(ctx, p.db)

	var user domain.User
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Login,
		&user.Email,
		&user.Password,
		&user.IsActive,
		pq.Array(&user.AllowFeatures),
		pq.Array(&user.DeniedFeatures),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	user.GroupIDs, err = p.loadGroupIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List retrieves users ordered by creation time with pagination.
func (p *PostgreSQLUserRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgUserColumns + ` FROM users
			  ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Login,
			&user.Email,
			&user.Password,
			&user.IsActive,
			pq.Array(&user.AllowFeatures),
			pq.Array(&user.DeniedFeatures),
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	if err := p.loadGroupIDsForUsers(ctx, users); err != nil {
		return nil, err
	}

	return users, nil
}

// Update modifies a user and replaces its group assignments.
func (p *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET name = $1, email = $2, password = $3, is_active = $4,
			  	  allow_features = $5, denied_features = $6, updated_at = NOW()
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.Password,
		user.IsActive,
		pq.Array(user.AllowFeatures),
		pq.Array(user.DeniedFeatures),
		user.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
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

	return p.replaceGroups(ctx, user.ID, user.GroupIDs)
}

// Delete removes a user. Group assignments cascade via the schema.
func (p *PostgreSQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
func (p *PostgreSQLUserRepository) replaceGroups(
	ctx context.Context,
	userID uuid.UUID,
	groupIDs []uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM user_groups WHERE user_id = $1`, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to clear user groups")
	}

	for _, groupID := range groupIDs {
		_, err := querier.ExecContext(
			ctx,
			`INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2)`,
			userID,
			groupID,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to assign user group")
		}
	}
	return nil
}

func (p *PostgreSQLUserRepository) loadGroupIDs(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT group_id FROM user_groups WHERE user_id = $1`,
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

// loadGroupIDsForUsers fills GroupIDs for a page of users with one query.
func (p *PostgreSQLUserRepository) loadGroupIDsForUsers(
	ctx context.Context,
	users []*domain.User,
) error {
	if len(users) == 0 {
		return nil
	}

	querier := database.GetTx(ctx, p.db)

	userIDs := make([]uuid.UUID, len(users))
	byID := make(map[uuid.UUID]*domain.User, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
		byID[user.ID] = user
		user.GroupIDs = make([]uuid.UUID, 0)
	}

	rows, err := querier.QueryContext(
		ctx,
		`SELECT user_id, group_id FROM user_groups WHERE user_id = ANY($1)`,
		pq.Array(userIDs),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to load user groups")
	}
	defer rows.Close()

	for rows.Next() {
		var userID, groupID uuid.UUID
		if err := rows.Scan(&userID, &groupID); err != nil {
			return apperrors.Wrap(err, "failed to scan user group")
		}
		if user, ok := byID[userID]; ok {
			user.GroupIDs = append(user.GroupIDs, groupID)
		}
	}
	return rows.Err()
}

// isPostgreSQLUniqueViolation checks for a unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

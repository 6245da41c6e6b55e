package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matleal/fit-pro/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, image, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, role, has_chosen_role, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, user.Name, user.Email, user.Image, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.Role, &user.HasChosenRole, &user.CreatedAt, &user.UpdatedAt)
}

// UpsertByEmail inserts the user on first sign-in and refreshes the profile
// fields on every later one. Role and has_chosen_role are never touched by
// the identity provider.
func (r *UserRepository) UpsertByEmail(ctx context.Context, email string, name, image *string) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, users.name),
		    image = COALESCE(EXCLUDED.image, users.image),
		    updated_at = NOW()
		RETURNING id, name, email, image, password_hash, role, has_chosen_role, created_at, updated_at
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email, name, image).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Image,
		&user.PasswordHash,
		&user.Role,
		&user.HasChosenRole,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, image, password_hash, role, has_chosen_role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, image, password_hash, role, has_chosen_role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateRole overwrites the role and marks the choice as made. There is no
// transition guard: a role can be reassigned freely through this path.
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) (*models.User, error) {
	query := `
		UPDATE users
		SET role = $2, has_chosen_role = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, image, password_hash, role, has_chosen_role, created_at, updated_at
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id, role))
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Image,
		&user.PasswordHash,
		&user.Role,
		&user.HasChosenRole,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
	"freelancedesk/pkg/db"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a user. passwordHash must already be a bcrypt hash.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	defer observe("create", "users", time.Now())

	query := `
        INSERT INTO users (username, password)
        VALUES ($1, $2)
        RETURNING id
    `
	u := model.User{Username: username, Password: passwordHash}
	if err := r.db.QueryRow(ctx, query, username, passwordHash).Scan(&u.ID); err != nil {
		if db.IsUniqueViolation(err) {
			r.logger.Warn("Username already taken", zap.String("username", username))
			return nil, errs.ErrAlreadyExists
		}
		r.logger.Error("Failed to insert user", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	r.logger.Info("User inserted successfully", zap.Int64("id", u.ID))
	return &u, nil
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	defer observe("get", "users", time.Now())

	query := `
        SELECT id, username, password
        FROM users
        WHERE username = $1
    `
	var u model.User
	if err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Password); err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

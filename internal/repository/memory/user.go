package memory

import (
	"context"
	"fmt"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return nil, fmt.Errorf("username %q: %w", username, errs.ErrAlreadyExists)
		}
	}
	r.db.lastUserID++
	u := model.User{ID: r.db.lastUserID, Username: username, Password: passwordHash}
	r.db.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

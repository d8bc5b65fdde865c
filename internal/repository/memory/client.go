package memory

import (
	"context"
	"time"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type ClientRepository struct {
	db *DB
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	clients := make([]model.Client, 0, len(r.db.clients))
	for _, c := range r.db.clients {
		clients = append(clients, c)
	}
	sortByCreated(clients, func(c model.Client) (time.Time, int64) { return c.CreatedAt, c.ID })
	return clients, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.clients[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, in model.ClientInput) (*model.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	r.db.lastClientID++
	c := model.Client{
		ID:        r.db.lastClientID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.clients[c.ID] = c
	return &c, nil
}

func (r *ClientRepository) Update(ctx context.Context, id int64, p model.ClientPatch) (*model.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.clients[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	p.Apply(&c)
	c.UpdatedAt = r.db.now()
	r.db.clients[id] = c
	return &c, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.clients[id]; !ok {
		return errs.ErrNotFound
	}
	for _, p := range r.db.projects {
		if p.ClientID == id {
			return errs.ErrClientHasProjects
		}
	}
	delete(r.db.clients, id)
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
	"freelancedesk/pkg/db"
	"freelancedesk/pkg/metrics"
)

type ClientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

func NewClientRepository(db *pgxpool.Pool, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	defer observe("list", "clients", time.Now())

	query := `SELECT ` + clientColumns + ` FROM clients c ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(clientDest(&c)...); err != nil {
			r.logger.Error("Failed to scan client", zap.Error(err))
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	defer observe("get", "clients", time.Now())

	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.id = $1`
	var c model.Client
	if err := r.db.QueryRow(ctx, query, id).Scan(clientDest(&c)...); err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Failed to get client", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, in model.ClientInput) (*model.Client, error) {
	defer observe("create", "clients", time.Now())
	r.logger.Debug("Inserting client", zap.String("name", in.Name))

	query := `
        INSERT INTO clients AS c (name, email, phone, company, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        RETURNING ` + clientColumns
	var c model.Client
	err := r.db.QueryRow(ctx, query,
		in.Name,
		in.Email,
		in.Phone,
		in.Company,
		in.Notes,
		r.now(),
	).Scan(clientDest(&c)...)
	if err != nil {
		r.logger.Error("Failed to insert client", zap.Error(err))
		return nil, err
	}

	metrics.IncrementEntityMutation("client", "create")
	r.logger.Info("Client inserted successfully", zap.Int64("id", c.ID))
	return &c, nil
}

func (r *ClientRepository) Update(ctx context.Context, id int64, p model.ClientPatch) (*model.Client, error) {
	defer observe("update", "clients", time.Now())
	r.logger.Debug("Updating client", zap.Int64("id", id))

	b := &sqlBuilder{}
	b.set("updated_at", r.now())
	if name, ok := p.Name.Get(); ok {
		b.set("name", name)
	}
	if email, ok := p.Email.Get(); ok {
		b.set("email", email)
	}
	if p.Phone.Set {
		b.set("phone", p.Phone.Ptr())
	}
	if p.Company.Set {
		b.set("company", p.Company.Ptr())
	}
	if p.Notes.Set {
		b.set("notes", p.Notes.Ptr())
	}
	idArg := b.arg(id)

	query := fmt.Sprintf(`UPDATE clients AS c SET %s WHERE c.id = %s RETURNING %s`, b.setSQL(), idArg, clientColumns)
	var c model.Client
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(clientDest(&c)...); err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Failed to update client", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	metrics.IncrementEntityMutation("client", "update")
	r.logger.Info("Client updated successfully", zap.Int64("id", id))
	return &c, nil
}

// Delete removes a client that no project references. The client row is
// locked first so a concurrent project insert cannot slip in between the
// dependency check and the delete.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", "clients", time.Now())
	r.logger.Debug("Deleting client", zap.Int64("id", id))

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM clients WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if db.IsNoRows(err) {
				return errs.ErrNotFound
			}
			return err
		}

		var hasProjects bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE client_id = $1)`, id).Scan(&hasProjects); err != nil {
			return err
		}
		if hasProjects {
			return errs.ErrClientHasProjects
		}

		_, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, errs.ErrNotFound):
		return err
	case errors.Is(err, errs.ErrClientHasProjects), db.IsForeignKeyViolation(err):
		metrics.IncrementDeleteConflict("client")
		r.logger.Info("Client delete rejected, projects still reference it", zap.Int64("id", id))
		return errs.ErrClientHasProjects
	default:
		r.logger.Error("Failed to delete client", zap.Int64("id", id), zap.Error(err))
		return err
	}

	metrics.IncrementEntityMutation("client", "delete")
	r.logger.Info("Client deleted successfully", zap.Int64("id", id))
	return nil
}

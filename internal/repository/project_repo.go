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

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const projectWithClient = `SELECT ` + projectColumns + `, ` + clientColumns + `
        FROM projects p
        JOIN clients c ON c.id = p.client_id`

func scanProjectWithClient(row rowScanner) (model.Project, error) {
	var pr projectRow
	var c model.Client
	if err := row.Scan(append(pr.dest(), clientDest(&c)...)...); err != nil {
		return model.Project{}, err
	}
	p := pr.project()
	p.Client = &c
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	defer observe("list", "projects", time.Now())

	b := &sqlBuilder{}
	if f.HasStatus() {
		b.and("p.status::text = " + b.arg(string(f.Status)))
	}
	if f.ClientID > 0 {
		b.and("p.client_id = " + b.arg(f.ClientID))
	}
	query := projectWithClient + b.whereSQL() + ` ORDER BY p.created_at DESC, p.id DESC`
	return r.query(ctx, query, b.args...)
}

// Upcoming lists in-progress projects whose deadline falls in the next days
// calendar days, soonest first.
func (r *ProjectRepository) Upcoming(ctx context.Context, days int) ([]model.Project, error) {
	defer observe("upcoming", "projects", time.Now())

	w := model.DueSoonWindow(r.now(), days)
	query := projectWithClient + `
        WHERE p.status = 'in_progress' AND p.deadline >= $1 AND p.deadline < $2
        ORDER BY p.deadline ASC, p.id ASC`
	return r.query(ctx, query, w.From, w.To)
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProjectWithClient(rows)
		if err != nil {
			r.logger.Error("Failed to scan project", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	defer observe("get", "projects", time.Now())

	p, err := scanProjectWithClient(r.db.QueryRow(ctx, projectWithClient+` WHERE p.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	defer observe("create", "projects", time.Now())
	in.Normalize()
	r.logger.Debug("Inserting project",
		zap.Int64("client_id", in.ClientID),
		zap.String("title", in.Title),
	)

	query := `
        INSERT INTO projects AS p (title, description, client_id, status, deadline, amount, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4::text::project_status, $5, $6::text::numeric, $7, $8, $8)
        RETURNING ` + projectColumns
	var pr projectRow
	err := r.db.QueryRow(ctx, query,
		in.Title,
		in.Description,
		in.ClientID,
		string(in.Status),
		in.Deadline,
		moneyText(in.Amount),
		in.Notes,
		r.now(),
	).Scan(pr.dest()...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to insert project", zap.Error(err))
		return nil, err
	}

	p := pr.project()
	metrics.IncrementEntityMutation("project", "create")
	r.logger.Info("Project inserted successfully",
		zap.Int64("id", p.ID),
		zap.Int64("client_id", p.ClientID),
	)
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	defer observe("update", "projects", time.Now())
	r.logger.Debug("Updating project", zap.Int64("id", id))

	b := &sqlBuilder{}
	b.set("updated_at", r.now())
	if title, ok := patch.Title.Get(); ok {
		b.set("title", title)
	}
	if patch.Description.Set {
		b.set("description", patch.Description.Ptr())
	}
	if clientID, ok := patch.ClientID.Get(); ok {
		b.set("client_id", clientID)
	}
	if status, ok := patch.Status.Get(); ok {
		b.setExpr("status = " + b.arg(string(status)) + "::text::project_status")
	}
	if patch.Deadline.Set {
		b.set("deadline", patch.Deadline.Ptr())
	}
	if patch.Amount.Set {
		b.setExpr("amount = " + b.arg(moneyText(patch.Amount.Ptr())) + "::text::numeric")
	}
	if patch.Notes.Set {
		b.set("notes", patch.Notes.Ptr())
	}
	idArg := b.arg(id)

	query := fmt.Sprintf(`UPDATE projects AS p SET %s WHERE p.id = %s RETURNING %s`, b.setSQL(), idArg, projectColumns)
	var pr projectRow
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(pr.dest()...); err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, errs.ErrNotFound
		case db.IsForeignKeyViolation(err):
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to update project", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	p := pr.project()
	metrics.IncrementEntityMutation("project", "update")
	r.logger.Info("Project updated successfully", zap.Int64("id", id))
	return &p, nil
}

// Delete removes a project that no task or payment references.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", "projects", time.Now())
	r.logger.Debug("Deleting project", zap.Int64("id", id))

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if db.IsNoRows(err) {
				return errs.ErrNotFound
			}
			return err
		}

		var hasDependents bool
		err := tx.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM tasks WHERE project_id = $1)
                OR EXISTS (SELECT 1 FROM payments WHERE project_id = $1)`, id).Scan(&hasDependents)
		if err != nil {
			return err
		}
		if hasDependents {
			return errs.ErrProjectHasDependents
		}

		_, err = tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, errs.ErrNotFound):
		return err
	case errors.Is(err, errs.ErrProjectHasDependents), db.IsForeignKeyViolation(err):
		metrics.IncrementDeleteConflict("project")
		r.logger.Info("Project delete rejected, tasks or payments still reference it", zap.Int64("id", id))
		return errs.ErrProjectHasDependents
	default:
		r.logger.Error("Failed to delete project", zap.Int64("id", id), zap.Error(err))
		return err
	}

	metrics.IncrementEntityMutation("project", "delete")
	r.logger.Info("Project deleted successfully", zap.Int64("id", id))
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
	"freelancedesk/pkg/db"
	"freelancedesk/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const taskWithProject = `SELECT ` + taskColumns + `, ` + projectColumns + `, ` + clientColumns + `
        FROM tasks t
        JOIN projects p ON p.id = t.project_id
        JOIN clients c ON c.id = p.client_id`

func scanTaskWithProject(row rowScanner) (model.Task, error) {
	var tr taskRow
	var pr projectRow
	var c model.Client
	dest := append(tr.dest(), pr.dest()...)
	if err := row.Scan(append(dest, clientDest(&c)...)...); err != nil {
		return model.Task{}, err
	}
	t := tr.task()
	p := pr.project()
	p.Client = &c
	t.Project = &p
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	defer observe("list", "tasks", time.Now())

	b := &sqlBuilder{}
	if f.Completed != nil {
		b.and("t.is_completed = " + b.arg(*f.Completed))
	}
	if f.HasPriority() {
		b.and("t.priority::text = " + b.arg(string(f.Priority)))
	}
	if f.ProjectID > 0 {
		b.and("t.project_id = " + b.arg(f.ProjectID))
	}
	if f.DueToday {
		w := model.TodayWindow(r.now())
		b.and("t.deadline >= " + b.arg(w.From))
		b.and("t.deadline < " + b.arg(w.To))
	}
	query := taskWithProject + b.whereSQL() + ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTaskWithProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	defer observe("get", "tasks", time.Now())

	t, err := scanTaskWithProject(r.db.QueryRow(ctx, taskWithProject+` WHERE t.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Failed to get task", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	defer observe("create", "tasks", time.Now())
	in.Normalize()
	r.logger.Debug("Inserting task",
		zap.Int64("project_id", in.ProjectID),
		zap.String("title", in.Title),
	)

	now := r.now()
	query := `
        INSERT INTO tasks AS t (title, description, project_id, priority, deadline, is_completed, completed_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4::text::task_priority, $5, $6, $7, $8, $8)
        RETURNING ` + taskColumns
	var tr taskRow
	err := r.db.QueryRow(ctx, query,
		in.Title,
		in.Description,
		in.ProjectID,
		string(in.Priority),
		in.Deadline,
		in.IsCompleted,
		model.CompletionStamp(false, nil, in.IsCompleted, now),
		now,
	).Scan(tr.dest()...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to insert task", zap.Error(err))
		return nil, err
	}

	t := tr.task()
	metrics.IncrementEntityMutation("task", "create")
	r.logger.Info("Task inserted successfully",
		zap.Int64("id", t.ID),
		zap.Int64("project_id", t.ProjectID),
	)
	return &t, nil
}

// Update applies the patch. completed_at moves only when is_completed
// actually changes; a repeated true keeps the first stamp.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	defer observe("update", "tasks", time.Now())
	r.logger.Debug("Updating task", zap.Int64("id", id))

	now := r.now()
	b := &sqlBuilder{}
	b.set("updated_at", now)
	if title, ok := patch.Title.Get(); ok {
		b.set("title", title)
	}
	if patch.Description.Set {
		b.set("description", patch.Description.Ptr())
	}
	if projectID, ok := patch.ProjectID.Get(); ok {
		b.set("project_id", projectID)
	}
	if priority, ok := patch.Priority.Get(); ok {
		b.setExpr("priority = " + b.arg(string(priority)) + "::text::task_priority")
	}
	if patch.Deadline.Set {
		b.set("deadline", patch.Deadline.Ptr())
	}
	if completed, ok := patch.IsCompleted.Get(); ok {
		done := b.arg(completed)
		stamp := b.arg(now)
		b.setExpr(fmt.Sprintf(`completed_at = CASE
                WHEN NOT %[1]s::boolean THEN NULL
                WHEN t.is_completed AND t.completed_at IS NOT NULL THEN t.completed_at
                ELSE %[2]s::timestamptz
            END`, done, stamp))
		b.setExpr("is_completed = " + done + "::boolean")
	}
	idArg := b.arg(id)

	query := fmt.Sprintf(`UPDATE tasks AS t SET %s WHERE t.id = %s RETURNING %s`, b.setSQL(), idArg, taskColumns)
	var tr taskRow
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(tr.dest()...); err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, errs.ErrNotFound
		case db.IsForeignKeyViolation(err):
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to update task", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	t := tr.task()
	metrics.IncrementEntityMutation("task", "update")
	r.logger.Info("Task updated successfully",
		zap.Int64("id", id),
		zap.Bool("is_completed", t.IsCompleted),
	)
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", "tasks", time.Now())
	r.logger.Debug("Deleting task", zap.Int64("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}

	metrics.IncrementEntityMutation("task", "delete")
	r.logger.Info("Task deleted successfully", zap.Int64("id", id))
	return nil
}

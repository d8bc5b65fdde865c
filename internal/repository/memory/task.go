package memory

import (
	"context"
	"time"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type TaskRepository struct {
	db *DB
}

func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	today := model.TodayWindow(r.db.now())
	tasks := []model.Task{}
	for _, t := range r.db.tasks {
		if f.Completed != nil && t.IsCompleted != *f.Completed {
			continue
		}
		if f.HasPriority() && t.Priority != f.Priority {
			continue
		}
		if f.ProjectID > 0 && t.ProjectID != f.ProjectID {
			continue
		}
		if f.DueToday && !today.Contains(t.Deadline) {
			continue
		}
		t.Project = r.db.projectRef(t.ProjectID)
		tasks = append(tasks, t)
	}
	sortByCreated(tasks, func(t model.Task) (time.Time, int64) { return t.CreatedAt, t.ID })
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.tasks[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	t.Project = r.db.projectRef(t.ProjectID)
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	in.Normalize()

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.projects[in.ProjectID]; !ok {
		return nil, errs.ErrInvalidReference
	}
	now := r.db.now()
	r.db.lastTaskID++
	t := model.Task{
		ID:          r.db.lastTaskID,
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
		IsCompleted: in.IsCompleted,
		CompletedAt: model.CompletionStamp(false, nil, in.IsCompleted, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.tasks[t.ID] = t
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.tasks[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if parentID, ok := patch.ProjectID.Get(); ok {
		if _, exists := r.db.projects[parentID]; !exists {
			return nil, errs.ErrInvalidReference
		}
	}
	now := r.db.now()
	patch.Apply(&t, now)
	t.UpdatedAt = now
	r.db.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.tasks[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.db.tasks, id)
	return nil
}

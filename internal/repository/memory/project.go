package memory

import (
	"context"
	"sort"
	"time"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type ProjectRepository struct {
	db *DB
}

func (r *ProjectRepository) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	projects := []model.Project{}
	for _, p := range r.db.projects {
		if f.HasStatus() && p.Status != f.Status {
			continue
		}
		if f.ClientID > 0 && p.ClientID != f.ClientID {
			continue
		}
		projects = append(projects, r.db.projectWithClient(p))
	}
	sortByCreated(projects, func(p model.Project) (time.Time, int64) { return p.CreatedAt, p.ID })
	return projects, nil
}

func (r *ProjectRepository) Upcoming(ctx context.Context, days int) ([]model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	w := model.DueSoonWindow(r.db.now(), days)
	projects := []model.Project{}
	for _, p := range r.db.projects {
		if p.Status == model.ProjectInProgress && w.Contains(p.Deadline) {
			projects = append(projects, r.db.projectWithClient(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].Deadline.Equal(*projects[j].Deadline) {
			return projects[i].Deadline.Before(*projects[j].Deadline)
		}
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p := r.db.projectRef(id)
	if p == nil {
		return nil, errs.ErrNotFound
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	in.Normalize()

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.clients[in.ClientID]; !ok {
		return nil, errs.ErrInvalidReference
	}
	now := r.db.now()
	r.db.lastProjectID++
	p := model.Project{
		ID:          r.db.lastProjectID,
		Title:       in.Title,
		Description: in.Description,
		ClientID:    in.ClientID,
		Status:      in.Status,
		Deadline:    in.Deadline,
		Amount:      in.Amount,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.projects[p.ID] = p
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.projects[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if parentID, ok := patch.ClientID.Get(); ok {
		if _, exists := r.db.clients[parentID]; !exists {
			return nil, errs.ErrInvalidReference
		}
	}
	patch.Apply(&p)
	p.UpdatedAt = r.db.now()
	r.db.projects[id] = p
	return &p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.projects[id]; !ok {
		return errs.ErrNotFound
	}
	for _, t := range r.db.tasks {
		if t.ProjectID == id {
			return errs.ErrProjectHasDependents
		}
	}
	for _, pm := range r.db.payments {
		if pm.ProjectID == id {
			return errs.ErrProjectHasDependents
		}
	}
	delete(r.db.projects, id)
	return nil
}

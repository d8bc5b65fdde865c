package memory

import (
	"context"
	"sort"
	"time"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type PaymentRepository struct {
	db *DB
}

func (r *PaymentRepository) List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	payments := []model.Payment{}
	for _, pm := range r.db.payments {
		if f.HasStatus() && pm.Status != f.Status {
			continue
		}
		if f.ProjectID > 0 && pm.ProjectID != f.ProjectID {
			continue
		}
		pm.Project = r.db.projectRef(pm.ProjectID)
		payments = append(payments, pm)
	}
	sortByCreated(payments, func(pm model.Payment) (time.Time, int64) { return pm.CreatedAt, pm.ID })
	return payments, nil
}

func (r *PaymentRepository) Upcoming(ctx context.Context, days int) ([]model.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	w := model.DueSoonWindow(r.db.now(), days)
	payments := []model.Payment{}
	for _, pm := range r.db.payments {
		if pm.Status == model.PaymentPending && w.Contains(pm.DueDate) {
			pm.Project = r.db.projectRef(pm.ProjectID)
			payments = append(payments, pm)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].DueDate.Equal(*payments[j].DueDate) {
			return payments[i].DueDate.Before(*payments[j].DueDate)
		}
		return payments[i].ID < payments[j].ID
	})
	return payments, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	pm, ok := r.db.payments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	pm.Project = r.db.projectRef(pm.ProjectID)
	return &pm, nil
}

func (r *PaymentRepository) Create(ctx context.Context, in model.PaymentInput) (*model.Payment, error) {
	in.Normalize()

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.projects[in.ProjectID]; !ok {
		return nil, errs.ErrInvalidReference
	}
	var amount model.Money
	if in.Amount != nil {
		amount = *in.Amount
	}
	now := r.db.now()
	r.db.lastPaymentID++
	pm := model.Payment{
		ID:            r.db.lastPaymentID,
		InvoiceNumber: in.InvoiceNumber,
		ProjectID:     in.ProjectID,
		Amount:        amount,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		DueDate:       in.DueDate,
		ReceivedAt:    model.CompletionStamp(false, nil, in.Status == model.PaymentReceived, now),
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.db.payments[pm.ID] = pm
	return &pm, nil
}

func (r *PaymentRepository) Update(ctx context.Context, id int64, patch model.PaymentPatch) (*model.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	pm, ok := r.db.payments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if parentID, ok := patch.ProjectID.Get(); ok {
		if _, exists := r.db.projects[parentID]; !exists {
			return nil, errs.ErrInvalidReference
		}
	}
	now := r.db.now()
	patch.Apply(&pm, now)
	pm.UpdatedAt = now
	r.db.payments[id] = pm
	return &pm, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.payments[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.db.payments, id)
	return nil
}

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

type PaymentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

func NewPaymentRepository(db *pgxpool.Pool, logger *zap.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const paymentWithProject = `SELECT ` + paymentColumns + `, ` + projectColumns + `, ` + clientColumns + `
        FROM payments pm
        JOIN projects p ON p.id = pm.project_id
        JOIN clients c ON c.id = p.client_id`

func scanPaymentWithProject(row rowScanner) (model.Payment, error) {
	var pmr paymentRow
	var pr projectRow
	var c model.Client
	dest := append(pmr.dest(), pr.dest()...)
	if err := row.Scan(append(dest, clientDest(&c)...)...); err != nil {
		return model.Payment{}, err
	}
	pm := pmr.payment()
	p := pr.project()
	p.Client = &c
	pm.Project = &p
	return pm, nil
}

func (r *PaymentRepository) List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	defer observe("list", "payments", time.Now())

	b := &sqlBuilder{}
	if f.HasStatus() {
		b.and("pm.status::text = " + b.arg(string(f.Status)))
	}
	if f.ProjectID > 0 {
		b.and("pm.project_id = " + b.arg(f.ProjectID))
	}
	query := paymentWithProject + b.whereSQL() + ` ORDER BY pm.created_at DESC, pm.id DESC`
	return r.query(ctx, query, b.args...)
}

// Upcoming lists pending payments due in the next days calendar days,
// soonest first.
func (r *PaymentRepository) Upcoming(ctx context.Context, days int) ([]model.Payment, error) {
	defer observe("upcoming", "payments", time.Now())

	w := model.DueSoonWindow(r.now(), days)
	query := paymentWithProject + `
        WHERE pm.status = 'pending' AND pm.due_date >= $1 AND pm.due_date < $2
        ORDER BY pm.due_date ASC, pm.id ASC`
	return r.query(ctx, query, w.From, w.To)
}

func (r *PaymentRepository) query(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		pm, err := scanPaymentWithProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan payment", zap.Error(err))
			return nil, err
		}
		payments = append(payments, pm)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	defer observe("get", "payments", time.Now())

	pm, err := scanPaymentWithProject(r.db.QueryRow(ctx, paymentWithProject+` WHERE pm.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Failed to get payment", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &pm, nil
}

func (r *PaymentRepository) Create(ctx context.Context, in model.PaymentInput) (*model.Payment, error) {
	defer observe("create", "payments", time.Now())
	in.Normalize()
	r.logger.Debug("Inserting payment",
		zap.Int64("project_id", in.ProjectID),
		zap.String("invoice_number", in.InvoiceNumber),
	)

	now := r.now()
	query := `
        INSERT INTO payments AS pm (invoice_number, project_id, amount, payment_method, status, due_date, received_at, notes, created_at, updated_at)
        VALUES ($1, $2, $3::text::numeric, $4, $5::text::payment_status, $6, $7, $8, $9, $9)
        RETURNING ` + paymentColumns
	var pmr paymentRow
	err := r.db.QueryRow(ctx, query,
		in.InvoiceNumber,
		in.ProjectID,
		moneyText(in.Amount),
		in.PaymentMethod,
		string(in.Status),
		in.DueDate,
		model.CompletionStamp(false, nil, in.Status == model.PaymentReceived, now),
		in.Notes,
		now,
	).Scan(pmr.dest()...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to insert payment", zap.Error(err))
		return nil, err
	}

	pm := pmr.payment()
	metrics.IncrementEntityMutation("payment", "create")
	r.logger.Info("Payment inserted successfully",
		zap.Int64("id", pm.ID),
		zap.Int64("project_id", pm.ProjectID),
		zap.String("amount", pm.Amount.String()),
	)
	return &pm, nil
}

// Update applies the patch. received_at moves only when status crosses
// between pending and received.
func (r *PaymentRepository) Update(ctx context.Context, id int64, patch model.PaymentPatch) (*model.Payment, error) {
	defer observe("update", "payments", time.Now())
	r.logger.Debug("Updating payment", zap.Int64("id", id))

	now := r.now()
	b := &sqlBuilder{}
	b.set("updated_at", now)
	if invoice, ok := patch.InvoiceNumber.Get(); ok {
		b.set("invoice_number", invoice)
	}
	if projectID, ok := patch.ProjectID.Get(); ok {
		b.set("project_id", projectID)
	}
	if amount, ok := patch.Amount.Get(); ok {
		b.setExpr("amount = " + b.arg(amount.String()) + "::text::numeric")
	}
	if patch.PaymentMethod.Set {
		b.set("payment_method", patch.PaymentMethod.Ptr())
	}
	if patch.DueDate.Set {
		b.set("due_date", patch.DueDate.Ptr())
	}
	if patch.Notes.Set {
		b.set("notes", patch.Notes.Ptr())
	}
	if next, ok := patch.Status.Get(); ok {
		status := b.arg(string(next))
		stamp := b.arg(now)
		b.setExpr(fmt.Sprintf(`received_at = CASE
                WHEN %[1]s::text <> 'received' THEN NULL
                WHEN pm.status = 'received' AND pm.received_at IS NOT NULL THEN pm.received_at
                ELSE %[2]s::timestamptz
            END`, status, stamp))
		b.setExpr("status = " + status + "::text::payment_status")
	}
	idArg := b.arg(id)

	query := fmt.Sprintf(`UPDATE payments AS pm SET %s WHERE pm.id = %s RETURNING %s`, b.setSQL(), idArg, paymentColumns)
	var pmr paymentRow
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(pmr.dest()...); err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, errs.ErrNotFound
		case db.IsForeignKeyViolation(err):
			return nil, errs.ErrInvalidReference
		}
		r.logger.Error("Failed to update payment", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	pm := pmr.payment()
	metrics.IncrementEntityMutation("payment", "update")
	r.logger.Info("Payment updated successfully",
		zap.Int64("id", id),
		zap.String("status", string(pm.Status)),
	)
	return &pm, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", "payments", time.Now())
	r.logger.Debug("Deleting payment", zap.Int64("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete payment", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}

	metrics.IncrementEntityMutation("payment", "delete")
	r.logger.Info("Payment deleted successfully", zap.Int64("id", id))
	return nil
}

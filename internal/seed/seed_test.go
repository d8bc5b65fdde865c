package seed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/handler"
	"freelancedesk/internal/model"
	"freelancedesk/internal/repository/memory"
	"freelancedesk/pkg/util"
)

func stores(db *memory.DB) handler.Stores {
	return handler.Stores{
		Clients:  db.Clients(),
		Projects: db.Projects(),
		Tasks:    db.Tasks(),
		Payments: db.Payments(),
		Stats:    db.Stats(),
	}
}

func TestRunSeedsOnce(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)
	db := memory.NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	res, err := Run(ctx, stores(db), now, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped || res.Clients != 3 || res.Projects != 3 || res.Tasks != 4 || res.Payments != 3 {
		t.Fatalf("result: %+v", res)
	}

	stats, err := db.Stats().DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ActiveProjectsCount != 1 || stats.TasksToday != 1 || stats.UrgentProjectsCount != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.PendingPaymentsSum.String() != "2050.00" || stats.PaymentsDueSoonSum.String() != "2050.00" {
		t.Fatalf("sums: %s %s", stats.PendingPaymentsSum, stats.PaymentsDueSoonSum)
	}

	again, err := Run(ctx, stores(db), now, zap.NewNop())
	if err != nil || !again.Skipped {
		t.Fatalf("second run: %+v %v", again, err)
	}
}

func TestEnsureUserHashesPassword(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	created, err := EnsureUser(ctx, db.Users(), "marco", "password123", zap.NewNop())
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	u, err := db.Users().FindByUsername(ctx, "marco")
	if err != nil {
		t.Fatal(err)
	}
	if u.Password == "password123" || !util.CheckPassword("password123", u.Password) {
		t.Fatal("password not stored as bcrypt hash")
	}

	created, err = EnsureUser(ctx, db.Users(), "marco", "other", zap.NewNop())
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
}

// racingUsers finds nothing, then loses the insert to another writer.
type racingUsers struct {
	created int
}

func (r *racingUsers) FindByUsername(context.Context, string) (*model.User, error) {
	return nil, errs.ErrNotFound
}

func (r *racingUsers) Create(context.Context, string, string) (*model.User, error) {
	r.created++
	return nil, fmt.Errorf("username %q: %w", "marco", errs.ErrAlreadyExists)
}

func TestEnsureUserToleratesConcurrentCreate(t *testing.T) {
	users := &racingUsers{}
	created, err := EnsureUser(context.Background(), users, "marco", "password123", zap.NewNop())
	if err != nil || created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if users.created != 1 {
		t.Fatalf("Create called %d times", users.created)
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestDB(t *testing.T) (*DB, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)}
	return NewWithClock(c.now), c
}

func seedClientProject(t *testing.T, db *DB) (*model.Client, *model.Project) {
	t.Helper()
	ctx := context.Background()
	c, err := db.Clients().Create(ctx, model.ClientInput{Name: "Tecnosoft SRL", Email: "info@tecnosoft.it"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := db.Projects().Create(ctx, model.ProjectInput{Title: "Sito web", ClientID: c.ID})
	if err != nil {
		t.Fatal(err)
	}
	return c, p
}

func TestDeleteConflicts(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	c, p := seedClientProject(t, db)

	if err := db.Clients().Delete(ctx, c.ID); !errors.Is(err, errs.ErrClientHasProjects) {
		t.Fatalf("client delete: got %v", err)
	}

	amount := model.MustMoney("100")
	pm, err := db.Payments().Create(ctx, model.PaymentInput{InvoiceNumber: "INV-1", ProjectID: p.ID, Amount: &amount})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Projects().Delete(ctx, p.ID); !errors.Is(err, errs.ErrProjectHasDependents) {
		t.Fatalf("project delete: got %v", err)
	}

	if err := db.Payments().Delete(ctx, pm.ID); err != nil {
		t.Fatal(err)
	}
	if err := db.Projects().Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := db.Clients().Delete(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if err := db.Clients().Delete(ctx, c.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestCreateRejectsUnknownParent(t *testing.T) {
	db, _ := newTestDB(t)
	_, err := db.Tasks().Create(context.Background(), model.TaskInput{Title: "Orfano", ProjectID: 42})
	if !errors.Is(err, errs.ErrInvalidReference) {
		t.Fatalf("got %v", err)
	}
}

func TestListNewestFirstWithRelations(t *testing.T) {
	db, clk := newTestDB(t)
	ctx := context.Background()
	_, p := seedClientProject(t, db)

	first, _ := db.Tasks().Create(ctx, model.TaskInput{Title: "Primo", ProjectID: p.ID})
	clk.t = clk.t.Add(time.Minute)
	second, _ := db.Tasks().Create(ctx, model.TaskInput{Title: "Secondo", ProjectID: p.ID})

	tasks, err := db.Tasks().List(ctx, model.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("order: %+v", tasks)
	}
	if tasks[0].Project == nil || tasks[0].Project.Client == nil || tasks[0].Project.Client.Name != "Tecnosoft SRL" {
		t.Fatalf("relations missing: %+v", tasks[0].Project)
	}
	if tasks[0].Priority != model.PriorityMedium {
		t.Fatalf("default priority: %q", tasks[0].Priority)
	}
}

func TestDueTodayFilter(t *testing.T) {
	db, clk := newTestDB(t)
	ctx := context.Background()
	_, p := seedClientProject(t, db)

	today := clk.t
	tomorrow := clk.t.Add(25 * time.Hour)
	if _, err := db.Tasks().Create(ctx, model.TaskInput{Title: "Oggi", ProjectID: p.ID, Deadline: &today}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Tasks().Create(ctx, model.TaskInput{Title: "Domani", ProjectID: p.ID, Deadline: &tomorrow}); err != nil {
		t.Fatal(err)
	}

	tasks, err := db.Tasks().List(ctx, model.TaskFilter{DueToday: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Oggi" {
		t.Fatalf("dueToday: %+v", tasks)
	}
}

func TestTaskCompletionStamp(t *testing.T) {
	db, clk := newTestDB(t)
	ctx := context.Background()
	_, p := seedClientProject(t, db)

	task, _ := db.Tasks().Create(ctx, model.TaskInput{Title: "Compito", ProjectID: p.ID})
	updated, err := db.Tasks().Update(ctx, task.ID, model.TaskPatch{IsCompleted: model.Some(true)})
	if err != nil {
		t.Fatal(err)
	}
	stamped := *updated.CompletedAt

	clk.t = clk.t.Add(time.Hour)
	updated, _ = db.Tasks().Update(ctx, task.ID, model.TaskPatch{IsCompleted: model.Some(true)})
	if !updated.CompletedAt.Equal(stamped) {
		t.Fatalf("stamp moved: %v -> %v", stamped, updated.CompletedAt)
	}
	if !updated.UpdatedAt.Equal(clk.t) {
		t.Fatalf("updatedAt not refreshed")
	}

	updated, _ = db.Tasks().Update(ctx, task.ID, model.TaskPatch{IsCompleted: model.Some(false)})
	if updated.CompletedAt != nil {
		t.Fatal("completedAt not cleared")
	}
}

func TestPaymentReceivedStamp(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	_, p := seedClientProject(t, db)

	amount := model.MustMoney("50")
	pm, err := db.Payments().Create(ctx, model.PaymentInput{
		InvoiceNumber: "INV-9", ProjectID: p.ID, Amount: &amount, Status: model.PaymentReceived,
	})
	if err != nil {
		t.Fatal(err)
	}
	if pm.ReceivedAt == nil {
		t.Fatal("payment created as received should carry receivedAt")
	}

	pm, _ = db.Payments().Update(ctx, pm.ID, model.PaymentPatch{Status: model.Some(model.PaymentPending)})
	if pm.ReceivedAt != nil {
		t.Fatal("receivedAt not cleared")
	}
}

func TestUpcoming(t *testing.T) {
	db, clk := newTestDB(t)
	ctx := context.Background()
	c, _ := seedClientProject(t, db)

	in3 := clk.t.AddDate(0, 0, 3)
	in1 := clk.t.AddDate(0, 0, 1)
	in20 := clk.t.AddDate(0, 0, 20)
	for _, in := range []model.ProjectInput{
		{Title: "Tre giorni", ClientID: c.ID, Deadline: &in3},
		{Title: "Domani", ClientID: c.ID, Deadline: &in1},
		{Title: "Lontano", ClientID: c.ID, Deadline: &in20},
		{Title: "Sospeso", ClientID: c.ID, Deadline: &in1, Status: model.ProjectOnHold},
	} {
		if _, err := db.Projects().Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	projects, err := db.Projects().Upcoming(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].Title != "Domani" || projects[1].Title != "Tre giorni" {
		t.Fatalf("upcoming: %+v", projects)
	}
}

func TestDashboardStats(t *testing.T) {
	db, clk := newTestDB(t)
	ctx := context.Background()
	c, p := seedClientProject(t, db)
	if _, err := db.Projects().Create(ctx, model.ProjectInput{Title: "Senza fattura", ClientID: c.ID}); err != nil {
		t.Fatal(err)
	}

	today := clk.t
	in5 := clk.t.AddDate(0, 0, 5)
	for _, in := range []model.TaskInput{
		{Title: "Fatto oggi", ProjectID: p.ID, Deadline: &today, IsCompleted: true},
		{Title: "Urgente", ProjectID: p.ID, Deadline: &in5, Priority: model.PriorityHigh},
	} {
		if _, err := db.Tasks().Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	soon := clk.t.AddDate(0, 0, 2)
	a1, a2 := model.MustMoney("10.25"), model.MustMoney("25.50")
	for _, in := range []model.PaymentInput{
		{InvoiceNumber: "INV-1", ProjectID: p.ID, Amount: &a1, DueDate: &soon},
		{InvoiceNumber: "INV-2", ProjectID: p.ID, Amount: &a2},
	} {
		if _, err := db.Payments().Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := db.Stats().DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := model.DashboardStats{
		ActiveProjectsCount: 2,
		TasksToday:          1,
		CompletedTasksToday: 1,
		UrgentProjectsCount: 1,
		InvoicesToSendCount: 1,
	}
	if stats.ActiveProjectsCount != want.ActiveProjectsCount ||
		stats.TasksToday != want.TasksToday ||
		stats.CompletedTasksToday != want.CompletedTasksToday ||
		stats.UrgentProjectsCount != want.UrgentProjectsCount ||
		stats.InvoicesToSendCount != want.InvoicesToSendCount {
		t.Fatalf("stats=%+v", stats)
	}
	if stats.PendingPaymentsSum.String() != "35.75" || stats.PaymentsDueSoonSum.String() != "10.25" {
		t.Fatalf("sums: %s %s", stats.PendingPaymentsSum, stats.PaymentsDueSoonSum)
	}
}

func TestUsers(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	if _, err := db.Users().Create(ctx, "admin", "hash"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Users().Create(ctx, "admin", "other"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("duplicate username: got %v", err)
	}
	if _, err := db.Users().FindByUsername(ctx, "ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

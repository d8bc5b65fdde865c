package model

import (
	"testing"
	"time"
)

func TestTaskPatchCompletionLockstep(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	task := Task{Title: "Write copy"}

	TaskPatch{IsCompleted: Some(true)}.Apply(&task, t0)
	if !task.IsCompleted || task.CompletedAt == nil || !task.CompletedAt.Equal(t0) {
		t.Fatalf("false->true should stamp completedAt: %+v", task)
	}

	TaskPatch{IsCompleted: Some(true)}.Apply(&task, t1)
	if !task.CompletedAt.Equal(t0) {
		t.Fatalf("true->true should keep the first stamp, got %v", task.CompletedAt)
	}

	TaskPatch{Title: Some("Write better copy")}.Apply(&task, t1)
	if task.CompletedAt == nil {
		t.Fatal("patch without isCompleted must not touch completedAt")
	}

	TaskPatch{IsCompleted: Some(false)}.Apply(&task, t1)
	if task.IsCompleted || task.CompletedAt != nil {
		t.Fatalf("true->false should clear completedAt: %+v", task)
	}
}

func TestPaymentPatchReceivedLockstep(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	payment := Payment{Status: PaymentPending, Amount: MustMoney("10")}

	PaymentPatch{Status: Some(PaymentReceived)}.Apply(&payment, t0)
	if payment.Status != PaymentReceived || payment.ReceivedAt == nil || !payment.ReceivedAt.Equal(t0) {
		t.Fatalf("pending->received should stamp receivedAt: %+v", payment)
	}

	PaymentPatch{Status: Some(PaymentReceived)}.Apply(&payment, t0.Add(time.Minute))
	if !payment.ReceivedAt.Equal(t0) {
		t.Fatal("received->received should keep the first stamp")
	}

	PaymentPatch{Status: Some(PaymentPending)}.Apply(&payment, t0)
	if payment.ReceivedAt != nil {
		t.Fatal("received->pending should clear receivedAt")
	}
}

func TestPaymentCheckRejectsNegativeAmount(t *testing.T) {
	neg := MustMoney("-0.01")
	zero := MustMoney("0")

	if problems := (PaymentInput{Amount: &neg}).Check(); len(problems) != 1 || problems[0].Field != "amount" {
		t.Fatalf("expected amount problem, got %+v", problems)
	}
	if problems := (PaymentInput{Amount: &zero}).Check(); len(problems) != 0 {
		t.Fatalf("zero is a valid amount, got %+v", problems)
	}
	if problems := (PaymentPatch{Amount: Some(neg)}).Check(); len(problems) != 1 {
		t.Fatalf("expected amount problem on patch, got %+v", problems)
	}
}

func TestPatchCheckRejectsNullOnRequiredColumns(t *testing.T) {
	cases := []struct {
		name  string
		check func() []FieldProblem
		want  []string
	}{
		{"client", ClientPatch{Name: Null[string](), Email: Null[string](), Phone: Null[string]()}.Check, []string{"name", "email"}},
		{"project", ProjectPatch{Title: Null[string](), ClientID: Null[int64](), Notes: Null[string]()}.Check, []string{"title", "clientId"}},
		{"task", TaskPatch{IsCompleted: Null[bool](), Deadline: Null[time.Time]()}.Check, []string{"isCompleted"}},
		{"payment", PaymentPatch{Amount: Null[Money](), Status: Null[PaymentStatus](), DueDate: Null[time.Time]()}.Check, []string{"amount", "status"}},
		{"absent fields", TaskPatch{}.Check, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problems := tc.check()
			if len(problems) != len(tc.want) {
				t.Fatalf("got %+v, want fields %v", problems, tc.want)
			}
			for i, p := range problems {
				if p.Field != tc.want[i] || p.Code != "invalid_type" {
					t.Fatalf("problem %d: %+v, want invalid_type on %s", i, p, tc.want[i])
				}
			}
		})
	}
}

func TestFiltersTreatAllAsNoFilter(t *testing.T) {
	if (ProjectFilter{Status: "all"}).HasStatus() {
		t.Fatal("project status all")
	}
	if !(ProjectFilter{Status: ProjectOnHold}).HasStatus() {
		t.Fatal("project status on_hold")
	}
	if (TaskFilter{Priority: "all"}).HasPriority() {
		t.Fatal("task priority all")
	}
	if (PaymentFilter{}).HasStatus() {
		t.Fatal("empty payment status")
	}
}

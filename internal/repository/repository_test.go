package repository

import (
	"reflect"
	"testing"
	"time"

	"freelancedesk/internal/model"
)

func TestSQLBuilderNumbersPlaceholdersInOrder(t *testing.T) {
	b := &sqlBuilder{}
	b.set("updated_at", "now")
	b.set("name", "Tecnosoft SRL")
	b.and("p.client_id = " + b.arg(int64(7)))

	if got, want := b.setSQL(), "updated_at = $1, name = $2"; got != want {
		t.Fatalf("setSQL()=%q want %q", got, want)
	}
	if got, want := b.whereSQL(), " WHERE p.client_id = $3"; got != want {
		t.Fatalf("whereSQL()=%q want %q", got, want)
	}
	if !reflect.DeepEqual(b.args, []any{"now", "Tecnosoft SRL", int64(7)}) {
		t.Fatalf("args=%v", b.args)
	}
}

func TestSQLBuilderEmptyWhere(t *testing.T) {
	b := &sqlBuilder{}
	if got := b.whereSQL(); got != "" {
		t.Fatalf("whereSQL()=%q want empty", got)
	}
}

func TestBuildersAreIndependent(t *testing.T) {
	first := &sqlBuilder{}
	first.and("a = " + first.arg(1))
	second := &sqlBuilder{}
	second.and("b = " + second.arg(2))
	if second.whereSQL() != " WHERE b = $1" {
		t.Fatalf("second builder leaked state: %q", second.whereSQL())
	}
}

func TestRowConversions(t *testing.T) {
	amount := "3500.5"
	pr := projectRow{p: model.Project{ID: 1, Title: "Sito"}, status: "on_hold", amount: &amount}
	p := pr.project()
	if p.Status != model.ProjectOnHold {
		t.Fatalf("status=%q", p.Status)
	}
	if p.Amount == nil || p.Amount.String() != "3500.50" {
		t.Fatalf("amount=%v", p.Amount)
	}

	pr = projectRow{status: "in_progress"}
	if pr.project().Amount != nil {
		t.Fatal("NULL amount should stay nil")
	}

	pmr := paymentRow{amount: "12.3", status: "received", pm: model.Payment{ReceivedAt: ptrTime(time.Now())}}
	pm := pmr.payment()
	if pm.Amount.String() != "12.30" || pm.Status != model.PaymentReceived {
		t.Fatalf("payment=%+v", pm)
	}

	if moneyText(nil) != nil {
		t.Fatal("moneyText(nil) should be nil")
	}
	m := model.MustMoney("10")
	if got := moneyText(&m); got == nil || *got != "10.00" {
		t.Fatalf("moneyText=%v", got)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"no rows", pgx.ErrNoRows, KindNoRows},
		{"wrapped no rows", fmt.Errorf("get client: %w", pgx.ErrNoRows), KindNoRows},
		{"foreign key", &pgconn.PgError{Code: "23503"}, KindForeignKey},
		{"wrapped foreign key", fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503"}), KindForeignKey},
		{"unique", &pgconn.PgError{Code: "23505"}, KindUnique},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, KindOther},
		{"plain error", errors.New("boom"), KindOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v)=%q want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestOperationOf(t *testing.T) {
	if got := operationOf("\n  SELECT id FROM clients"); got != "select" {
		t.Fatalf("got %q", got)
	}
	if got := operationOf("   "); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}

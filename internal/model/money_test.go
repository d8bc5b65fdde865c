package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"10", "10.00", true},
		{"20.5", "20.50", true},
		{" 5.25 ", "5.25", true},
		{"3500.00", "3500.00", true},
		{"-1.5", "-1.50", true},
		{"1.005", "1.01", true},
		{"abc", "", false},
		{"", "", false},
		{"1,50", "", false},
	}
	for _, tc := range cases {
		got, err := NewMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyOrZero(t *testing.T) {
	if got := MoneyOrZero("not a number"); got.String() != "0.00" {
		t.Fatalf("got %s", got)
	}
	if got := MoneyOrZero("12.30"); got.String() != "12.30" {
		t.Fatalf("got %s", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"20.50"`), &fromString); err != nil {
		t.Fatalf("string input: %v", err)
	}
	if err := json.Unmarshal([]byte(`20.5`), &fromNumber); err != nil {
		t.Fatalf("number input: %v", err)
	}
	if !fromString.Equal(fromNumber.Decimal) {
		t.Fatalf("%s != %s", fromString, fromNumber)
	}

	out, err := json.Marshal(fromNumber)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"20.50"` {
		t.Fatalf("marshal=%s", out)
	}

	var bad Money
	err = json.Unmarshal([]byte(`"twelve"`), &bad)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Field != "amount" {
		t.Fatalf("expected a decode error on amount, got %v", err)
	}
	if err := json.Unmarshal([]byte(`null`), &bad); err == nil {
		t.Fatal("expected error for null amount")
	}
}

func TestMoneyAddIsExact(t *testing.T) {
	sum := Money{}
	for _, s := range []string{"0.10", "0.20", "0.30"} {
		sum = sum.Add(MustMoney(s))
	}
	if sum.String() != "0.60" {
		t.Fatalf("sum=%s", sum)
	}
}

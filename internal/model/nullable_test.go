package model

import (
	"encoding/json"
	"testing"
)

func TestNullableDistinguishesAbsentFromNull(t *testing.T) {
	var patch struct {
		Phone   Nullable[string] `json:"phone"`
		Company Nullable[string] `json:"company"`
		Notes   Nullable[string] `json:"notes"`
	}
	if err := json.Unmarshal([]byte(`{"phone": null, "company": "Acme"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !patch.Phone.Set || patch.Phone.Valid {
		t.Fatalf("phone should be set to null: %+v", patch.Phone)
	}
	if !patch.Company.Set || !patch.Company.Valid || patch.Company.Value != "Acme" {
		t.Fatalf("company should be set: %+v", patch.Company)
	}
	if patch.Notes.Set {
		t.Fatalf("notes should be absent: %+v", patch.Notes)
	}
}

func TestNullableApply(t *testing.T) {
	old := "old"
	phone := &old

	Nullable[string]{}.Apply(&phone)
	if phone == nil || *phone != "old" {
		t.Fatal("absent field must not change the destination")
	}

	Some("new").Apply(&phone)
	if phone == nil || *phone != "new" {
		t.Fatalf("expected new value, got %v", phone)
	}

	Null[string]().Apply(&phone)
	if phone != nil {
		t.Fatalf("expected nil after null, got %q", *phone)
	}
}

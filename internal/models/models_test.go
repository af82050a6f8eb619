package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_JSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("unexpected date %v", d)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-15"` {
		t.Errorf("marshal = %s", out)
	}

	for _, bad := range []string{`"2024-3-15"`, `"15/03/2024"`, `20240315`, `"2024-03-15T10:00:00Z"`} {
		if err := json.Unmarshal([]byte(bad), &d); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestDate_FirstOfMonth(t *testing.T) {
	d := NewDate(2024, time.February, 29).FirstOfMonth()
	if d.String() != "2024-02-01" {
		t.Errorf("FirstOfMonth = %s", d)
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"time", time.Date(2024, 1, 2, 13, 4, 5, 0, time.FixedZone("x", 3600)), "2024-01-02"},
		{"string", "2024-05-06", "2024-05-06"},
		{"timestamp string", "2024-05-06 00:00:00+00:00", "2024-05-06"},
		{"bytes", []byte("2023-12-31"), "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.input); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("got %s, want %s", d, tt.want)
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestTransactionMetadata_RoundTrip(t *testing.T) {
	m := MetadataForTags([]string{"food", "lunch"})
	v, err := m.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != `{"tags":["food","lunch"]}` {
		t.Errorf("value = %v", v)
	}

	var scanned TransactionMetadata
	if err := scanned.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	tx := Transaction{Metadata: &scanned}
	tags := tx.Tags()
	if len(tags) != 2 || tags[0] != "food" || tags[1] != "lunch" {
		t.Errorf("tags = %v", tags)
	}
}

func TestMetadataForTags_Empty(t *testing.T) {
	if MetadataForTags(nil) != nil {
		t.Error("nil tags should produce no metadata")
	}
	if MetadataForTags([]string{}) != nil {
		t.Error("empty tags should produce no metadata")
	}
	if (&Transaction{}).Tags() != nil {
		t.Error("transaction without metadata should have nil tags")
	}
}

func TestTypes_Valid(t *testing.T) {
	if !AccountTypeChecking.Valid() || AccountType("brokerage").Valid() {
		t.Error("account type validation mismatch")
	}
	if !CategoryTypeExpense.Valid() || CategoryType("transfer").Valid() {
		t.Error("category type validation mismatch")
	}
	if !TransactionTypeTransfer.Valid() || TransactionType("investment").Valid() {
		t.Error("transaction type validation mismatch")
	}
}

package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := json.Marshal(struct {
		Day  Date `json:"day"`
		Zero Date `json:"zero"`
	}{Day: d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"day":"2025-03-09","zero":null}` {
		t.Errorf("marshal = %s", data)
	}

	var back struct {
		Day Date `json:"day"`
	}
	if err := json.Unmarshal([]byte(`{"day":"2025-03-09"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Day.Equal(d.Time) {
		t.Errorf("unmarshal = %s, want %s", back.Day, d)
	}

	if err := json.Unmarshal([]byte(`{"day":"09/03/2025"}`), &back); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestDateScan(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", "2025-01-06", "2025-01-06"},
		{"bytes", []byte("2025-01-06"), "2025-01-06"},
		{"timestamp string", "2025-01-06T00:00:00Z", "2025-01-06"},
		{"time keeps local day", time.Date(2025, 1, 6, 23, 30, 0, 0, saoPaulo), "2025-01-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.value); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("scan = %s, want %s", d, tt.want)
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

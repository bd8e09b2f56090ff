package entity

import (
	"errors"
	"testing"
)

func TestExpandRecurrence(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		mode     RecurrenceMode
		wantLen  int
		wantLast string
	}{
		{"single", "2025-01-06", RecurrenceNone, 1, "2025-01-06"},
		{"weekly series", "2025-01-06", RecurrenceContinuous, 12, "2025-03-24"},
		{"crosses year", "2024-12-30", RecurrenceContinuous, 12, "2025-03-17"},
		{"leap day", "2024-02-29", RecurrenceContinuous, 12, "2024-05-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := ExpandRecurrence(tt.base, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(dates) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(dates), tt.wantLen)
			}
			if dates[0].String() != tt.base {
				t.Errorf("first = %s, want %s", dates[0], tt.base)
			}
			if got := dates[len(dates)-1].String(); got != tt.wantLast {
				t.Errorf("last = %s, want %s", got, tt.wantLast)
			}
			for i := 1; i < len(dates); i++ {
				if diff := dates[i].Sub(dates[i-1].Time).Hours(); diff != 24*RecurrenceIntervalDays {
					t.Errorf("gap between %s and %s is %v hours", dates[i-1], dates[i], diff)
				}
			}
		})
	}
}

func TestExpandRecurrenceRejects(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		mode    RecurrenceMode
		wantErr error
	}{
		{"bad date", "06/01/2025", RecurrenceNone, ErrInvalidDate},
		{"impossible date", "2025-02-30", RecurrenceContinuous, ErrInvalidDate},
		{"unknown mode", "2025-01-06", RecurrenceMode("monthly"), ErrInvalidRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandRecurrence(tt.base, tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRecurrenceMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RecurrenceMode
		wantErr bool
	}{
		{"", RecurrenceNone, false},
		{"none", RecurrenceNone, false},
		{" Continuous ", RecurrenceContinuous, false},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRecurrenceMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRecurrenceMode(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRecurrenceMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseConfirmStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    AppointmentStatus
		wantErr bool
	}{
		{"completed", AppointmentStatusCompleted, false},
		{"realizado", AppointmentStatusCompleted, false},
		{"no_show", AppointmentStatusNoShow, false},
		{"FALTOU", AppointmentStatusNoShow, false},
		{"agendado", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseConfirmStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseConfirmStatus(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConfirmStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

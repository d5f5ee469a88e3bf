package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: NewTimeOfDay(9, 0, 0)},
		{in: "09:30:15", want: NewTimeOfDay(9, 30, 15)},
		{in: "17:45:00.000000", want: NewTimeOfDay(17, 45, 0)},
		{in: "24:00:00", want: NewTimeOfDay(24, 0, 0)},
		{in: "24:00:01", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "nine", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseTimeOfDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_ScanAndValue(t *testing.T) {
	var got TimeOfDay
	if err := got.Scan("08:15:00"); err != nil {
		t.Fatalf("Scan(string) error: %v", err)
	}
	if got != NewTimeOfDay(8, 15, 0) {
		t.Fatalf("Scan(string) = %v", got)
	}

	if err := got.Scan(time.Date(0, 1, 1, 13, 5, 7, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time) error: %v", err)
	}
	if got != NewTimeOfDay(13, 5, 7) {
		t.Fatalf("Scan(time) = %v", got)
	}

	if err := got.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}

	v, err := NewTimeOfDay(7, 0, 0).Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if v != "07:00:00" {
		t.Fatalf("Value = %v, want 07:00:00", v)
	}
}

func TestSchedule_Validate(t *testing.T) {
	base := Schedule{DayOfWeek: 1, StartTime: NewTimeOfDay(9, 0, 0), EndTime: NewTimeOfDay(12, 0, 0), SlotDurationMinutes: 15}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	bad := base
	bad.EndTime = bad.StartTime
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for empty window")
	}

	bad = base
	bad.DayOfWeek = 7
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for day 7")
	}

	bad = base
	bad.SlotDurationMinutes = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for zero slot")
	}
}

func TestWeekdayAndDayBounds(t *testing.T) {
	d := time.Date(2026, 1, 7, 23, 59, 0, 0, time.UTC)
	if got := Weekday(d); got != 3 {
		t.Fatalf("Weekday = %d, want 3", got)
	}

	start, end := DayBounds(d)
	if !start.Equal(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("day length = %v", end.Sub(start))
	}
}

package economics

import (
	"testing"
)

func TestSaturdayToMonday(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"Saturday", "2026-01-18", "2026-01-20", true},
		{"AcrossMonth", "2026-01-31", "2026-02-02", true},
		{"AcrossYear", "2025-12-27", "2025-12-29", true},
		{"LeapDay", "2024-02-28", "2024-03-01", true},
		{"Invalid", "invalid", "", false},
		{"Empty", "", "", false},
		{"MonthKey", "2026-01", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SaturdayToMonday(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("SaturdayToMonday(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("SaturdayToMonday(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package layout

import "testing"

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{95, "1:35"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{7200, "2:00:00"},
		{7325, "2:02:05"},
		{-10, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		width, height int
		want          bool
	}{
		{80, 24, false},
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
	}

	for _, tt := range tests {
		if got := IsTooSmall(tt.width, tt.height); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
		}
	}
}

package time_entry

import (
	"testing"
	"time"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2024, time.March, 13, hour, min, sec, 0, time.UTC)
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		interval int
		expect   time.Time
	}{
		{"rounds up to next interval", at(8, 3, 0), 5, at(8, 5, 0)},
		{"boundary stays put", at(8, 5, 0), 5, at(8, 5, 0)},
		{"seconds are discarded before rounding", at(8, 0, 30), 5, at(8, 0, 0)},
		{"one minute interval truncates seconds", at(8, 3, 45), 1, at(8, 3, 0)},
		{"fifteen minute interval", at(9, 1, 0), 15, at(9, 15, 0)},
		{"thirty minute interval crosses the hour", at(9, 31, 0), 30, at(10, 0, 0)},
		{"midnight boundary", at(23, 58, 0), 5, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundUp(tt.input, tt.interval); !got.Equal(tt.expect) {
				t.Fatalf("RoundUp(%s, %d) = %s, want %s", tt.input, tt.interval, got, tt.expect)
			}
		})
	}
}

func TestRoundUpIsIdempotent(t *testing.T) {
	for _, interval := range []int{1, 5, 10, 15, 30} {
		input := at(8, 3, 45)
		once := RoundUp(input, interval)
		twice := RoundUp(once, interval)
		if !twice.Equal(once) {
			t.Fatalf("RoundUp with interval %d is not idempotent: %s -> %s -> %s", interval, input, once, twice)
		}
	}
}

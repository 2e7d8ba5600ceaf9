package analytics

import (
	"strings"
	"testing"
	"time"
)

func TestTruncateQuery(t *testing.T) {
	if got := TruncateQuery("short"); got != "short" {
		t.Errorf("expected unchanged text, got %q", got)
	}

	long := strings.Repeat("a", MaxStoredQueryLength+50)
	if got := TruncateQuery(long); len(got) != MaxStoredQueryLength {
		t.Errorf("expected %d characters, got %d", MaxStoredQueryLength, len(got))
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Notice Period", "notice period"},
		{"  notice   period  ", "notice period"},
		{"NOTICE\tPERIOD", "notice period"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	t.Run("both sides", func(t *testing.T) {
		dr, err := ParseDateRange("2026-08-01", "2026-08-31")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
		if !dr.Start.Equal(wantStart) {
			t.Errorf("expected start at local midnight, got %v", dr.Start)
		}
		// End day runs through its final instant: the bound is the next
		// local midnight, exclusive.
		wantEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
		if !dr.End.Equal(wantEnd) {
			t.Errorf("expected exclusive end at next midnight, got %v", dr.End)
		}
	})

	t.Run("open sides", func(t *testing.T) {
		dr, err := ParseDateRange("", "2026-08-31")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.Start.IsZero() {
			t.Error("expected open start")
		}

		dr, err = ParseDateRange("2026-08-01", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.End.IsZero() {
			t.Error("expected open end")
		}
	})

	t.Run("malformed day", func(t *testing.T) {
		if _, err := ParseDateRange("08/01/2026", ""); err == nil {
			t.Fatal("expected error, got nil")
		}
		if _, err := ParseDateRange("", "yesterday"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestDateRange_Contains(t *testing.T) {
	dr, err := ParseDateRange("2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{
			name: "last minute of the end day is inside",
			t:    time.Date(2026, 8, 31, 23, 59, 0, 0, time.Local),
			want: true,
		},
		{
			name: "midnight after the end day is outside",
			t:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
			want: false,
		},
		{
			name: "start-of-day boundary is inside",
			t:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local),
			want: true,
		},
		{
			name: "just before the start day is outside",
			t:    time.Date(2026, 7, 31, 23, 59, 59, 0, time.Local),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dr.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v): expected %v, got %v", tt.t, tt.want, got)
			}
		})
	}

	t.Run("open sides are unbounded", func(t *testing.T) {
		open := DateRange{}
		if !open.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.Local)) {
			t.Error("fully open range must contain everything")
		}
	})
}

func TestLastDays(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.Local)

	t.Run("covers today and previous days", func(t *testing.T) {
		dr := LastDays(7, now)

		wantStart := time.Date(2026, 8, 26, 0, 0, 0, 0, time.Local)
		if !dr.Start.Equal(wantStart) {
			t.Errorf("expected start %v, got %v", wantStart, dr.Start)
		}
		wantEnd := time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)
		if !dr.End.Equal(wantEnd) {
			t.Errorf("expected end %v, got %v", wantEnd, dr.End)
		}
		if !dr.Contains(now) {
			t.Error("the window must contain now")
		}
	})

	t.Run("minimum of one day", func(t *testing.T) {
		dr := LastDays(0, now)
		if got := dr.End.Sub(dr.Start); got != 24*time.Hour {
			t.Errorf("expected a one-day window, got %v", got)
		}
	})
}

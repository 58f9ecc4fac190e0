package domain

import (
	"testing"
	"time"
)

func TestLessonOverlaps(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	lesson := Lesson{
		StartsAt: base,
		EndsAt:   base.Add(time.Hour),
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical slot", base, base.Add(time.Hour), true},
		{"contained", base.Add(15 * time.Minute), base.Add(30 * time.Minute), true},
		{"overlaps start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
		{"overlaps end", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"back to back before", base.Add(-time.Hour), base, false},
		{"back to back after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"disjoint", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lesson.Overlaps(tc.start, tc.end); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

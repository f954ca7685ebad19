package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/revisehq/revise/internal/apperr"
)

var reviewTime = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func TestScheduleLapseResets(t *testing.T) {
	prev := Fields{EasinessFactor: 2.5, Repetition: 7, Interval: 42}
	got, err := Schedule(prev, Again, reviewTime)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.Repetition != 0 {
		t.Errorf("repetition = %d, want 0", got.Repetition)
	}
	if got.Interval != 1 {
		t.Errorf("interval = %d, want 1", got.Interval)
	}
}

func TestScheduleIntervalGrowth(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		easiness float64
		rating   Rating
		want     int
	}{
		{"hard grows slowly", 10, 2.5, Hard, 12},
		{"hard floors at one", 1, 2.5, Hard, 1}, // round(1.2) = 1
		{"good multiplies by easiness", 6, 2.5, Good, 15},
		{"good rounds half away from zero", 1, 2.5, Good, 3}, // round(2.5) = 3
		{"easy adds a bonus", 10, 2.5, Easy, 33},             // round(10*2.5*1.3)
		{"easy from day one", 1, 2.5, Easy, 3},               // round(3.25) = 3
		{"good at minimum easiness", 10, 1.3, Good, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Schedule(Fields{EasinessFactor: tt.easiness, Interval: tt.interval}, tt.rating, reviewTime)
			if err != nil {
				t.Fatalf("Schedule: %v", err)
			}
			if got.Interval != tt.want {
				t.Errorf("interval = %d, want %d", got.Interval, tt.want)
			}
		})
	}
}

func TestScheduleEasinessUpdate(t *testing.T) {
	tests := []struct {
		name     string
		easiness float64
		rating   Rating
		want     float64
	}{
		{"easy rewards", 2.5, Easy, 2.6},
		{"good is neutral", 2.5, Good, 2.5},
		{"hard penalizes", 2.5, Hard, 2.36},
		{"again penalizes hard", 2.5, Again, 1.7},
		{"floor holds under lapse", 1.3, Again, 1.3},
		{"floor holds under hard", 1.35, Hard, 1.3},
	}
	// delta = 5 - rating; ef' = ef + (0.1 - delta*(0.08 + delta*0.02))
	// Easy:  delta=0 -> +0.10
	// Good:  delta=1 -> 0.1 - 0.10 = 0.00
	// Hard:  delta=2 -> 0.1 - 0.24 = -0.14
	// Again: delta=5 -> 0.1 - 0.90 = -0.80
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Schedule(Fields{EasinessFactor: tt.easiness, Interval: 1}, tt.rating, reviewTime)
			if err != nil {
				t.Fatalf("Schedule: %v", err)
			}
			if got.EasinessFactor != tt.want {
				t.Errorf("easiness = %v, want %v", got.EasinessFactor, tt.want)
			}
		})
	}
}

func TestScheduleRepetitionCount(t *testing.T) {
	got, _ := Schedule(Fields{EasinessFactor: 2.5, Interval: 1, Repetition: 3}, Good, reviewTime)
	if got.Repetition != 4 {
		t.Errorf("repetition = %d, want 4", got.Repetition)
	}
}

func TestScheduleDates(t *testing.T) {
	got, err := Schedule(Fields{EasinessFactor: 2.5, Interval: 6}, Good, reviewTime)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(reviewTime) {
		t.Errorf("lastReviewedAt = %v, want %v", got.LastReviewedAt, reviewTime)
	}
	wantDue := reviewTime.AddDate(0, 0, 15)
	if got.NextReviewDate == nil || !got.NextReviewDate.Equal(wantDue) {
		t.Errorf("nextReviewDate = %v, want %v", got.NextReviewDate, wantDue)
	}
}

func TestScheduleClampsBadInput(t *testing.T) {
	tests := []struct {
		name string
		prev Fields
	}{
		{"zero values", Fields{}},
		{"negative interval", Fields{Interval: -5, EasinessFactor: 2.5}},
		{"easiness below floor", Fields{Interval: 1, EasinessFactor: 0.4}},
		{"negative repetition", Fields{Interval: 1, EasinessFactor: 2.5, Repetition: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range []Rating{Again, Hard, Good, Easy} {
				got, err := Schedule(tt.prev, r, reviewTime)
				if err != nil {
					t.Fatalf("Schedule(%v): %v", r, err)
				}
				if got.Interval < 1 {
					t.Errorf("rating %v: interval = %d, want >= 1", r, got.Interval)
				}
				if got.EasinessFactor < 1.3 {
					t.Errorf("rating %v: easiness = %v, want >= 1.3", r, got.EasinessFactor)
				}
				if got.Repetition < 0 {
					t.Errorf("rating %v: repetition = %d, want >= 0", r, got.Repetition)
				}
			}
		})
	}
}

func TestScheduleZeroEasinessDefaults(t *testing.T) {
	// A missing easiness means default 2.5, not the 1.3 floor.
	got, _ := Schedule(Fields{Interval: 6}, Good, reviewTime)
	if got.Interval != 15 {
		t.Errorf("interval = %d, want 15 (6 * default 2.5)", got.Interval)
	}
}

func TestScheduleInvalidRating(t *testing.T) {
	for _, r := range []Rating{1, 2, 6, -1} {
		_, err := Schedule(Fields{Interval: 1, EasinessFactor: 2.5}, r, reviewTime)
		if !errors.Is(err, apperr.ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", r, err)
		}
	}
}

func TestScheduleIsPure(t *testing.T) {
	prev := Fields{EasinessFactor: 2.17, Repetition: 2, Interval: 9}
	a, err := Schedule(prev, Hard, reviewTime)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Schedule(prev, Hard, reviewTime)
	if err != nil {
		t.Fatal(err)
	}
	if a.EasinessFactor != b.EasinessFactor || a.Interval != b.Interval ||
		a.Repetition != b.Repetition || !a.NextReviewDate.Equal(*b.NextReviewDate) {
		t.Errorf("repeat call differs: %+v vs %+v", a, b)
	}
	if prev.Interval != 9 || prev.EasinessFactor != 2.17 {
		t.Errorf("input mutated: %+v", prev)
	}
}

func TestNewItemFields(t *testing.T) {
	created := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	f := NewItemFields(created)
	if f.EasinessFactor != 2.5 || f.Repetition != 0 || f.Interval != 1 {
		t.Errorf("fields = %+v", f)
	}
	wantDue := time.Date(2026, 2, 1, 23, 0, 0, 0, time.UTC)
	if f.NextReviewDate == nil || !f.NextReviewDate.Equal(wantDue) {
		t.Errorf("nextReviewDate = %v, want %v", f.NextReviewDate, wantDue)
	}
	if f.LastReviewedAt != nil {
		t.Errorf("lastReviewedAt should be unset for a new item")
	}
}

func TestRatingValidAndLabel(t *testing.T) {
	tests := []struct {
		rating Rating
		valid  bool
		label  string
	}{
		{Again, true, "Again"},
		{Hard, true, "Hard"},
		{Good, true, "Good"},
		{Easy, true, "Easy"},
		{1, false, "Unknown"},
		{2, false, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.rating.Valid(); got != tt.valid {
			t.Errorf("Rating(%d).Valid() = %v, want %v", tt.rating, got, tt.valid)
		}
		if got := tt.rating.Label(); got != tt.label {
			t.Errorf("Rating(%d).Label() = %q, want %q", tt.rating, got, tt.label)
		}
	}
}

package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/revisehq/revise/internal/apperr"
)

// Scheduling bounds. Easiness never drops below MinEasiness no matter how
// many lapses occur, which keeps intervals from shrinking without bound.
const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.3
	MinInterval     = 1
)

// growth maps a successful rating to the multiplier applied to the
// previous interval. Good grows by the item's own easiness; the entry
// here is folded in by Schedule.
var growth = map[Rating]float64{
	Hard: 1.2,
	Good: 1.0, // times easiness
	Easy: 1.3, // times easiness
}

// Fields is the scheduling state of an item: exactly the fields a rating
// event replaces, nothing else.
type Fields struct {
	EasinessFactor float64
	Repetition     int
	Interval       int
	NextReviewDate *time.Time
	LastReviewedAt *time.Time
}

// Schedule computes the next scheduling state from the previous one and a
// rating, deterministically. Invalid prior state is clamped (interval
// floored at 1, easiness at 1.3) rather than rejected, so stale or
// hand-imported snapshots cannot corrupt the invariants.
func Schedule(prev Fields, rating Rating, now time.Time) (Fields, error) {
	if !rating.Valid() {
		return Fields{}, fmt.Errorf("srs: rating %d: %w", rating, apperr.ErrInvalidRating)
	}

	interval := prev.Interval
	if interval < MinInterval {
		interval = MinInterval
	}
	easiness := prev.EasinessFactor
	if easiness < MinEasiness {
		if easiness == 0 {
			easiness = DefaultEasiness
		} else {
			easiness = MinEasiness
		}
	}
	repetition := prev.Repetition
	if repetition < 0 {
		repetition = 0
	}

	if rating == Again {
		// A lapse wins over everything: the streak is gone, the item
		// comes back tomorrow.
		repetition = 0
		interval = MinInterval
	} else {
		repetition++
		mult := growth[rating]
		if rating != Hard {
			mult *= easiness
		}
		interval = roundDays(float64(interval) * mult)
	}

	delta := float64(5 - rating)
	next := easiness + (0.1 - delta*(0.08+delta*0.02))
	if next < MinEasiness {
		next = MinEasiness
	}

	reviewed := now
	due := AddDays(now, interval)
	return Fields{
		EasinessFactor: round2(next),
		Repetition:     repetition,
		Interval:       interval,
		NextReviewDate: &due,
		LastReviewedAt: &reviewed,
	}, nil
}

// NewItemFields is the scheduling state of a freshly created item: one
// repetition-free day out, due tomorrow.
func NewItemFields(createdAt time.Time) Fields {
	due := AddDays(createdAt, 1)
	return Fields{
		EasinessFactor: DefaultEasiness,
		Repetition:     0,
		Interval:       MinInterval,
		NextReviewDate: &due,
	}
}

// roundDays rounds to the nearest whole day, half away from zero, and
// floors the result at one day.
func roundDays(days float64) int {
	n := int(math.Round(days))
	if n < MinInterval {
		return MinInterval
	}
	return n
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

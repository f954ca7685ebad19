package srs

import "time"

// Day boundaries are computed in UTC so the same snapshot yields the same
// due set regardless of where the process runs.

const dateKeyLayout = "2006-01-02"

// DateKey collapses an instant to its UTC calendar day, e.g. "2026-08-29".
// Two instants share a key iff they fall on the same UTC day.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// AddDays advances t by n calendar days. This is date arithmetic, not
// elapsed time: the time-of-day component is preserved and irrelevant,
// since only the date key is consulted afterwards.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// IsDue reports whether an item scheduled for nextReview is due as of now.
// An absent date means due: items that were never scheduled should surface
// immediately rather than hide forever.
func IsDue(nextReview *time.Time, now time.Time) bool {
	if nextReview == nil || nextReview.IsZero() {
		return true
	}
	return DateKey(*nextReview) <= DateKey(now)
}

// Package stats derives aggregate statistics from the review log. All
// functions are read-only views recomputed on demand; they share the
// srs date-key semantics so "today" means the same thing everywhere.
package stats

import (
	"time"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/srs"
)

// MasteredInterval is the interval, in days, at which an item counts as
// mastered in the summary.
const MasteredInterval = 30

// DayCount is one bucket of the review histogram.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the dashboard-level aggregate over items and log.
type Summary struct {
	TotalItems    int `json:"totalItems"`
	DueToday      int `json:"dueToday"`
	ReviewedToday int `json:"reviewedToday"`
	Streak        int `json:"streak"`
	Mastered      int `json:"mastered"`
}

// ReviewedToday counts log entries that fall on the same calendar day as now.
func ReviewedToday(log []models.ReviewLogEntry, now time.Time) int {
	today := srs.DateKey(now)
	n := 0
	for _, e := range log {
		if srs.DateKey(e.ReviewedAt) == today {
			n++
		}
	}
	return n
}

// Streak returns the number of consecutive calendar days ending today
// with at least one review. The walk starts at today and moves backward
// one day at a time; if today itself has no review the streak is zero,
// regardless of what happened yesterday.
func Streak(log []models.ReviewLogEntry, now time.Time) int {
	if len(log) == 0 {
		return 0
	}
	covered := make(map[string]struct{}, len(log))
	for _, e := range log {
		covered[srs.DateKey(e.ReviewedAt)] = struct{}{}
	}

	streak := 0
	cursor := now
	for {
		if _, ok := covered[srs.DateKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = srs.AddDays(cursor, -1)
	}
}

// Histogram returns per-day review counts for the last windowDays calendar
// days ending today, oldest first. The result always has exactly
// windowDays entries; days without reviews count zero.
func Histogram(log []models.ReviewLogEntry, now time.Time, windowDays int) []DayCount {
	counts := make(map[string]int, len(log))
	for _, e := range log {
		counts[srs.DateKey(e.ReviewedAt)]++
	}

	out := make([]DayCount, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		key := srs.DateKey(srs.AddDays(now, -i))
		out = append(out, DayCount{Date: key, Count: counts[key]})
	}
	return out
}

// Summarize computes the dashboard summary over the full snapshot.
func Summarize(items []models.Item, log []models.ReviewLogEntry, now time.Time) Summary {
	mastered := 0
	for _, it := range items {
		if it.Interval >= MasteredInterval {
			mastered++
		}
	}
	return Summary{
		TotalItems:    len(items),
		DueToday:      len(srs.DueItems(items, now)),
		ReviewedToday: ReviewedToday(log, now),
		Streak:        Streak(log, now),
		Mastered:      mastered,
	}
}

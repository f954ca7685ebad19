package srs

import (
	"sort"
	"time"

	"github.com/revisehq/revise/internal/models"
)

// DueItems returns the items due as of now, ordered for a study session:
// ascending by next review date, with never-scheduled items first. The
// sort is stable, so items sharing a due date keep their snapshot order.
func DueItems(items []models.Item, now time.Time) []models.Item {
	var due []models.Item
	for _, it := range items {
		if IsDue(it.NextReviewDate, now) {
			due = append(due, it)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReviewDate, due[j].NextReviewDate
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return due
}

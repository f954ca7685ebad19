package studyservice

import (
	"sort"
	"strings"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/srs"
)

// Sort modes for item listings.
const (
	SortNextReview = "next_review"
	SortDateAdded  = "date_added"
	SortDifficulty = "difficulty"
)

// Due filter values.
const (
	DueAll  = "all"
	DueOnly = "due"
	DueNot  = "not_due"
)

// ItemQuery selects and orders items for list views. Zero values and
// "all" mean no filtering on that axis.
type ItemQuery struct {
	Search     string
	Category   string
	Difficulty string
	Tag        string
	Due        string
	SortBy     string
}

var difficultyRank = map[string]int{"Easy": 1, "Medium": 2, "Hard": 3}

// ListItems filters and sorts the item set according to q.
func (s *Service) ListItems(q ItemQuery) []models.Item {
	s.mu.Lock()
	items := s.snap.Items
	now := s.Now()
	s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))

	var out []models.Item
	for _, it := range items {
		if q.Category != "" && q.Category != "all" && it.Category != q.Category {
			continue
		}
		if q.Difficulty != "" && q.Difficulty != "all" && it.Difficulty != q.Difficulty {
			continue
		}
		if q.Tag != "" && q.Tag != "all" && !hasTag(it.Tags, q.Tag) {
			continue
		}
		due := srs.IsDue(it.NextReviewDate, now)
		if q.Due == DueOnly && !due {
			continue
		}
		if q.Due == DueNot && due {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(it.Title + " " + it.Notes + " " + strings.Join(it.Tags, " "))
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, it)
	}

	sortItems(out, q.SortBy)
	return out
}

// Tags returns every distinct tag across the item set, sorted.
func (s *Service) Tags() []string {
	s.mu.Lock()
	items := s.snap.Items
	s.mu.Unlock()

	seen := make(map[string]struct{})
	var tags []string
	for _, it := range items {
		for _, t := range it.Tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func sortItems(items []models.Item, sortBy string) {
	switch sortBy {
	case SortDifficulty:
		sort.SliceStable(items, func(i, j int) bool {
			return rankDifficulty(items[i].Difficulty) < rankDifficulty(items[j].Difficulty)
		})
	case SortDateAdded:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default: // SortNextReview
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].NextReviewDate, items[j].NextReviewDate
			switch {
			case a == nil:
				return b != nil
			case b == nil:
				return false
			default:
				return a.Before(*b)
			}
		})
	}
}

func rankDifficulty(d string) int {
	if r, ok := difficultyRank[d]; ok {
		return r
	}
	return len(difficultyRank) + 1
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

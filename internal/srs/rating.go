// Package srs implements the spaced-repetition scheduler: date-key
// arithmetic, the rating-to-interval transition, and due-item selection.
// Everything in this package is a pure function of its inputs.
package srs

// Rating is the user's self-assessed recall quality for one review.
// The values are a deliberately sparse subset of the SM-2 0..5 scale;
// the gaps act as weights in the easiness update.
type Rating int

const (
	Again Rating = 0 // failed recall, full reset
	Hard  Rating = 3
	Good  Rating = 4
	Easy  Rating = 5
)

// Valid reports whether r is one of the four allowed ratings.
func (r Rating) Valid() bool {
	switch r {
	case Again, Hard, Good, Easy:
		return true
	}
	return false
}

// Label returns the display name of the rating, or "Unknown" for
// out-of-set values.
func (r Rating) Label() string {
	switch r {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	}
	return "Unknown"
}

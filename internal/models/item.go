// Package models defines the domain types for Revise.
package models

import "time"

// Item is a single unit of study material: a coding problem, a note,
// anything worth revisiting. Content fields are opaque to the scheduler;
// the scheduling fields are owned exclusively by the srs package and must
// not be written anywhere else.
type Item struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
	URL        string   `json:"url,omitempty"`

	EasinessFactor float64    `json:"easinessFactor"`
	Repetition     int        `json:"repetition"`
	Interval       int        `json:"interval"`
	NextReviewDate *time.Time `json:"nextReviewDate"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewLogEntry is an immutable record of one rating event. Entries are
// append-only and deleted only when their owning item is deleted.
type ReviewLogEntry struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	Rating     int       `json:"rating"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// Settings holds user preferences persisted with the snapshot.
type Settings struct {
	DarkMode bool `json:"darkMode"`
}

// Snapshot is the entire application state. It moves as one unit: the
// backend stores it as a single document and every save replaces it whole.
type Snapshot struct {
	Items     []Item           `json:"items"`
	ReviewLog []ReviewLogEntry `json:"reviewLog"`
	Settings  Settings         `json:"settings"`
}

package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/stats"
	"github.com/revisehq/revise/internal/studyservice"
)

// ItemRequest is the request body for creating or updating an item.
// Scheduling fields are not accepted: the scheduler owns them.
type ItemRequest struct {
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
	URL        string   `json:"url"`
}

// Validate validates an item request.
func (r ItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Difficulty, validation.In("", "Easy", "Medium", "Hard")),
		validation.Field(&r.URL, is.URL),
	)
}

func (r ItemRequest) input() studyservice.ItemInput {
	return studyservice.ItemInput{
		Title:      r.Title,
		Category:   r.Category,
		Difficulty: r.Difficulty,
		Tags:       r.Tags,
		Notes:      r.Notes,
		URL:        r.URL,
	}
}

// ReviewRequest is the request body for rating an item.
type ReviewRequest struct {
	Rating int `json:"rating"`
}

// SettingsRequest is the request body for updating settings.
type SettingsRequest struct {
	DarkMode bool `json:"darkMode"`
}

// DataResponse wraps the snapshot with the current sync state, so a
// client can show a non-blocking notice when the backend is behind.
type DataResponse struct {
	Data      models.Snapshot `json:"data"`
	SyncError string          `json:"syncError,omitempty"`
}

// ItemListResponse wraps a filtered item listing.
type ItemListResponse struct {
	Items []models.Item `json:"items"`
	Total int           `json:"total"`
	Tags  []string      `json:"tags"`
}

// StatsResponse mirrors studyservice.Report for the API surface.
type StatsResponse struct {
	Summary stats.Summary    `json:"summary"`
	Heatmap []stats.DayCount `json:"heatmap"`
}

// Package snapshot defines the normalization and serialization contract
// for the application state. Every boundary crossing (backend load, save,
// import, export) goes through Normalize or Clean, so the coercion rules
// live in exactly one place.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/revisehq/revise/internal/apperr"
	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/srs"
)

// Default returns the empty-but-valid snapshot used when nothing has been
// persisted yet or nothing could be loaded.
func Default() models.Snapshot {
	return models.Snapshot{
		Items:     []models.Item{},
		ReviewLog: []models.ReviewLogEntry{},
		Settings:  models.Settings{DarkMode: false},
	}
}

// rawSnapshot defers field decoding so a bad items array cannot reject an
// otherwise usable payload.
type rawSnapshot struct {
	Items     json.RawMessage `json:"items"`
	ReviewLog json.RawMessage `json:"reviewLog"`
	Settings  json.RawMessage `json:"settings"`
}

// Normalize parses an arbitrary JSON payload into a valid snapshot.
// The top level must be a JSON object; anything else is a parse error.
// Within it, items and reviewLog must decode as arrays of their record
// types or they are replaced by empty arrays, settings.darkMode is
// coerced to a boolean, and every unknown key is dropped.
func Normalize(raw []byte) (models.Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Snapshot{}, fmt.Errorf("snapshot: top-level value is not an object: %w", apperr.ErrMalformedSnapshot)
	}

	var rs rawSnapshot
	if err := json.Unmarshal(trimmed, &rs); err != nil {
		return models.Snapshot{}, fmt.Errorf("snapshot: parse: %w (%w)", err, apperr.ErrMalformedSnapshot)
	}

	out := Default()
	if len(rs.Items) > 0 {
		var items []models.Item
		if err := json.Unmarshal(rs.Items, &items); err == nil && items != nil {
			out.Items = items
		}
	}
	if len(rs.ReviewLog) > 0 {
		var log []models.ReviewLogEntry
		if err := json.Unmarshal(rs.ReviewLog, &log); err == nil && log != nil {
			out.ReviewLog = log
		}
	}
	if len(rs.Settings) > 0 {
		var settings struct {
			DarkMode any `json:"darkMode"`
		}
		// A non-object settings value falls back to defaults, same as a
		// non-array items value.
		if err := json.Unmarshal(rs.Settings, &settings); err == nil {
			out.Settings.DarkMode = truthy(settings.DarkMode)
		}
	}
	return Clean(out), nil
}

// Clean normalizes an in-memory snapshot: nil slices become empty so the
// serialized form is always {"items":[],...}, and item tag slices are
// made non-nil for the same reason.
func Clean(s models.Snapshot) models.Snapshot {
	if s.Items == nil {
		s.Items = []models.Item{}
	}
	if s.ReviewLog == nil {
		s.ReviewLog = []models.ReviewLogEntry{}
	}
	for i := range s.Items {
		if s.Items[i].Tags == nil {
			s.Items[i].Tags = []string{}
		}
	}
	return s
}

// Export serializes the snapshot as indented JSON, the shape a later
// import accepts unchanged.
func Export(s models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(Clean(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: export: %w", err)
	}
	return data, nil
}

// ExportFilename stamps the download name with the export day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("revise-export-%s.json", srs.DateKey(now))
}

// truthy applies the original coercion rule for darkMode: false, zero,
// empty string and null are false, everything else true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

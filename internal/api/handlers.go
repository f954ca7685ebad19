package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/revisehq/revise/internal/apperr"
	"github.com/revisehq/revise/internal/srs"
	"github.com/revisehq/revise/internal/studyservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *studyservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *studyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetData handles GET /api/data: the whole snapshot plus sync state.
// The ETag header carries the snapshot checksum for later If-Match use.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", fmt.Sprintf("%q", h.svc.Checksum()))
	writeJSON(w, http.StatusOK, DataResponse{
		Data:      h.svc.Data(),
		SyncError: h.svc.SyncError(),
	})
}

// PutData handles PUT /api/data: replace the snapshot wholesale. The body
// is normalized exactly like an import; an If-Match header (if present)
// must match the current snapshot checksum.
func (h *Handler) PutData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	snap, err := h.svc.Replace(r.Context(), body, ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrMalformedSnapshot):
			writeJSON(w, http.StatusBadRequest, errorBody("payload is not a JSON object"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("put data failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("ETag", fmt.Sprintf("%q", h.svc.Checksum()))
	writeJSON(w, http.StatusOK, DataResponse{Data: snap, SyncError: h.svc.SyncError()})
}

// Import handles POST /api/import: same normalization as PutData, no
// concurrency check, session reset.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	snap, err := h.svc.ImportRaw(r.Context(), body)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedSnapshot) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON file"))
			return
		}
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: snap, SyncError: h.svc.SyncError()})
}

// Export handles GET /api/export: the snapshot as a downloadable,
// date-stamped JSON file.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.Export()
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

// ListItems handles GET /api/items with filter and sort query params.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.svc.ListItems(studyservice.ItemQuery{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Tag:        q.Get("tag"),
		Due:        q.Get("due"),
		SortBy:     q.Get("sort"),
	})
	tags := h.svc.Tags()
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, ItemListResponse{
		Items: items,
		Total: len(items),
		Tags:  tags,
	})
}

// CreateItem handles POST /api/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItemRequest(w, r)
	if !ok {
		return
	}
	item, err := h.svc.CreateItem(r.Context(), req.input())
	if err != nil {
		slog.Error("create item failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/{id}. Only content fields change.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := decodeItemRequest(w, r)
	if !ok {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update item failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete item failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReviewItem handles POST /api/items/{id}/review.
func (h *Handler) ReviewItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	item, err := h.svc.RateItem(r.Context(), id, srs.Rating(req.Rating))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidRating):
			writeJSON(w, http.StatusBadRequest, errorBody("rating must be one of 0, 3, 4, 5"))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("review failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DueItems handles GET /api/due.
func (h *Handler) DueItems(w http.ResponseWriter, r *http.Request) {
	items := h.svc.DueItems()
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: len(items), Tags: []string{}})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rep := h.svc.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{Summary: rep.Summary, Heatmap: rep.Heatmap})
}

// GetSession handles GET /api/session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session())
}

// StartSession handles POST /api/session: build a queue from due items.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.StartSession())
}

// UpdateSettings handles PUT /api/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.svc.SetDarkMode(r.Context(), req.DarkMode)
	writeJSON(w, http.StatusOK, h.svc.Data().Settings)
}

func decodeItemRequest(w http.ResponseWriter, r *http.Request) (ItemRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return ItemRequest{}, false
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return ItemRequest{}, false
	}
	return req, true
}

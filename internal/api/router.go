package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/revisehq/revise/internal/studyservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *studyservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Whole-snapshot transfer.
	r.Get("/data", h.GetData)
	r.Put("/data", h.PutData)
	r.Post("/import", h.Import)
	r.Get("/export", h.Export)

	// Items CRUD and rating.
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)
	r.Post("/items/{id}/review", h.ReviewItem)

	// Read-only views.
	r.Get("/due", h.DueItems)
	r.Get("/stats", h.Stats)

	// Study session.
	r.Get("/session", h.GetSession)
	r.Post("/session", h.StartSession)

	// Settings.
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

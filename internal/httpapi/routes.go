package httpapi

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the API routes on router.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/healthz", h.Health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/session", h.Session)

		r.Post("/tabs", h.AddTab)
		r.Patch("/tabs/{id}", h.UpdateTab)
		r.Delete("/tabs/{id}", h.RemoveTab)
		r.Put("/active/{id}", h.SetActive)

		r.Post("/run", h.Run)
		r.Get("/export.csv", h.ExportCSV)
		r.Get("/history", h.History)

		r.Get("/prefs", h.Prefs)
		r.Put("/prefs", h.UpdatePrefs)
	})
}

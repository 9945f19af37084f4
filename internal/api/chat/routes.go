package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat endpoints on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)
	r.Post("/chatbot", h.ExecuteTrigger)
}

package handlers

import (
	"net/http"

	"sova-backend/internal/models"
)

const Version = "1.0.0"

type HealthHandler struct {
	modelName string
}

func NewHealthHandler(modelName string) *HealthHandler {
	return &HealthHandler{modelName: modelName}
}

// Health answers GET / with a static descriptor. No upstream call is made,
// so this succeeds even when Gemini is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Message: "Sova Chatbot API is running. Use the /chat endpoint to interact.",
		Version: Version,
		Model:   h.modelName,
	})
}

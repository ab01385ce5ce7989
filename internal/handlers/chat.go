package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"sova-backend/internal/models"
	"sova-backend/internal/services"
)

// chatService is the slice of the Gemini service the chat handler needs;
// tests inject a fake.
type chatService interface {
	Chat(ctx context.Context, message string, history []models.HistoryEntry) (*services.ChatResult, error)
}

type ChatHandler struct {
	chat chatService
}

func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat forwards the user message plus caller-held history to the model and
// returns the reply along with the updated history. The server keeps no
// conversation state; the caller resends the returned history next turn.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("Message is required"))
		return
	}

	if req.History == nil {
		req.History = []models.HistoryEntry{}
	}

	result, err := h.chat.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		log.Printf("chat request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError,
			errorResp(fmt.Sprintf("Internal server error: %v", err)))
		return
	}

	if result.Blocked {
		// Echo the inbound history untouched; the blocked exchange is
		// never appended.
		writeJSON(w, http.StatusOK, models.ChatResponse{
			Response: services.SafetyRefusal,
			History:  req.History,
		})
		return
	}

	history := result.History
	if history == nil {
		history = []models.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response: result.Reply,
		History:  history,
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"google.golang.org/api/option"

	"sova-backend/internal/models"
)

// ChatResult is the outcome of one chat exchange. When Blocked is set the
// model output was suppressed by the safety filter and History is empty;
// the caller's own history remains authoritative.
type ChatResult struct {
	Reply   string
	History []models.HistoryEntry
	Blocked bool
}

type GeminiService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	timeout   time.Duration
	rateChan  chan struct{} // Token bucket
}

func NewGeminiService(apiKey, modelName string, concurrentReqs int, timeout time.Duration, opts ...option.ClientOption) (*GeminiService, error) {
	ctx := context.Background()
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetTopK(60)
	model.SetMaxOutputTokens(1024)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(sovaPersona)},
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	// Token bucket capping in-flight upstream calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:    client,
		model:     model,
		modelName: modelName,
		timeout:   timeout,
		rateChan:  rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// ModelName reports the configured Gemini model identifier.
func (s *GeminiService) ModelName() string {
	return s.modelName
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Chat runs one exchange against a chat session seeded with the caller's
// history. The session lives for the duration of the call; nothing is kept
// between requests.
func (s *GeminiService) Chat(ctx context.Context, message string, history []models.HistoryEntry) (*ChatResult, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session := s.model.StartChat()
	session.History = toGenaiHistory(history)

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		// The SDK surfaces safety- and recitation-suppressed output as a
		// BlockedError rather than a response; that is the blocked
		// outcome, not a failure.
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return &ChatResult{Blocked: true}, nil
		}
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	if isSafetyBlocked(resp) {
		return &ChatResult{Blocked: true}, nil
	}

	// session.History now holds the seeded turns plus the new user and
	// model turns appended by SendMessage.
	return &ChatResult{
		Reply:   extractText(resp),
		History: fromGenaiHistory(session.History),
	}, nil
}

// isSafetyBlocked reports whether a response the SDK handed back without
// error still carries a suppressed candidate (FinishReasonSafety) or a
// blocked prompt (no candidates, BlockReasonSafety). The SDK normally
// reports these as BlockedError, which Chat handles first.
func isSafetyBlocked(resp *genai.GenerateContentResponse) bool {
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	if len(resp.Candidates) == 0 && resp.PromptFeedback != nil {
		return resp.PromptFeedback.BlockReason == genai.BlockReasonSafety
	}
	return false
}

// toGenaiHistory translates wire-format turns into genai contents,
// preserving role and part order.
func toGenaiHistory(history []models.HistoryEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, entry := range history {
		parts := make([]genai.Part, 0, len(entry.Parts))
		for _, p := range entry.Parts {
			parts = append(parts, genai.Text(p.Text))
		}
		contents = append(contents, &genai.Content{Role: entry.Role, Parts: parts})
	}
	return contents
}

// fromGenaiHistory is the inverse of toGenaiHistory. Non-text parts are
// skipped; chat sessions here only ever carry text.
func fromGenaiHistory(contents []*genai.Content) []models.HistoryEntry {
	history := make([]models.HistoryEntry, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}
		entry := models.HistoryEntry{Role: content.Role, Parts: []models.HistoryPart{}}
		for _, part := range content.Parts {
			if t, ok := part.(genai.Text); ok {
				entry.Parts = append(entry.Parts, models.HistoryPart{Text: string(t)})
			}
		}
		history = append(history, entry)
	}
	return history
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"

	"google.golang.org/api/option"

	"sova-backend/internal/models"
)

// newTestService wires a GeminiService to a fake upstream.
func newTestService(t *testing.T, upstream http.HandlerFunc) *GeminiService {
	t.Helper()

	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	svc, err := NewGeminiService("test-key", "gemini-2.5-flash", 1, 5*time.Second,
		option.WithEndpoint(ts.URL))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

// ─── Chat Tests (fake upstream) ───

func TestChat_UpstreamSafetyBlock_ReturnsBlocked(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"candidates": [{"finishReason": "SAFETY", "index": 0}]}]`))
	})

	result, err := svc.Chat(context.Background(), "blocked question", nil)
	if err != nil {
		t.Fatalf("Expected blocked outcome, got error: %v", err)
	}
	if !result.Blocked {
		t.Error("Expected Blocked to be true")
	}
	if len(result.History) != 0 {
		t.Errorf("Expected no history on blocked result, got %d entries", len(result.History))
	}
}

func TestChat_UpstreamRecitationBlock_ReturnsBlocked(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"candidates": [{"finishReason": "RECITATION", "index": 0}]}]`))
	})

	result, err := svc.Chat(context.Background(), "recite something verbatim", nil)
	if err != nil {
		t.Fatalf("Expected blocked outcome, got error: %v", err)
	}
	if !result.Blocked {
		t.Error("Expected Blocked to be true")
	}
}

func TestChat_Success_AppendsUserAndModelTurns(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"candidates": [{"content": {"role": "model", "parts": [{"text": "We deploy autonomous AI agents."}]}, "finishReason": "STOP", "index": 0}]}]`))
	})

	result, err := svc.Chat(context.Background(), "What services do you offer?", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.Blocked {
		t.Fatal("Expected unblocked result")
	}
	if result.Reply != "We deploy autonomous AI agents." {
		t.Errorf("Unexpected reply: %q", result.Reply)
	}
	if len(result.History) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(result.History))
	}
	if result.History[0].Role != "user" || result.History[0].Parts[0].Text != "What services do you offer?" {
		t.Errorf("Expected first turn to echo the user message, got %+v", result.History[0])
	}
	if result.History[1].Role != "model" {
		t.Errorf("Expected second turn role 'model', got %q", result.History[1].Role)
	}
}

func TestChat_UpstreamFailure_ReturnsError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 429, "message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})

	result, err := svc.Chat(context.Background(), "hello", nil)
	if err == nil {
		t.Fatalf("Expected error, got result: %+v", result)
	}
}

// ─── History Translation Tests ───

func TestHistoryRoundTrip(t *testing.T) {
	original := []models.HistoryEntry{
		{Role: "user", Parts: []models.HistoryPart{{Text: "What services do you offer?"}}},
		{Role: "model", Parts: []models.HistoryPart{
			{Text: "We offer AI readiness audits"},
			{Text: " and custom agent development."},
		}},
		{Role: "user", Parts: []models.HistoryPart{{Text: "Tell me about pricing"}}},
	}

	result := fromGenaiHistory(toGenaiHistory(original))

	if len(result) != len(original) {
		t.Fatalf("Expected %d entries, got %d", len(original), len(result))
	}
	for i, entry := range result {
		if entry.Role != original[i].Role {
			t.Errorf("Entry %d: expected role %q, got %q", i, original[i].Role, entry.Role)
		}
		if len(entry.Parts) != len(original[i].Parts) {
			t.Fatalf("Entry %d: expected %d parts, got %d", i, len(original[i].Parts), len(entry.Parts))
		}
		for j, part := range entry.Parts {
			if part.Text != original[i].Parts[j].Text {
				t.Errorf("Entry %d part %d: expected %q, got %q", i, j, original[i].Parts[j].Text, part.Text)
			}
		}
	}
}

func TestToGenaiHistory_Empty(t *testing.T) {
	contents := toGenaiHistory(nil)
	if len(contents) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(contents))
	}
}

func TestFromGenaiHistory_SkipsNonTextParts(t *testing.T) {
	contents := []*genai.Content{
		{Role: "user", Parts: []genai.Part{
			genai.Text("hello"),
			genai.Blob{MIMEType: "image/png", Data: []byte{0x1}},
		}},
	}

	history := fromGenaiHistory(contents)

	if len(history) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(history))
	}
	if len(history[0].Parts) != 1 || history[0].Parts[0].Text != "hello" {
		t.Errorf("Expected single text part 'hello', got %+v", history[0].Parts)
	}
}

// ─── Safety Detection Tests ───

func TestIsSafetyBlocked(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		expected bool
	}{
		{
			"candidate finished with safety",
			&genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			true,
		},
		{
			"prompt blocked by safety",
			&genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			true,
		},
		{
			"normal stop",
			&genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					FinishReason: genai.FinishReasonStop,
					Content:      &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("hi")}},
				}},
			},
			false,
		},
		{
			"no candidates, no feedback",
			&genai.GenerateContentResponse{},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSafetyBlocked(tc.resp); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestExtractText_ConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text("We deploy "), genai.Text("autonomous agents.")},
			},
		}},
	}

	if got := extractText(resp); got != "We deploy autonomous agents." {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestSafetyRefusal_NonEmpty(t *testing.T) {
	if SafetyRefusal == "" {
		t.Error("Safety refusal text must not be empty")
	}
}

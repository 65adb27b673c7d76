package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/namc/permit-scout/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", server.URL, "test-model")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, server
}

func textReply(text string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return payload
}

func TestNewClient_MissingKey(t *testing.T) {
	if _, err := NewClient("", "", ""); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestComplete_SendsCredentialsAndModel(t *testing.T) {
	var gotReq messagesRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write(textReply("hello"))
	})

	got, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 100 {
		t.Fatalf("request not forwarded faithfully: %+v", gotReq)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	})

	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100); err == nil {
		t.Fatal("expected upstream error to propagate")
	}
}

func TestAnalyzePermit_ParsesEmbeddedJSON(t *testing.T) {
	reply := `Based on the permit details, here is my analysis:
{
  "opportunity_score": 0.82,
  "complexity_score": 0.4,
  "risk_factors": ["tight timeline"],
  "project_complexity": "medium",
  "competition_level": "high",
  "timeline_estimate_days": 45,
  "recommendations": ["Bid early"],
  "cost_range": {"low": 20000, "high": 35000, "confidence": 0.7}
}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(textReply(reply))
	})

	analysis, err := client.AnalyzePermit(context.Background(), models.Permit{PermitNumber: "P-1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.OpportunityScore != 0.82 {
		t.Fatalf("expected score 0.82, got %v", analysis.OpportunityScore)
	}
	if analysis.ProjectComplexity != models.LevelMedium {
		t.Fatalf("expected medium complexity, got %s", analysis.ProjectComplexity)
	}
	if analysis.CostRange == nil || analysis.CostRange.Low > analysis.CostRange.High {
		t.Fatalf("cost range invariant violated: %+v", analysis.CostRange)
	}
}

func TestAnalyzePermit_NoJSONInReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(textReply("I am unable to assess this permit."))
	})

	_, err := client.AnalyzePermit(context.Background(), models.Permit{PermitNumber: "P-1"}, nil)
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}

func TestEstimateCost_NormalizesInvertedRange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(textReply(`{"low": 50000, "high": 30000, "confidence": 0.6}`))
	})

	estimate, err := client.EstimateCost(context.Background(), models.Permit{PermitNumber: "P-2"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.Low > estimate.High {
		t.Fatalf("expected low <= high, got %+v", estimate)
	}
}

func TestChat_AppendsHistory(t *testing.T) {
	var gotReq messagesRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write(textReply("sure"))
	})

	history := []Message{
		{Role: "user", Content: "what permits need bonding?"},
		{Role: "assistant", Content: "typically public works"},
	}
	reply, err := client.Chat(context.Background(), "and in Oakland?", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "sure" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(gotReq.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[2].Content != "and in Oakland?" {
		t.Fatalf("latest message not appended last: %+v", gotReq.Messages)
	}
}

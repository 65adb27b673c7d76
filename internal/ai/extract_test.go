package ai

import (
	"errors"
	"testing"
)

func TestExtractJSONObject_Simple(t *testing.T) {
	got, ok := ExtractJSONObject(`{"a": 1}`)
	if !ok {
		t.Fatal("expected object to be found")
	}
	if got != `{"a": 1}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObject_SurroundedByProse(t *testing.T) {
	reply := `Here is my assessment of the permit:

{"opportunity_score": 0.8, "risk_factors": ["site access"]}

Let me know if you need more detail.`
	got, ok := ExtractJSONObject(reply)
	if !ok {
		t.Fatal("expected object to be found")
	}
	if got != `{"opportunity_score": 0.8, "risk_factors": ["site access"]}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	reply := `{"cost_range": {"low": 1000, "high": 2000}, "score": 0.5}`
	got, ok := ExtractJSONObject("prefix " + reply + " suffix {\"other\": true}")
	if !ok {
		t.Fatal("expected object to be found")
	}
	if got != reply {
		t.Fatalf("expected first outermost object, got %s", got)
	}
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	reply := `{"notes": "use {brackets} carefully", "quote": "she said \"ok}\""}`
	got, ok := ExtractJSONObject(reply)
	if !ok {
		t.Fatal("expected object to be found")
	}
	if got != reply {
		t.Fatalf("string-literal braces broke matching: %s", got)
	}
}

func TestExtractJSONObject_Truncated(t *testing.T) {
	if _, ok := ExtractJSONObject(`{"a": {"b": 1}`); ok {
		t.Fatal("expected truncated object to be rejected")
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	if _, ok := ExtractJSONObject("no json here, sorry"); ok {
		t.Fatal("expected no object")
	}
}

func TestDecodeReply_MarkdownFences(t *testing.T) {
	var target struct {
		Score float64 `json:"score"`
	}
	err := decodeReply("```json\n{\"score\": 0.9}\n```", &target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Score != 0.9 {
		t.Fatalf("expected 0.9, got %v", target.Score)
	}
}

func TestDecodeReply_NoJSON(t *testing.T) {
	var target struct{}
	err := decodeReply("I could not complete the analysis.", &target)
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}

func TestDecodeReply_MalformedJSON(t *testing.T) {
	var target struct {
		Score float64 `json:"score"`
	}
	err := decodeReply(`{"score": not-a-number}`, &target)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrNoJSON) {
		t.Fatal("malformed JSON should not be reported as missing JSON")
	}
}

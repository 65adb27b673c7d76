package permits

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClient_MissingKey(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestSearch_EncodesFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/permits/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing credential header")
		}
		q := r.URL.Query()
		if q.Get("city") != "Oakland" || q.Get("state") != "CA" {
			t.Errorf("geography not forwarded: %v", q)
		}
		if q.Get("issued_after") != "2026-01-15" {
			t.Errorf("date not forwarded: %v", q)
		}
		if q.Get("limit") != "25" {
			t.Errorf("limit not forwarded: %v", q)
		}
		w.Write([]byte(`{"permits": [{"id": "1", "permit_number": "P-1", "type": "roofing", "status": "issued"}]}`))
	})

	found, err := client.Search(context.Background(), SearchFilters{
		City:        "Oakland",
		State:       "CA",
		IssuedAfter: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Limit:       25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0].PermitNumber != "P-1" {
		t.Fatalf("unexpected result: %+v", found)
	}
}

func TestSearch_StripsHTMLDescriptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"permits": [{"id": "1", "permit_number": "P-1", "description": "<p>Kitchen &amp; bath   remodel</p>"}]}`))
	})

	found, err := client.Search(context.Background(), SearchFilters{City: "Oakland"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found[0].Description != "Kitchen & bath remodel" {
		t.Fatalf("description not cleaned: %q", found[0].Description)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetByID(context.Background(), "1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected generic upstream error, got %v", err)
	}
}

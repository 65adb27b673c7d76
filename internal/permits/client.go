package permits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/namc/permit-scout/internal/models"
)

const defaultBaseURL = "https://api.shovels.ai"

// ErrNotFound is returned when the permit source has no record for an id.
var ErrNotFound = errors.New("permit not found")

// SearchFilters are the criteria pushed to the upstream permit source.
// Valuation bounds are deliberately absent: the upstream API does not support
// them, so the analysis service filters locally.
type SearchFilters struct {
	City         string
	State        string
	PermitType   string
	Status       models.PermitStatus
	IssuedAfter  time.Time
	IssuedBefore time.Time
	Limit        int
}

// Client is the external permit source adapter. Failures are fatal for the
// current request; no retry policy beyond what the upstream provides.
type Client struct {
	BaseURL string
	apiKey  string
	http    *http.Client
}

// NewClient fails fast on a missing credential.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("permits: missing API key")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type searchResponse struct {
	Permits []models.Permit `json:"permits"`
}

// Search fetches raw permit records matching the filters.
func (c *Client) Search(ctx context.Context, f SearchFilters) ([]models.Permit, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	if f.PermitType != "" {
		q.Set("permit_type", f.PermitType)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if !f.IssuedAfter.IsZero() {
		q.Set("issued_after", f.IssuedAfter.Format("2006-01-02"))
	}
	if !f.IssuedBefore.IsZero() {
		q.Set("issued_before", f.IssuedBefore.Format("2006-01-02"))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var parsed searchResponse
	if err := c.get(ctx, "/v2/permits/search?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	for i := range parsed.Permits {
		parsed.Permits[i].Description = DescriptionText(parsed.Permits[i].Description)
	}
	return parsed.Permits, nil
}

// GetByID fetches a single permit record. Returns ErrNotFound when the id has
// no matching record.
func (c *Client) GetByID(ctx context.Context, id string) (models.Permit, error) {
	var permit models.Permit
	if err := c.get(ctx, "/v2/permits/"+url.PathEscape(id), &permit); err != nil {
		return models.Permit{}, err
	}
	permit.Description = DescriptionText(permit.Description)
	return permit, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("permit source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("permit source returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode permit source response: %w", err)
	}
	return nil
}

// Package clio is a minimal client for the practice-management REST API:
// custom-field updates, matter stage changes, calendar entries, and notes.
// Only the endpoints the intake pipeline touches are covered.
package clio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://app.clio.com/api/v4"

// Client calls the practice-management API with a bearer token
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given access token
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a client against a non-default API base,
// used by tests and sandbox environments
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CustomFieldIDs fetches the id of every custom field, keyed by
// lowercased field name
func (c *Client) CustomFieldIDs(ctx context.Context) (map[string]int, error) {
	var resp struct {
		Data []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}

	err := c.do(ctx, http.MethodGet, "/custom_fields?fields=id,name&page_size=100", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("custom fields fetch failed: %w", err)
	}

	ids := make(map[string]int, len(resp.Data))
	for _, field := range resp.Data {
		ids[strings.ToLower(field.Name)] = field.ID
	}
	return ids, nil
}

type customFieldValue struct {
	CustomField struct {
		ID int `json:"id"`
	} `json:"custom_field"`
	Value string `json:"value"`
}

// UpdateMatterFields PATCHes the matter's custom-field values. Field names
// with no matching custom field are skipped; the caller already filtered
// empty values.
func (c *Client) UpdateMatterFields(ctx context.Context, matterID string, fieldIDs map[string]int, values map[string]string) (int, error) {
	fieldValues := make([]customFieldValue, 0, len(values))
	for name, value := range values {
		id, ok := fieldIDs[strings.ToLower(name)]
		if !ok {
			continue
		}
		fv := customFieldValue{Value: value}
		fv.CustomField.ID = id
		fieldValues = append(fieldValues, fv)
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"custom_field_values": fieldValues,
		},
	}

	if err := c.do(ctx, http.MethodPatch, "/matters/"+matterID, body, nil); err != nil {
		return 0, fmt.Errorf("matter update failed: %w", err)
	}
	return len(fieldValues), nil
}

// ChangeStage moves the matter to the named stage and opens it
func (c *Client) ChangeStage(ctx context.Context, matterID, stage string) error {
	body := map[string]interface{}{
		"data": map[string]interface{}{
			"status": "open",
			"stage":  stage,
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/matters/"+matterID, body, nil); err != nil {
		return fmt.Errorf("stage change to %q failed: %w", stage, err)
	}
	return nil
}

// CreateCalendarEntry creates an all-day deadline entry on the matter's
// calendar for the given ISO date
func (c *Client) CreateCalendarEntry(ctx context.Context, matterID, summary, description, date string) error {
	id, err := strconv.Atoi(matterID)
	if err != nil {
		return fmt.Errorf("invalid matter id %q: %w", matterID, err)
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"summary":     summary,
			"description": description,
			"start_at":    date + "T09:00:00-05:00",
			"end_at":      date + "T09:30:00-05:00",
			"all_day":     true,
			"matter":      map[string]interface{}{"id": id},
		},
	}
	if err := c.do(ctx, http.MethodPost, "/calendar_entries", body, nil); err != nil {
		return fmt.Errorf("calendar entry failed: %w", err)
	}
	return nil
}

// CreateNote attaches an audit note to the matter
func (c *Client) CreateNote(ctx context.Context, matterID, detail string) error {
	id, err := strconv.Atoi(matterID)
	if err != nil {
		return fmt.Errorf("invalid matter id %q: %w", matterID, err)
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"detail":    detail,
			"regarding": map[string]interface{}{"id": id, "type": "Matter"},
		},
	}
	if err := c.do(ctx, http.MethodPost, "/notes", body, nil); err != nil {
		return fmt.Errorf("note creation failed: %w", err)
	}
	return nil
}

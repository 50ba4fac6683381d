package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// RemoteStore talks to a hosted media service over its admin API. The
// service exposes a search endpoint taking a boolean tag expression and an
// upload endpoint taking multipart form data.
type RemoteStore struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

// NewRemote creates a media host client for the given API root.
func NewRemote(baseURL, apiKey, apiSecret string) *RemoteStore {
	return &RemoteStore{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		APISecret: apiSecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search posts a disjunctive tag expression, asking the host for the newest
// matches first.
func (r *RemoteStore) Search(ctx context.Context, q Query) ([]Asset, error) {
	terms := make([]string, len(q.AnyTags))
	for i, tag := range q.AnyTags {
		terms[i] = "tags:" + tag
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"expression":  strings.Join(terms, " OR "),
		"sort_by":     []map[string]string{{"created_at": "desc"}},
		"max_results": q.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL+"/resources/search", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.APIKey, r.APISecret)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Resources []Asset `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return response.Resources, nil
}

// Upload sends the image and its tags as multipart form data and returns the
// canonical asset record the host assigned.
func (r *RemoteStore) Upload(ctx context.Context, data []byte, filename string, tags []string) (*Asset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if len(tags) > 0 {
		if err := mw.WriteField("tags", strings.Join(tags, ",")); err != nil {
			return nil, fmt.Errorf("failed to write tags field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL+"/image/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(r.APIKey, r.APISecret)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &asset, nil
}

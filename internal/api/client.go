// Package api is the client-side binding to the nomnom server, used by the
// CLI subcommands and the batch upload orchestrator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/nomnom-app/nomnom/internal/media"
)

// Client talks to one nomnom server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Tags fetches the full tag catalog snapshot.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tags request: %w", err)
	}

	var tagList []string
	if err := c.do(req, &tagList); err != nil {
		return nil, err
	}
	return tagList, nil
}

// Find returns assets carrying at least one of the given tags, newest first.
func (c *Client) Find(ctx context.Context, tagList []string) ([]media.Asset, error) {
	requestBody, err := json.Marshal(map[string]interface{}{"tags": tagList})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal find request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/find", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create find request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var assets []media.Asset
	if err := c.do(req, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// UploadResponse is the server's record of a stored image.
type UploadResponse struct {
	Message  string   `json:"message"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
	PublicID string   `json:"public_id"`
}

// Upload sends one image with its comma-separated tag text and returns the
// stored asset URL. It satisfies the batch orchestrator's Uploader.
func (c *Client) Upload(ctx context.Context, data []byte, filename, mimeType, tagsText string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	hdr.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image part: %w", err)
	}
	if tagsText != "" {
		if err := mw.WriteField("tags", tagsText); err != nil {
			return "", fmt.Errorf("failed to write tags field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp UploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// do sends the request and decodes a 200 response into out. Error responses
// carry a JSON body with an "error" field, surfaced as the error message.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("%s", errBody.Error)
		}
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Package remote implements the client for the hosted preview-parsing
// service. The service is a drop-in alternate producer of the same
// ImportResult contract as the local parser; callers try it first and fall
// back to parsing locally on any failure.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/formworks/survey-import-service/internal/models"
)

// ParserClient asks a remote service to parse import content.
type ParserClient interface {
	ParsePreview(ctx context.Context, content []byte, source models.SourceType) (*models.ImportResult, error)
}

type parseRequest struct {
	Content    string            `json:"content"`
	SourceType models.SourceType `json:"source_type"`
}

type httpParserClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPParserClient creates a client for the remote preview parser. An
// empty baseURL returns nil, which callers treat as "remote parsing
// disabled".
func NewHTTPParserClient(baseURL string, timeout time.Duration) ParserClient {
	if baseURL == "" {
		return nil
	}
	return &httpParserClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *httpParserClient) ParsePreview(ctx context.Context, content []byte, source models.SourceType) (*models.ImportResult, error) {
	body, err := json.Marshal(parseRequest{
		Content:    string(content),
		SourceType: source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote parser unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote parser returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read remote parser response: %w", err)
	}

	var result models.ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("remote parser response has unexpected shape: %w", err)
	}

	// A response that decodes but carries none of the contract fields is a
	// shape mismatch, not an empty result.
	if result.Questions == nil && result.Errors == nil {
		return nil, fmt.Errorf("remote parser response has unexpected shape: no questions or errors field")
	}

	return &result, nil
}

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the web-search collaborator contract consumed by the research core
type Client interface {
	// Search returns a single text summary of the top results. An empty
	// string with nil error means the provider had nothing for the query.
	Search(ctx context.Context, query string, maxResults int) (string, error)
}

// ErrNotConfigured is returned when no API key is available; callers degrade
// to a plan without web data instead of failing the request.
var ErrNotConfigured = errors.New("websearch: API key is missing")

// SerperClient queries the Serper Google-search API
type SerperClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

var _ Client = &SerperClient{}

func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		APIKey:  apiKey,
		BaseURL: "https://google.serper.dev/search",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
	KnowledgeGraph *struct {
		Description string `json:"description"`
		Snippet     string `json:"snippet"`
	} `json:"knowledgeGraph"`
}

func (s *SerperClient) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return "", ErrNotConfigured
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	payload, err := json.Marshal(serperRequest{Q: query, Num: maxResults})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serper http %d: %s", resp.StatusCode, string(body))
	}

	var data serperResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("decode serper response: %w", err)
	}

	parts := make([]string, 0, maxResults+1)

	// Knowledge graph summary leads when present
	if kg := data.KnowledgeGraph; kg != nil {
		text := kg.Description
		if text == "" {
			text = kg.Snippet
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	organic := data.Organic
	if len(organic) > maxResults {
		organic = organic[:maxResults]
	}
	for _, o := range organic {
		parts = append(parts, fmt.Sprintf("%s: %s", o.Title, o.Snippet))
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

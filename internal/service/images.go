package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultImageSearchURL = "https://api.pexels.com/v1/search"

// ImageService enriches destinations with a representative photo. It is an
// optional capability: with no credential the service is constructed
// disabled and every lookup is a no-op. The decision is made once at
// startup, never inferred per call.
type ImageService struct {
	apiKey     string
	BaseURL    string
	enabled    bool
	httpClient *http.Client
}

// NewImageService creates a new image service; an empty key disables it
func NewImageService(apiKey string) *ImageService {
	return &ImageService{
		apiKey:  apiKey,
		BaseURL: defaultImageSearchURL,
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether image enrichment is configured
func (s *ImageService) Enabled() bool {
	return s.enabled
}

type imageSearchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// ImageURL returns a photo URL for the query, or "" when disabled or on
// any failure. Image lookup is pure enrichment and never fails a request.
func (s *ImageService) ImageURL(ctx context.Context, query string) string {
	if !s.enabled {
		return ""
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("images: lookup failed for %q: %v", query, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("images: lookup for %q returned status %d", query, resp.StatusCode)
		return ""
	}

	var ir imageSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		log.Printf("images: failed to decode response: %v", err)
		return ""
	}
	if len(ir.Photos) == 0 {
		return ""
	}
	return ir.Photos[0].Src.Medium
}

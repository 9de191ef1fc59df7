package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bukken_watcher/httputil"
)

// OfficialURLResolver resolves a property name to its official site URL.
// Implementations are best-effort: an empty result is not an error.
type OfficialURLResolver interface {
	OfficialURL(ctx context.Context, name string) string
}

// SearchService resolves official URLs through the Google Custom Search
// JSON API.
type SearchService struct {
	client  *http.Client
	apiKey  string
	cseID   string
	baseURL string
	retry   httputil.RetryConfig
}

func NewSearchService(client *http.Client, apiKey, cseID string) *SearchService {
	return &SearchService{
		client:  client,
		apiKey:  apiKey,
		cseID:   cseID,
		baseURL: "https://www.googleapis.com/customsearch/v1",
		retry: httputil.RetryConfig{
			MaxAttempts:    3,
			BaseDelay:      2 * time.Second,
			RateLimitDelay: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// OfficialURL looks up the property name and returns the most plausible
// official link: a Japanese domain that is not another listing portal,
// else the first result. Quota responses are waited out; once retries are
// exhausted the lookup degrades to "".
func (s *SearchService) OfficialURL(ctx context.Context, name string) string {
	if s.apiKey == "" || s.cseID == "" {
		return ""
	}

	query := fmt.Sprintf("%s?q=%s&key=%s&cx=%s&num=5",
		s.baseURL, url.QueryEscape(name), url.QueryEscape(s.apiKey), url.QueryEscape(s.cseID))

	var result searchResponse
	err := s.retry.Do(ctx, "official-url search", func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", query, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("status 429: %w", httputil.ErrRateLimited)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		result = searchResponse{}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		log.Printf("Warning: official URL lookup failed for %s: %v", name, err)
		return ""
	}

	if len(result.Items) == 0 {
		return ""
	}
	for _, item := range result.Items {
		if isOfficialCandidate(item.Link) {
			return item.Link
		}
	}
	return result.Items[0].Link
}

// isOfficialCandidate accepts Japanese domains and rejects links into
// other listing portals.
func isOfficialCandidate(link string) bool {
	if strings.Contains(link, "suumo") {
		return false
	}
	return strings.Contains(link, ".co.jp") || strings.Contains(link, ".jp")
}

package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// FallbackTitle is stored when the title lookup fails for any reason.
const FallbackTitle = "Anonymous"

const defaultAPIBase = "https://www.googleapis.com/youtube/v3/videos"

// Resolver looks up video titles through the YouTube Data API. Lookup
// failures are logged and swallowed; callers always get a usable title.
type Resolver struct {
	apiKey  string
	apiBase string
	client  *http.Client
	logger  zerolog.Logger
}

// NewResolver creates a resolver using the given API key.
func NewResolver(apiKey string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		apiKey:  apiKey,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With().Str("component", "meta").Logger(),
	}
}

type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// ResolveTitle returns the video's title, or FallbackTitle when the lookup
// fails or returns nothing. It never returns an error.
func (r *Resolver) ResolveTitle(ctx context.Context, videoID string) string {
	title, err := r.fetchTitle(ctx, videoID)
	if err != nil {
		r.logger.Warn().Err(err).Str("video", videoID).
			Msg("title lookup failed, using fallback")
		return FallbackTitle
	}
	return title
}

func (r *Resolver) fetchTitle(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("id", videoID)
	q.Set("part", "snippet")
	q.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected http status %s", resp.Status)
	}

	var body videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(body.Items) == 0 {
		return "", fmt.Errorf("no video found for id %s", videoID)
	}
	return body.Items[0].Snippet.Title, nil
}

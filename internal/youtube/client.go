package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CatalogVideo is one upload as reported by the catalog provider.
type CatalogVideo struct {
	VideoID     string
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
	Thumbnails  map[string]string // resolution name -> image URL
}

// Page is one page of channel uploads plus the token for the next one.
type Page struct {
	Videos        []CatalogVideo
	NextPageToken string
}

// Client lists a channel's uploads from the YouTube Data API v3.
type Client interface {
	ResolveChannelID(ctx context.Context, handle string) (string, error)
	ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (*Page, error)
}

type apiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Data API client. baseURL and httpClient are
// injectable for tests; pass "" and nil for the real service.
func NewClient(apiKey, baseURL string, httpClient *http.Client) Client {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &apiClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
			VideoID   string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// ResolveChannelID looks up the channel id for a channel handle.
func (c *apiClient) ResolveChannelID(ctx context.Context, handle string) (string, error) {
	params := url.Values{
		"key":  {c.apiKey},
		"q":    {handle},
		"type": {"channel"},
		"part": {"snippet"},
	}

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].ID.ChannelID == "" {
		return "", fmt.Errorf("no channel found for handle %q", handle)
	}
	return resp.Items[0].ID.ChannelID, nil
}

// ListUploads fetches one page of the channel's videos. The search endpoint
// truncates descriptions, so a second call to the videos endpoint retrieves
// the full snippets.
func (c *apiClient) ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (*Page, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	params := url.Values{
		"key":        {c.apiKey},
		"channelId":  {channelID},
		"part":       {"snippet"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(pageSize)},
		"order":      {"date"},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var search searchResponse
	if err := c.get(ctx, "/search", params, &search); err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	page := &Page{NextPageToken: search.NextPageToken}
	if len(ids) == 0 {
		return page, nil
	}

	detailParams := url.Values{
		"key":  {c.apiKey},
		"id":   {strings.Join(ids, ",")},
		"part": {"snippet"},
	}
	var details videosResponse
	if err := c.get(ctx, "/videos", detailParams, &details); err != nil {
		return nil, err
	}

	for _, item := range details.Items {
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("video %s: bad publishedAt %q: %w", item.ID, item.Snippet.PublishedAt, err)
		}

		thumbs := make(map[string]string, len(item.Snippet.Thumbnails))
		for name, t := range item.Snippet.Thumbnails {
			thumbs[name] = t.URL
		}

		page.Videos = append(page.Videos, CatalogVideo{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			URL:         "https://youtube.com/watch?v=" + item.ID,
			PublishedAt: publishedAt,
			Thumbnails:  thumbs,
		})
	}
	return page, nil
}

func (c *apiClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("youtube api http %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}
	return json.Unmarshal(raw, out)
}

// thumbnailPreference is the fixed resolution preference order for picking
// a display thumbnail.
var thumbnailPreference = []string{"maxres", "high", "medium", "default"}

// BestThumbnail picks the highest-resolution thumbnail available.
func BestThumbnail(thumbs map[string]string) string {
	for _, name := range thumbnailPreference {
		if u, ok := thumbs[name]; ok && u != "" {
			return u
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package extract

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

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/config"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

// Input is the raw video metadata handed to the extraction service.
// Guidance is optional operator free text used on manual re-extraction to
// bias the service away from a prior mis-extraction.
type Input struct {
	VideoTitle       string
	VideoDescription string
	VideoURL         string
	Guidance         string
}

// Candidate is one song record proposed by the extraction service. All
// fields except SongTitle may be empty. Field names mirror the JSON keys
// of the service contract.
type Candidate struct {
	SongTitle       string            `json:"song_title"`
	Composer        string            `json:"composer"`
	Performer       string            `json:"performer"`
	OriginalArtist  string            `json:"original_artist"`
	Songwriters     []string          `json:"songwriters"`
	FeaturedArtists []string          `json:"featured_artists"`
	OtherMusicians  map[string]string `json:"other_musicians"`
	Album           string            `json:"album"`
	RecordLabel     string            `json:"record_label"`
	CompositionYear *int              `json:"composition_year"`
	RecordingYear   *int              `json:"recording_year"`
	Style           string            `json:"style"`
	Era             string            `json:"era"`
	Timestamp       string            `json:"timestamp"`
	ContextNotes    string            `json:"context_notes"`
	AdditionalInfo  string            `json:"additional_info"`
}

// Client turns unstructured video metadata into candidate song records.
//
// An empty slice with a nil error is a confirmed "no songs found" result
// and is a valid outcome (theory or discussion videos). A non-nil error
// always wraps model.ErrExtractionFailed and means the service could not
// be reached or understood; callers must not write anything in that case.
type Client interface {
	Extract(ctx context.Context, in Input) ([]Candidate, error)
}

type openAIClient struct {
	log        zerolog.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewClient builds the OpenAI-backed extraction client from config.
// The HTTP client and base URL are injectable via config so tests can point
// at a stub server.
func NewClient(cfg *config.Config, log zerolog.Logger) (Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	timeoutSec := 45
	if parsed, err := strconv.Atoi(cfg.OpenAITimeoutSeconds); err == nil && parsed > 0 {
		timeoutSec = parsed
	}
	maxRetries := 2
	if parsed, err := strconv.Atoi(cfg.OpenAIMaxRetries); err == nil && parsed >= 0 {
		maxRetries = parsed
	}

	return &openAIClient{
		log:        log.With().Str("component", "extract").Logger(),
		baseURL:    strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		apiKey:     cfg.OpenAIAPIKey,
		model:      cfg.OpenAIModel,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends one structured prompt per video and parses the response
// into candidate records. It has no side effects: storage is the caller's
// concern.
func (c *openAIClient) Extract(ctx context.Context, in Input) ([]Candidate, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: buildPrompt(in)},
		},
		Temperature: 0,
		MaxTokens:   1500,
	}

	raw, err := c.post(ctx, "/v1/chat/completions", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtractionFailed, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrExtractionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", model.ErrExtractionFailed)
	}

	candidates, err := ParseCandidates(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Warn().Err(err).Str("video", in.VideoTitle).Msg("unparseable extraction output")
		return nil, fmt.Errorf("%w: %v", model.ErrExtractionFailed, err)
	}
	return candidates, nil
}

func (c *openAIClient) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(raw), 300))
				// Client errors other than rate limiting won't improve on retry.
				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return nil, lastErr
				}
			}
		}

		if attempt < c.maxRetries {
			c.log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("extraction request retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

// ParseCandidates defensively parses the service's text output: it strips
// a markdown code fence when present, requires a JSON array (a single
// object is tolerated and wrapped), and rejects anything else. A literal
// empty array is a valid "no songs" result.
func ParseCandidates(content string) ([]Candidate, error) {
	text := stripFences(strings.TrimSpace(content))
	if text == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(text), &candidates); err != nil {
		var single Candidate
		if err2 := json.Unmarshal([]byte(text), &single); err2 != nil {
			return nil, fmt.Errorf("response is not a JSON array: %w", err)
		}
		candidates = []Candidate{single}
	}

	// Drop fabricated placeholders: a candidate with no title carries no
	// information the catalog can use.
	out := candidates[:0]
	for _, cand := range candidates {
		if strings.TrimSpace(cand.SongTitle) != "" {
			out = append(out, cand)
		}
	}
	return out, nil
}

// stripFences removes a wrapping markdown code block (``` or ```json).
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ToSong converts a candidate into a song row. Part numbering is left to
// the store's batch replacement.
func (cand Candidate) ToSong() model.Song {
	return model.Song{
		SongTitle:       strings.TrimSpace(cand.SongTitle),
		Composer:        strings.TrimSpace(cand.Composer),
		Performer:       strings.TrimSpace(cand.Performer),
		OriginalArtist:  strings.TrimSpace(cand.OriginalArtist),
		Songwriters:     cand.Songwriters,
		FeaturedArtists: cand.FeaturedArtists,
		OtherMusicians:  cand.OtherMusicians,
		Album:           strings.TrimSpace(cand.Album),
		RecordLabel:     strings.TrimSpace(cand.RecordLabel),
		CompositionYear: cand.CompositionYear,
		RecordingYear:   cand.RecordingYear,
		Style:           strings.TrimSpace(cand.Style),
		Era:             strings.TrimSpace(cand.Era),
		Timestamp:       strings.TrimSpace(cand.Timestamp),
		ContextNotes:    strings.TrimSpace(cand.ContextNotes),
		AdditionalInfo:  strings.TrimSpace(cand.AdditionalInfo),
	}
}

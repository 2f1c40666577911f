package model

import "time"

// ExtractionState records the outcome of the most recent extraction attempt
// for a video. Scheduling does not key off this state (a video is eligible
// for extraction whenever it has zero song rows); it exists so an operator
// can tell a confirmed-empty video apart from one whose extraction failed.
type ExtractionState string

const (
	ExtractionUnprocessed ExtractionState = "unprocessed"
	ExtractionExtracted   ExtractionState = "extracted"
	ExtractionFailed      ExtractionState = "extraction_failed"
)

// Video represents one upload of the channel, as synced from the catalog
// provider. Rows are upserted by VideoID and never deleted.
type Video struct {
	ID              int64           `json:"id"`
	VideoID         string          `json:"videoId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	URL             string          `json:"url"`
	PublishedAt     time.Time       `json:"publishedAt"`
	ThumbnailURL    string          `json:"thumbnailUrl,omitempty"`
	Category        *string         `json:"category,omitempty"`
	ExtractionState ExtractionState `json:"extractionState"`
}

// VideoResponse is the API shape for video listings. Category is the
// effective category: the manual override when set, otherwise the
// classifier's guess.
type VideoResponse struct {
	ID           int64     `json:"id"`
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Category     string    `json:"category"`
	SongCount    int       `json:"songCount"`

	ExtractionState ExtractionState `json:"extractionState"`
}

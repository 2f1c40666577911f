package model

import "time"

// Song is one structured piece record extracted from a video's metadata.
// A video owns zero or more songs; one extraction batch for a video shares
// a single TotalParts value and numbers its rows 1..TotalParts in the
// order the extraction service returned them.
//
// Songwriters, FeaturedArtists and OtherMusicians are always native Go
// values on this struct. They are serialized to text only inside the song
// repository; nothing outside that boundary sees the encoded form.
type Song struct {
	ID      int64 `json:"id"`
	VideoID int64 `json:"videoId"`

	SongTitle       string            `json:"songTitle"`
	Composer        string            `json:"composer,omitempty"`
	Performer       string            `json:"performer,omitempty"`
	OriginalArtist  string            `json:"originalArtist,omitempty"`
	Songwriters     []string          `json:"songwriters,omitempty"`
	FeaturedArtists []string          `json:"featuredArtists,omitempty"`
	OtherMusicians  map[string]string `json:"otherMusicians,omitempty"`
	Album           string            `json:"album,omitempty"`
	RecordLabel     string            `json:"recordLabel,omitempty"`
	CompositionYear *int              `json:"compositionYear,omitempty"`
	RecordingYear   *int              `json:"recordingYear,omitempty"`
	Style           string            `json:"style,omitempty"`
	Era             string            `json:"era,omitempty"`
	Timestamp       string            `json:"timestamp,omitempty"`
	ContextNotes    string            `json:"contextNotes,omitempty"`
	AdditionalInfo  string            `json:"additionalInfo,omitempty"`

	PartNumber int `json:"partNumber"`
	TotalParts int `json:"totalParts"`

	// Denormalized copy of the owning video's display fields, written at
	// insert time so song listings render without a join.
	VideoTitle       string    `json:"videoTitle"`
	VideoURL         string    `json:"videoUrl"`
	VideoDescription string    `json:"-"`
	VideoPublishedAt time.Time `json:"videoPublishedAt"`

	Category *string `json:"category,omitempty"`
	Deleted  bool    `json:"deleted"`
}

// SongResponse is the API shape for song listings. PlaybackURL is the video
// URL decorated with the song's timestamp offset when one is present.
type SongResponse struct {
	Song
	EffectiveCategory string `json:"effectiveCategory"`
	PlaybackURL       string `json:"playbackUrl"`
}

// SongFilter narrows song listings. Zero-value fields are ignored.
// Enumerable fields match case-insensitively; Search is a substring match
// across the fixed text-field set handled by the repository.
type SongFilter struct {
	Search         string
	Composer       string
	Performer      string
	Style          string
	Era            string
	Category       string
	IncludeDeleted bool
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/classify"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
	"github.com/ColinusM/Piano-Jazz-Concept/pkg/timecode"
)

// SongStore is the slice of the song store the service needs.
type SongStore interface {
	List(ctx context.Context, f model.SongFilter) ([]model.Song, error)
	ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.Song, error)
	Get(ctx context.Context, songID int64) (*model.Song, error)
	UpdateField(ctx context.Context, songID int64, field string, value any) error
	SetCategory(ctx context.Context, songID int64, category *string) error
	SoftDelete(ctx context.Context, songID int64) error
	Restore(ctx context.Context, songID int64) error
	AppendManual(ctx context.Context, videoID int64, songTitle string) (*model.Song, error)
}

// SongCategorySource supplies the manual category overrides set on videos.
type SongCategorySource interface {
	CategoryOverrides(ctx context.Context) (map[int64]string, error)
}

// SongService wraps the song store with the presentation rules the API
// needs: effective categories, timestamped playback URLs, and listing
// cache maintenance on every write.
type SongService struct {
	songs    SongStore
	videos   SongCategorySource
	classify classify.Classifier
	cache    *CacheService
	log      zerolog.Logger
}

func NewSongService(songs SongStore, videos SongCategorySource, classifier classify.Classifier, cache *CacheService, log zerolog.Logger) *SongService {
	return &SongService{
		songs:    songs,
		videos:   videos,
		classify: classifier,
		cache:    cache,
		log:      log.With().Str("component", "songs").Logger(),
	}
}

// List returns songs matching the filter, decorated for the API. Category
// filtering happens here rather than in storage because the effective
// category may come from the classifier.
func (s *SongService) List(ctx context.Context, f model.SongFilter) ([]model.SongResponse, error) {
	key := songFilterKey(f)
	if s.cache != nil {
		if data, err := s.cache.GetSongs(ctx, key); err == nil && data != nil {
			var cached []model.SongResponse
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	songs, err := s.songs.List(ctx, f)
	if err != nil {
		return nil, err
	}

	overrides, err := s.videos.CategoryOverrides(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.SongResponse, 0, len(songs))
	for _, song := range songs {
		resp := s.decorate(song, overrides)
		if f.Category != "" && !strings.EqualFold(resp.EffectiveCategory, f.Category) {
			continue
		}
		out = append(out, resp)
	}

	if s.cache != nil {
		_ = s.cache.SetSongs(ctx, key, out)
	}
	return out, nil
}

// ListForVideo returns one video's songs in part order, decorated.
func (s *SongService) ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.SongResponse, error) {
	songs, err := s.songs.ListForVideo(ctx, videoID, includeDeleted)
	if err != nil {
		return nil, err
	}
	overrides, err := s.videos.CategoryOverrides(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.SongResponse, 0, len(songs))
	for _, song := range songs {
		out = append(out, s.decorate(song, overrides))
	}
	return out, nil
}

// Correct applies a single-field correction to a song. "category" routes to
// the override setter (string sets, null clears); every other field goes
// through the store's editable allow-list.
func (s *SongService) Correct(ctx context.Context, songID int64, field string, value any) (*model.Song, error) {
	var err error
	if field == "category" {
		var category *string
		switch t := value.(type) {
		case nil:
			category = nil
		case string:
			category = &t
		default:
			return nil, &model.ValidationError{Field: field, Reason: "value must be a string or null"}
		}
		err = s.songs.SetCategory(ctx, songID, category)
	} else {
		err = s.songs.UpdateField(ctx, songID, field, value)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int64("song_id", songID).Str("field", field).Msg("song corrected")
	return s.songs.Get(ctx, songID)
}

// Delete soft-deletes a song: it disappears from default listings but the
// row survives for restore.
func (s *SongService) Delete(ctx context.Context, songID int64) error {
	if err := s.songs.SoftDelete(ctx, songID); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info().Int64("song_id", songID).Msg("song deleted")
	return nil
}

// Restore un-hides a soft-deleted song.
func (s *SongService) Restore(ctx context.Context, songID int64) error {
	if err := s.songs.Restore(ctx, songID); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info().Int64("song_id", songID).Msg("song restored")
	return nil
}

// Append adds a single operator-created song to an existing video without
// disturbing the extracted batch.
func (s *SongService) Append(ctx context.Context, videoID int64, songTitle string) (*model.Song, error) {
	songTitle = strings.TrimSpace(songTitle)
	if songTitle == "" {
		return nil, &model.ValidationError{Field: "song_title", Reason: "must not be empty"}
	}

	song, err := s.songs.AppendManual(ctx, videoID, songTitle)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info().Int64("video_id", videoID).Str("title", songTitle).Msg("manual song appended")
	return song, nil
}

// decorate resolves a song's effective category (song override, then video
// override, then classifier on the video's title and description) and its
// timestamped playback URL.
func (s *SongService) decorate(song model.Song, videoOverrides map[int64]string) model.SongResponse {
	category := ""
	switch {
	case song.Category != nil && *song.Category != "":
		category = *song.Category
	case videoOverrides[song.VideoID] != "":
		category = videoOverrides[song.VideoID]
	default:
		category = s.classify(song.VideoTitle, song.VideoDescription)
	}

	return model.SongResponse{
		Song:              song,
		EffectiveCategory: category,
		PlaybackURL:       timecode.DecorateURL(song.VideoURL, song.Timestamp),
	}
}

func (s *SongService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateListings(ctx)
	}
}

// songFilterKey builds a deterministic cache key fragment from a filter.
func songFilterKey(f model.SongFilter) string {
	return fmt.Sprintf("q=%s|c=%s|p=%s|s=%s|e=%s|cat=%s|del=%t",
		strings.ToLower(f.Search), strings.ToLower(f.Composer), strings.ToLower(f.Performer),
		strings.ToLower(f.Style), strings.ToLower(f.Era), strings.ToLower(f.Category),
		f.IncludeDeleted)
}

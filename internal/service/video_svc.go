package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/classify"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/repository"
)

// VideoStore is the slice of the video store the service needs.
type VideoStore interface {
	ListAll(ctx context.Context) ([]model.Video, error)
	ListNeedingCategory(ctx context.Context) ([]model.Video, error)
	Get(ctx context.Context, id int64) (*model.Video, error)
	SetCategory(ctx context.Context, id int64, category *string) error
}

// VideoSongCounter supplies per-video song counts and catalog totals.
type VideoSongCounter interface {
	CountForVideos(ctx context.Context) (map[int64]int, error)
	CountTotals(ctx context.Context) (*repository.Totals, error)
}

// VideoService decorates video listings with effective categories and song
// counts, and serves the catalog-wide stats.
type VideoService struct {
	videos   VideoStore
	counts   VideoSongCounter
	classify classify.Classifier
	cache    *CacheService
	log      zerolog.Logger
}

func NewVideoService(videos VideoStore, counts VideoSongCounter, classifier classify.Classifier, cache *CacheService, log zerolog.Logger) *VideoService {
	return &VideoService{
		videos:   videos,
		counts:   counts,
		classify: classifier,
		cache:    cache,
		log:      log.With().Str("component", "videos").Logger(),
	}
}

// List returns synced videos, newest first, with effective categories and
// non-deleted song counts. category matches the effective category
// case-insensitively; search is a substring match on title and
// description. The unfiltered listing is what gets cached.
func (s *VideoService) List(ctx context.Context, category, search string) ([]model.VideoResponse, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" && search == "" {
		return all, nil
	}

	needle := strings.ToLower(search)
	out := make([]model.VideoResponse, 0, len(all))
	for _, v := range all {
		if category != "" && !strings.EqualFold(v.Category, category) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(v.Title), needle) &&
			!strings.Contains(strings.ToLower(v.Description), needle) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *VideoService) listAll(ctx context.Context) ([]model.VideoResponse, error) {
	if s.cache != nil {
		if data, err := s.cache.GetVideos(ctx, "all"); err == nil && data != nil {
			var cached []model.VideoResponse
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	videos, err := s.videos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts.CountForVideos(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, s.decorate(v, counts[v.ID]))
	}

	if s.cache != nil {
		_ = s.cache.SetVideos(ctx, "all", out)
	}
	return out, nil
}

// ListNeedingCategory returns videos without a manual category override,
// decorated so the operator sees the classifier's suggestion next to the
// uncategorized video.
func (s *VideoService) ListNeedingCategory(ctx context.Context) ([]model.VideoResponse, error) {
	videos, err := s.videos.ListNeedingCategory(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts.CountForVideos(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, s.decorate(v, counts[v.ID]))
	}
	return out, nil
}

// Get returns one video with its effective category. The song count is
// left to the per-video song listing.
func (s *VideoService) Get(ctx context.Context, id int64) (*model.VideoResponse, error) {
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.decorate(*v, 0)
	return &resp, nil
}

// SetCategory assigns or clears (nil) a video's manual category override.
func (s *VideoService) SetCategory(ctx context.Context, id int64, category *string) error {
	if err := s.videos.SetCategory(ctx, id, category); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateListings(ctx)
	}
	s.log.Info().Int64("video_id", id).Msg("video category updated")
	return nil
}

// Stats returns catalog-wide totals for the dashboard.
func (s *VideoService) Stats(ctx context.Context) (*repository.Totals, error) {
	return s.counts.CountTotals(ctx)
}

func (s *VideoService) decorate(v model.Video, songCount int) model.VideoResponse {
	category := ""
	if v.Category != nil && *v.Category != "" {
		category = *v.Category
	} else {
		category = s.classify(v.Title, v.Description)
	}

	return model.VideoResponse{
		ID:           v.ID,
		VideoID:      v.VideoID,
		Title:        v.Title,
		Description:  v.Description,
		URL:          v.URL,
		PublishedAt:  v.PublishedAt,
		ThumbnailURL: v.ThumbnailURL,
		Category:     category,
		SongCount:    songCount,

		ExtractionState: v.ExtractionState,
	}
}

package service

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/youtube"
)

// CatalogVideoStore is the slice of the video store the sync needs.
type CatalogVideoStore interface {
	Upsert(ctx context.Context, v *model.Video) (int64, error)
}

// SyncReport summarizes one catalog sync run.
type SyncReport struct {
	Pages    int `json:"pages"`
	Upserted int `json:"upserted"`
}

// CatalogService pulls the channel's uploads from the catalog provider and
// upserts them into the video store. Upserting by external video id makes
// the whole run idempotent; a failed run leaves already-synced rows intact.
type CatalogService struct {
	yt       youtube.Client
	videos   CatalogVideoStore
	cache    *CacheService
	log      zerolog.Logger
	handle   string
	pageSize int
}

func NewCatalogService(yt youtube.Client, videos CatalogVideoStore, cache *CacheService, log zerolog.Logger, handle, pageSize string) *CatalogService {
	size := 50
	if parsed, err := strconv.Atoi(pageSize); err == nil && parsed > 0 {
		size = parsed
	}
	return &CatalogService{
		yt:       yt,
		videos:   videos,
		cache:    cache,
		log:      log.With().Str("component", "catalog-sync").Logger(),
		handle:   handle,
		pageSize: size,
	}
}

// Sync walks every page of the channel's uploads and upserts each video.
// Any provider or page-level failure aborts the run with ErrCatalogSync;
// rows upserted before the failure are kept.
func (s *CatalogService) Sync(ctx context.Context) (*SyncReport, error) {
	channelID, err := s.yt.ResolveChannelID(ctx, s.handle)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve channel %q: %v", model.ErrCatalogSync, s.handle, err)
	}

	report := &SyncReport{}
	pageToken := ""
	for {
		page, err := s.yt.ListUploads(ctx, channelID, pageToken, s.pageSize)
		if err != nil {
			return report, fmt.Errorf("%w: page %d: %v", model.ErrCatalogSync, report.Pages+1, err)
		}
		report.Pages++

		for _, cv := range page.Videos {
			v := catalogToVideo(cv)
			if _, err := s.videos.Upsert(ctx, &v); err != nil {
				return report, fmt.Errorf("upsert %s: %w", cv.VideoID, err)
			}
			report.Upserted++
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if s.cache != nil {
		_ = s.cache.InvalidateListings(ctx)
	}

	s.log.Info().
		Int("pages", report.Pages).
		Int("upserted", report.Upserted).
		Msg("catalog sync complete")
	return report, nil
}

// catalogToVideo normalizes one provider item: HTML entities unescaped,
// best available thumbnail selected.
func catalogToVideo(cv youtube.CatalogVideo) model.Video {
	return model.Video{
		VideoID:      cv.VideoID,
		Title:        html.UnescapeString(cv.Title),
		Description:  html.UnescapeString(cv.Description),
		URL:          cv.URL,
		PublishedAt:  cv.PublishedAt,
		ThumbnailURL: youtube.BestThumbnail(cv.Thumbnails),
	}
}

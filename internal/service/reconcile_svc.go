package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/extract"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

// ReconcileVideoStore is the slice of the video store the engine needs.
type ReconcileVideoStore interface {
	ListNeedingExtraction(ctx context.Context) ([]model.Video, error)
	Get(ctx context.Context, id int64) (*model.Video, error)
	SetExtractionState(ctx context.Context, id int64, state model.ExtractionState) error
}

// ReconcileSongStore is the slice of the song store the engine needs.
type ReconcileSongStore interface {
	ReplaceBatch(ctx context.Context, videoID int64, songs []model.Song) error
	ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.Song, error)
}

// PassReport summarizes one reconciliation pass for the operator.
type PassReport struct {
	Candidates int           `json:"candidates"`
	Extracted  int           `json:"extracted"`
	Songs      int           `json:"songs"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"-"`
}

// ReconcileService decides which videos need (re-)extraction, invokes the
// extraction client, and merges results through the song store's batch
// replacement.
type ReconcileService struct {
	videos    ReconcileVideoStore
	songs     ReconcileSongStore
	extractor extract.Client
	cache     *CacheService
	log       zerolog.Logger
}

func NewReconcileService(videos ReconcileVideoStore, songs ReconcileSongStore, extractor extract.Client, cache *CacheService, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{
		videos:    videos,
		songs:     songs,
		extractor: extractor,
		cache:     cache,
		log:       log.With().Str("component", "reconcile").Logger(),
	}
}

// RunPass processes every video currently needing extraction: new videos
// and videos whose last batch came back empty. Failures are isolated per
// video — a failed extraction leaves that video pending and the pass moves
// on. The pass itself only fails if the candidate list cannot be read.
func (s *ReconcileService) RunPass(ctx context.Context) (*PassReport, error) {
	start := time.Now()

	pending, err := s.videos.ListNeedingExtraction(ctx)
	if err != nil {
		return nil, err
	}

	report := &PassReport{Candidates: len(pending)}
	for _, v := range pending {
		if ctx.Err() != nil {
			// Pass is resumable: already-written videos won't be revisited.
			break
		}

		n, err := s.extractVideo(ctx, &v, "")
		if err != nil {
			report.Failed++
			s.log.Warn().Err(err).Int64("video_id", v.ID).Str("title", v.Title).Msg("video skipped")
			continue
		}
		report.Extracted++
		report.Songs += n
	}
	report.Duration = time.Since(start)

	if s.cache != nil {
		_ = s.cache.InvalidateListings(ctx)
	}

	s.log.Info().
		Int("candidates", report.Candidates).
		Int("extracted", report.Extracted).
		Int("songs", report.Songs).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("reconciliation pass complete")
	return report, nil
}

// ExtractOne re-extracts a single video on operator request, with optional
// free-text guidance passed through to the extraction service. Replace
// semantics are identical to a pass: the new batch fully supersedes the
// old one. Returns the resulting batch.
func (s *ReconcileService) ExtractOne(ctx context.Context, videoID int64, guidance string) ([]model.Song, error) {
	v, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.extractVideo(ctx, v, guidance); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateListings(ctx)
	}
	return s.songs.ListForVideo(ctx, videoID, false)
}

// extractVideo runs one extraction attempt and, on success, replaces the
// video's batch. A confirmed-empty result still replaces (and leaves the
// video eligible for a future pass); an extraction failure writes nothing.
func (s *ReconcileService) extractVideo(ctx context.Context, v *model.Video, guidance string) (int, error) {
	candidates, err := s.extractor.Extract(ctx, extract.Input{
		VideoTitle:       v.Title,
		VideoDescription: v.Description,
		VideoURL:         v.URL,
		Guidance:         guidance,
	})
	if err != nil {
		if stateErr := s.videos.SetExtractionState(ctx, v.ID, model.ExtractionFailed); stateErr != nil {
			s.log.Error().Err(stateErr).Int64("video_id", v.ID).Msg("failed to record extraction state")
		}
		return 0, err
	}

	songs := make([]model.Song, 0, len(candidates))
	for _, c := range candidates {
		songs = append(songs, c.ToSong())
	}

	if err := s.songs.ReplaceBatch(ctx, v.ID, songs); err != nil {
		return 0, err
	}
	if err := s.videos.SetExtractionState(ctx, v.ID, model.ExtractionExtracted); err != nil {
		s.log.Error().Err(err).Int64("video_id", v.ID).Msg("failed to record extraction state")
	}
	return len(songs), nil
}

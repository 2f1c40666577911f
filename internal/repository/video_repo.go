package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoColumns = `id, video_id, title, description, url, published_at, thumbnail_url, category, extraction_state`

// Upsert inserts the video or, when a row with the same external video_id
// already exists, replaces its synced fields in place. The surrogate id is
// stable across re-syncs so song foreign keys stay valid. The manual
// category and extraction state are never touched by a sync.
func (r *VideoRepo) Upsert(ctx context.Context, v *model.Video) (int64, error) {
	query := `
		INSERT INTO videos (video_id, title, description, url, published_at, thumbnail_url, last_synced)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			published_at = EXCLUDED.published_at,
			thumbnail_url = EXCLUDED.thumbnail_url,
			last_synced = NOW()
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		v.VideoID, v.Title, v.Description, v.URL, v.PublishedAt, v.ThumbnailURL,
	).Scan(&id)
	if err != nil {
		return 0, mapError("upsert video", err)
	}
	return id, nil
}

// Get returns a single video by surrogate id.
func (r *VideoRepo) Get(ctx context.Context, id int64) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	var v model.Video
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.VideoID, &v.Title, &v.Description, &v.URL,
		&v.PublishedAt, &v.ThumbnailURL, &v.Category, &v.ExtractionState,
	)
	if err != nil {
		return nil, mapError("get video", err)
	}
	return &v, nil
}

// ListAll returns every video, newest first.
func (r *VideoRepo) ListAll(ctx context.Context) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY published_at DESC`
	return r.queryVideos(ctx, query)
}

// ListNeedingCategory returns videos with no manual category override,
// newest first. Their displayed category is the classifier's guess until
// an operator assigns one.
func (r *VideoRepo) ListNeedingCategory(ctx context.Context) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE category IS NULL ORDER BY published_at DESC`
	return r.queryVideos(ctx, query)
}

// ListNeedingExtraction returns videos with zero non-deleted song rows:
// both never-processed videos and videos whose last batch came back empty
// (the two are deliberately indistinguishable for scheduling purposes).
// Ordered by surrogate id so pass reports are deterministic.
func (r *VideoRepo) ListNeedingExtraction(ctx context.Context) ([]model.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos v
		WHERE NOT EXISTS (
			SELECT 1 FROM songs s WHERE s.video_id = v.id AND s.deleted = FALSE
		)
		ORDER BY v.id ASC`
	return r.queryVideos(ctx, query)
}

// SetExtractionState records the outcome of the latest extraction attempt.
func (r *VideoRepo) SetExtractionState(ctx context.Context, id int64, state model.ExtractionState) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET extraction_state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return mapError("set extraction state", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("set extraction state", errNoRowsAffected)
	}
	return nil
}

// SetCategory assigns or clears (nil) the manual category override.
func (r *VideoRepo) SetCategory(ctx context.Context, id int64, category *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET category = $1 WHERE id = $2`, category, id)
	if err != nil {
		return mapError("set video category", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("set video category", errNoRowsAffected)
	}
	return nil
}

// CategoryOverrides returns the manual category overrides keyed by video
// id. Videos without an override are absent from the map.
func (r *VideoRepo) CategoryOverrides(ctx context.Context) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, category FROM videos WHERE category IS NOT NULL`)
	if err != nil {
		return nil, mapError("category overrides", err)
	}
	defer rows.Close()

	overrides := make(map[int64]string)
	for rows.Next() {
		var id int64
		var category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, mapError("category overrides", err)
		}
		overrides[id] = category
	}
	return overrides, mapError("category overrides", rows.Err())
}

func (r *VideoRepo) queryVideos(ctx context.Context, query string, args ...any) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list videos", err)
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.ID, &v.VideoID, &v.Title, &v.Description, &v.URL,
			&v.PublishedAt, &v.ThumbnailURL, &v.Category, &v.ExtractionState,
		)
		if err != nil {
			return nil, mapError("scan video", err)
		}
		videos = append(videos, v)
	}
	return videos, mapError("list videos", rows.Err())
}

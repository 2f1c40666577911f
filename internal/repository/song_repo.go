package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

// editableFields is the fixed allow-list for single-field corrections,
// mapping the API field name to its column. This is a security boundary:
// UpdateField rejects anything outside this map before any SQL is built.
var editableFields = map[string]string{
	"song_title":       "song_title",
	"composer":         "composer",
	"performer":        "performer",
	"original_artist":  "original_artist",
	"composition_year": "composition_year",
	"style":            "style",
	"era":              "era",
	"additional_info":  "additional_info",
	"album":            "album",
	"record_label":     "record_label",
	"recording_year":   "recording_year",
	"context_notes":    "context_notes",
}

// yearFields are the allow-listed columns holding nullable integers.
var yearFields = map[string]bool{
	"composition_year": true,
	"recording_year":   true,
}

type SongRepo struct {
	pool *pgxpool.Pool
}

func NewSongRepo(pool *pgxpool.Pool) *SongRepo {
	return &SongRepo{pool: pool}
}

const songColumns = `id, video_id, song_title, composer, performer, original_artist,
	songwriters, featured_artists, other_musicians, album, record_label,
	composition_year, recording_year, style, era, song_timestamp,
	context_notes, additional_info, part_number, total_parts,
	video_title, video_url, video_description, video_published_at,
	category, deleted`

// ReplaceBatch atomically replaces all song rows for a video with the given
// batch. Existing rows are hard-deleted and the new rows inserted in one
// transaction, so readers never observe a half-replaced batch. Part numbers
// are assigned by position: row i gets part_number i+1, and every row gets
// total_parts = len(songs). An empty batch leaves the video with zero rows,
// which makes it eligible for re-extraction.
//
// The owning video's display fields are re-read inside the transaction and
// copied onto every inserted row.
func (r *SongRepo) ReplaceBatch(ctx context.Context, videoID int64, songs []model.Song) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError("replace batch", err)
	}
	defer tx.Rollback(ctx)

	var v model.Video
	err = tx.QueryRow(ctx,
		`SELECT title, url, description, published_at FROM videos WHERE id = $1`,
		videoID,
	).Scan(&v.Title, &v.URL, &v.Description, &v.PublishedAt)
	if err != nil {
		return mapError("replace batch", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM songs WHERE video_id = $1`, videoID); err != nil {
		return mapError("replace batch", err)
	}

	for i, s := range numberBatch(songs) {
		if err := insertSong(ctx, tx, videoID, &s, &v); err != nil {
			return mapError(fmt.Sprintf("replace batch (row %d)", i+1), err)
		}
	}

	return mapError("replace batch", tx.Commit(ctx))
}

// AppendManual inserts a single operator-created song row for an existing
// video with part numbering (1, 1). Other rows for the video are untouched;
// this deliberately bypasses the batch-replace numbering.
func (r *SongRepo) AppendManual(ctx context.Context, videoID int64, songTitle string) (*model.Song, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, mapError("append manual", err)
	}
	defer tx.Rollback(ctx)

	var v model.Video
	err = tx.QueryRow(ctx,
		`SELECT title, url, description, published_at FROM videos WHERE id = $1`,
		videoID,
	).Scan(&v.Title, &v.URL, &v.Description, &v.PublishedAt)
	if err != nil {
		return nil, mapError("append manual", err)
	}

	s := model.Song{
		SongTitle:  songTitle,
		PartNumber: 1,
		TotalParts: 1,
	}
	if err := insertSong(ctx, tx, videoID, &s, &v); err != nil {
		return nil, mapError("append manual", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError("append manual", err)
	}

	s.VideoID = videoID
	s.VideoTitle = v.Title
	s.VideoURL = v.URL
	s.VideoDescription = v.Description
	s.VideoPublishedAt = v.PublishedAt
	return &s, nil
}

// UpdateField applies a single-field correction. The field must be in the
// editable allow-list; year fields accept an integer or null, everything
// else a string. The update is a single statement, so it either fully
// applies or not at all.
func (r *SongRepo) UpdateField(ctx context.Context, songID int64, field string, value any) error {
	column, ok := editableFields[field]
	if !ok {
		return &model.ValidationError{Field: field, Reason: "field is not editable"}
	}

	var arg any
	if yearFields[column] {
		year, err := coerceYear(value)
		if err != nil {
			return &model.ValidationError{Field: field, Reason: err.Error()}
		}
		arg = year
	} else {
		s, ok := value.(string)
		if !ok {
			return &model.ValidationError{Field: field, Reason: "value must be a string"}
		}
		arg = s
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE songs SET `+column+` = $1 WHERE id = $2`, arg, songID)
	if err != nil {
		return mapError("update field", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("update field", errNoRowsAffected)
	}
	return nil
}

// SoftDelete hides a song from default listings. Deleting an already
// deleted song succeeds silently.
func (r *SongRepo) SoftDelete(ctx context.Context, songID int64) error {
	return r.setDeleted(ctx, songID, true)
}

// Restore un-hides a soft-deleted song. Idempotent like SoftDelete.
func (r *SongRepo) Restore(ctx context.Context, songID int64) error {
	return r.setDeleted(ctx, songID, false)
}

func (r *SongRepo) setDeleted(ctx context.Context, songID int64, deleted bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE songs SET deleted = $1 WHERE id = $2`, deleted, songID)
	if err != nil {
		return mapError("set deleted", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("set deleted", errNoRowsAffected)
	}
	return nil
}

// SetCategory assigns or clears (nil) the manual category override.
func (r *SongRepo) SetCategory(ctx context.Context, songID int64, category *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE songs SET category = $1 WHERE id = $2`, category, songID)
	if err != nil {
		return mapError("set song category", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("set song category", errNoRowsAffected)
	}
	return nil
}

// Get returns a single song by id, deleted or not.
func (r *SongRepo) Get(ctx context.Context, songID int64) (*model.Song, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1`, songID)
	s, err := scanSong(row)
	if err != nil {
		return nil, mapError("get song", err)
	}
	return s, nil
}

// ListForVideo returns a video's songs in part order.
func (r *SongRepo) ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE video_id = $1`
	if !includeDeleted {
		query += ` AND deleted = FALSE`
	}
	query += ` ORDER BY part_number ASC, id ASC`
	return r.querySongs(ctx, query, videoID)
}

// searchColumns is the fixed set of text fields covered by the free-text
// substring search.
var searchColumns = []string{
	"song_title", "composer", "performer", "original_artist",
	"style", "era", "album", "record_label", "video_title",
}

// List returns songs matching the filter, newest videos first then part
// order. Category filtering is not done here: the effective category may
// come from the classifier, which lives above the storage layer.
func (r *SongRepo) List(ctx context.Context, f model.SongFilter) ([]model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs`
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.IncludeDeleted {
		conds = append(conds, "deleted = FALSE")
	}
	if f.Composer != "" {
		conds = append(conds, "composer ILIKE "+arg(escapeLike(f.Composer)))
	}
	if f.Performer != "" {
		conds = append(conds, "performer ILIKE "+arg(escapeLike(f.Performer)))
	}
	if f.Style != "" {
		conds = append(conds, "style ILIKE "+arg(escapeLike(f.Style)))
	}
	if f.Era != "" {
		conds = append(conds, "era ILIKE "+arg(escapeLike(f.Era)))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		sub := ""
		for i, col := range searchColumns {
			if i > 0 {
				sub += " OR "
			}
			sub += col + " ILIKE " + p
		}
		conds = append(conds, "("+sub+")")
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY video_published_at DESC, video_id ASC, part_number ASC`

	return r.querySongs(ctx, query, args...)
}

// Totals holds catalog-wide counts for the stats endpoint.
type Totals struct {
	Videos       int `json:"videos"`
	Songs        int `json:"songs"`
	Compilations int `json:"compilations"`
	Pending      int `json:"pending"`
}

// CountTotals gathers catalog-wide counts. Compilations are videos whose
// current batch has more than one part; pending are videos with zero
// non-deleted songs.
func (r *SongRepo) CountTotals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM songs WHERE deleted = FALSE),
			(SELECT COUNT(DISTINCT video_id) FROM songs WHERE total_parts > 1 AND deleted = FALSE),
			(SELECT COUNT(*) FROM videos v WHERE NOT EXISTS (
				SELECT 1 FROM songs s WHERE s.video_id = v.id AND s.deleted = FALSE))`

	var t Totals
	err := r.pool.QueryRow(ctx, query).Scan(&t.Videos, &t.Songs, &t.Compilations, &t.Pending)
	if err != nil {
		return nil, mapError("count totals", err)
	}
	return &t, nil
}

// CountForVideos returns non-deleted song counts keyed by video id.
func (r *SongRepo) CountForVideos(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT video_id, COUNT(*) FROM songs WHERE deleted = FALSE GROUP BY video_id`)
	if err != nil {
		return nil, mapError("count for videos", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, mapError("count for videos", err)
		}
		counts[id] = n
	}
	return counts, mapError("count for videos", rows.Err())
}

// escapeLike neutralizes LIKE metacharacters in user-supplied filter
// values so they match literally: a "%" in a composer name is a percent
// sign, not a wildcard.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// numberBatch returns a copy of songs with positional part numbering:
// 1-based part_number, total_parts = len(songs) on every row.
func numberBatch(songs []model.Song) []model.Song {
	out := make([]model.Song, len(songs))
	for i, s := range songs {
		s.PartNumber = i + 1
		s.TotalParts = len(songs)
		out[i] = s
	}
	return out
}

func insertSong(ctx context.Context, tx pgx.Tx, videoID int64, s *model.Song, v *model.Video) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO songs (
			video_id, song_title, composer, performer, original_artist,
			songwriters, featured_artists, other_musicians, album, record_label,
			composition_year, recording_year, style, era, song_timestamp,
			context_notes, additional_info, part_number, total_parts,
			video_title, video_url, video_description, video_published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)`,
		videoID, s.SongTitle, s.Composer, s.Performer, s.OriginalArtist,
		encodeList(s.Songwriters), encodeList(s.FeaturedArtists), encodeMap(s.OtherMusicians),
		s.Album, s.RecordLabel, s.CompositionYear, s.RecordingYear,
		s.Style, s.Era, s.Timestamp, s.ContextNotes, s.AdditionalInfo,
		s.PartNumber, s.TotalParts,
		v.Title, v.URL, v.Description, v.PublishedAt,
	)
	return err
}

func (r *SongRepo) querySongs(ctx context.Context, query string, args ...any) ([]model.Song, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list songs", err)
	}
	defer rows.Close()

	var songs []model.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, mapError("scan song", err)
		}
		songs = append(songs, *s)
	}
	return songs, mapError("list songs", rows.Err())
}

func scanSong(row pgx.Row) (*model.Song, error) {
	var (
		s                                       model.Song
		songwriters, featuredArtists, musicians *string
	)
	err := row.Scan(
		&s.ID, &s.VideoID, &s.SongTitle, &s.Composer, &s.Performer, &s.OriginalArtist,
		&songwriters, &featuredArtists, &musicians, &s.Album, &s.RecordLabel,
		&s.CompositionYear, &s.RecordingYear, &s.Style, &s.Era, &s.Timestamp,
		&s.ContextNotes, &s.AdditionalInfo, &s.PartNumber, &s.TotalParts,
		&s.VideoTitle, &s.VideoURL, &s.VideoDescription, &s.VideoPublishedAt,
		&s.Category, &s.Deleted,
	)
	if err != nil {
		return nil, err
	}

	if s.Songwriters, err = decodeList(songwriters); err != nil {
		return nil, fmt.Errorf("decode songwriters: %w", err)
	}
	if s.FeaturedArtists, err = decodeList(featuredArtists); err != nil {
		return nil, fmt.Errorf("decode featured_artists: %w", err)
	}
	if s.OtherMusicians, err = decodeMap(musicians); err != nil {
		return nil, fmt.Errorf("decode other_musicians: %w", err)
	}
	return &s, nil
}

// encodeList / decodeList and encodeMap / decodeMap are the serialization
// boundary for list- and mapping-valued song fields. Outside this file the
// model always carries native slices and maps; the stored form is JSON
// text, with NULL for absent values, and round-trips losslessly.

func encodeList(v []string) *string {
	if len(v) == 0 {
		return nil
	}
	b, _ := json.Marshal(v)
	s := string(b)
	return &s
}

func decodeList(v *string) ([]string, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(*v), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeMap(v map[string]string) *string {
	if len(v) == 0 {
		return nil
	}
	b, _ := json.Marshal(v)
	s := string(b)
	return &s
}

func decodeMap(v *string) (map[string]string, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(*v), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// coerceYear normalizes a JSON-decoded value into a nullable year.
func coerceYear(v any) (*int, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		return &t, nil
	case float64:
		y := int(t)
		if float64(y) != t {
			return nil, fmt.Errorf("year must be an integer")
		}
		return &y, nil
	default:
		return nil, fmt.Errorf("year must be an integer or null")
	}
}

package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/classify"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

type stubSongStore struct {
	songs       []model.Song
	updated     map[string]any
	categorySet *string
	categoryHit bool
}

func (s *stubSongStore) List(ctx context.Context, f model.SongFilter) ([]model.Song, error) {
	return s.songs, nil
}

func (s *stubSongStore) ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.Song, error) {
	return s.songs, nil
}

func (s *stubSongStore) Get(ctx context.Context, songID int64) (*model.Song, error) {
	for _, song := range s.songs {
		if song.ID == songID {
			return &song, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubSongStore) UpdateField(ctx context.Context, songID int64, field string, value any) error {
	if s.updated == nil {
		s.updated = make(map[string]any)
	}
	s.updated[field] = value
	return nil
}

func (s *stubSongStore) SetCategory(ctx context.Context, songID int64, category *string) error {
	s.categoryHit = true
	s.categorySet = category
	return nil
}

func (s *stubSongStore) SoftDelete(ctx context.Context, songID int64) error { return nil }
func (s *stubSongStore) Restore(ctx context.Context, songID int64) error    { return nil }

func (s *stubSongStore) AppendManual(ctx context.Context, videoID int64, songTitle string) (*model.Song, error) {
	return &model.Song{VideoID: videoID, SongTitle: songTitle, PartNumber: 1, TotalParts: 1}, nil
}

type stubCategorySource struct {
	overrides map[int64]string
}

func (s *stubCategorySource) CategoryOverrides(ctx context.Context) (map[int64]string, error) {
	if s.overrides == nil {
		return map[int64]string{}, nil
	}
	return s.overrides, nil
}

func newSongService(store *stubSongStore, src *stubCategorySource) *SongService {
	return NewSongService(store, src, classify.ByKeywords, nil, zerolog.Nop())
}

func strptr(s string) *string { return &s }

func TestListEffectiveCategoryChain(t *testing.T) {
	store := &stubSongStore{songs: []model.Song{
		// Song override wins over everything.
		{ID: 1, VideoID: 10, SongTitle: "a", VideoTitle: "Magnum générique", Category: strptr("Chansons/Standards")},
		// Video override beats the classifier.
		{ID: 2, VideoID: 20, SongTitle: "b", VideoTitle: "Magnum générique"},
		// No overrides: classifier on the video title.
		{ID: 3, VideoID: 30, SongTitle: "c", VideoTitle: "Magnum générique"},
	}}
	src := &stubCategorySource{overrides: map[int64]string{20: "BO Films"}}

	got, err := newSongService(store, src).List(context.Background(), model.SongFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d songs", len(got))
	}

	want := []string{"Chansons/Standards", "BO Films", "Génériques TV"}
	for i, w := range want {
		if got[i].EffectiveCategory != w {
			t.Errorf("song %d category = %q, want %q", got[i].ID, got[i].EffectiveCategory, w)
		}
	}
}

func TestListFiltersByEffectiveCategory(t *testing.T) {
	store := &stubSongStore{songs: []model.Song{
		{ID: 1, VideoID: 10, SongTitle: "a", VideoTitle: "Magnum générique"},
		{ID: 2, VideoID: 20, SongTitle: "b", VideoTitle: "Analyse d'un accord"},
	}}

	got, err := newSongService(store, &stubCategorySource{}).List(
		context.Background(), model.SongFilter{Category: "théorie/analyse"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("got %+v, want only song 2", got)
	}
}

func TestListDecoratesPlaybackURL(t *testing.T) {
	store := &stubSongStore{songs: []model.Song{
		{ID: 1, VideoID: 10, SongTitle: "a", VideoURL: "https://youtu.be/x", Timestamp: "02:15"},
		{ID: 2, VideoID: 10, SongTitle: "b", VideoURL: "https://youtu.be/x"},
	}}

	got, err := newSongService(store, &stubCategorySource{}).List(context.Background(), model.SongFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got[0].PlaybackURL != "https://youtu.be/x?t=135s" {
		t.Errorf("timestamped url = %q", got[0].PlaybackURL)
	}
	if got[1].PlaybackURL != "https://youtu.be/x" {
		t.Errorf("bare url = %q", got[1].PlaybackURL)
	}
}

func TestCorrectRoutesCategory(t *testing.T) {
	store := &stubSongStore{songs: []model.Song{{ID: 1, SongTitle: "a"}}}
	svc := newSongService(store, &stubCategorySource{})

	if _, err := svc.Correct(context.Background(), 1, "category", "BO Films"); err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if !store.categoryHit || store.categorySet == nil || *store.categorySet != "BO Films" {
		t.Error("category correction must go through SetCategory")
	}

	if _, err := svc.Correct(context.Background(), 1, "category", nil); err != nil {
		t.Fatalf("Correct clear: %v", err)
	}
	if store.categorySet != nil {
		t.Error("null must clear the override")
	}

	if _, err := svc.Correct(context.Background(), 1, "category", 42); err == nil {
		t.Error("non-string category must be rejected")
	}
}

func TestCorrectForwardsEditableFields(t *testing.T) {
	store := &stubSongStore{songs: []model.Song{{ID: 1, SongTitle: "a"}}}

	if _, err := newSongService(store, &stubCategorySource{}).Correct(
		context.Background(), 1, "composer", "Michel Legrand"); err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if store.updated["composer"] != "Michel Legrand" {
		t.Errorf("updated = %v", store.updated)
	}
}

func TestAppendRejectsEmptyTitle(t *testing.T) {
	svc := newSongService(&stubSongStore{}, &stubCategorySource{})

	if _, err := svc.Append(context.Background(), 1, "   "); !model.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	song, err := svc.Append(context.Background(), 1, "  Nature Boy  ")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if song.SongTitle != "Nature Boy" || song.PartNumber != 1 || song.TotalParts != 1 {
		t.Errorf("song = %+v", song)
	}
}

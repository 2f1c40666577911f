package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/extract"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

type fakeVideoStore struct {
	videos []model.Video
	states map[int64]model.ExtractionState
}

func newFakeVideoStore(videos ...model.Video) *fakeVideoStore {
	return &fakeVideoStore{videos: videos, states: make(map[int64]model.ExtractionState)}
}

func (f *fakeVideoStore) ListNeedingExtraction(ctx context.Context) ([]model.Video, error) {
	return f.videos, nil
}

func (f *fakeVideoStore) Get(ctx context.Context, id int64) (*model.Video, error) {
	for _, v := range f.videos {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeVideoStore) SetExtractionState(ctx context.Context, id int64, state model.ExtractionState) error {
	f.states[id] = state
	return nil
}

type fakeSongStore struct {
	batches map[int64][]model.Song
}

func newFakeSongStore() *fakeSongStore {
	return &fakeSongStore{batches: make(map[int64][]model.Song)}
}

func (f *fakeSongStore) ReplaceBatch(ctx context.Context, videoID int64, songs []model.Song) error {
	numbered := make([]model.Song, len(songs))
	for i, s := range songs {
		s.PartNumber = i + 1
		s.TotalParts = len(songs)
		numbered[i] = s
	}
	f.batches[videoID] = numbered
	return nil
}

func (f *fakeSongStore) ListForVideo(ctx context.Context, videoID int64, includeDeleted bool) ([]model.Song, error) {
	return f.batches[videoID], nil
}

type fakeExtractor struct {
	results      map[string][]extract.Candidate
	errs         map[string]error
	lastGuidance string
}

func (f *fakeExtractor) Extract(ctx context.Context, in extract.Input) ([]extract.Candidate, error) {
	f.lastGuidance = in.Guidance
	if err := f.errs[in.VideoTitle]; err != nil {
		return nil, err
	}
	return f.results[in.VideoTitle], nil
}

func newReconcile(videos *fakeVideoStore, songs *fakeSongStore, ex *fakeExtractor) *ReconcileService {
	return NewReconcileService(videos, songs, ex, nil, zerolog.Nop())
}

func TestRunPassReplacesBatches(t *testing.T) {
	videos := newFakeVideoStore(
		model.Video{ID: 1, Title: "Magnum générique"},
		model.Video{ID: 2, Title: "Analyse harmonique"},
	)
	songs := newFakeSongStore()
	ex := &fakeExtractor{
		results: map[string][]extract.Candidate{
			"Magnum générique": {
				{SongTitle: "Magnum Theme"},
				{SongTitle: "Magnum Theme (reprise)"},
			},
			"Analyse harmonique": {},
		},
	}

	report, err := newReconcile(videos, songs, ex).RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if report.Candidates != 2 || report.Extracted != 2 || report.Songs != 2 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}

	batch := songs.batches[1]
	if len(batch) != 2 {
		t.Fatalf("video 1 batch has %d songs, want 2", len(batch))
	}
	if batch[0].PartNumber != 1 || batch[0].TotalParts != 2 || batch[1].PartNumber != 2 {
		t.Errorf("bad part numbering: %+v", batch)
	}

	// A confirmed-empty extraction still counts as a replace and records
	// the extracted state.
	if got, ok := songs.batches[2]; !ok || len(got) != 0 {
		t.Errorf("video 2 batch = %v, want recorded empty batch", got)
	}
	if videos.states[1] != model.ExtractionExtracted || videos.states[2] != model.ExtractionExtracted {
		t.Errorf("states = %v", videos.states)
	}
}

func TestRunPassIsolatesFailures(t *testing.T) {
	videos := newFakeVideoStore(
		model.Video{ID: 1, Title: "first"},
		model.Video{ID: 2, Title: "second"},
		model.Video{ID: 3, Title: "third"},
	)
	songs := newFakeSongStore()
	ex := &fakeExtractor{
		results: map[string][]extract.Candidate{
			"first": {{SongTitle: "A"}},
			"third": {{SongTitle: "B"}},
		},
		errs: map[string]error{
			"second": fmt.Errorf("%w: http 500", model.ErrExtractionFailed),
		},
	}

	report, err := newReconcile(videos, songs, ex).RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if report.Extracted != 2 || report.Failed != 1 || report.Songs != 2 {
		t.Fatalf("report = %+v", report)
	}
	if _, ok := songs.batches[2]; ok {
		t.Error("failed video must not get a batch written")
	}
	if videos.states[2] != model.ExtractionFailed {
		t.Errorf("failed video state = %q, want %q", videos.states[2], model.ExtractionFailed)
	}
	if videos.states[3] != model.ExtractionExtracted {
		t.Error("videos after a failure must still be processed")
	}
}

func TestExtractOnePassesGuidance(t *testing.T) {
	videos := newFakeVideoStore(model.Video{ID: 7, Title: "Skylark"})
	songs := newFakeSongStore()
	ex := &fakeExtractor{
		results: map[string][]extract.Candidate{
			"Skylark": {{SongTitle: "Skylark", Composer: "Hoagy Carmichael"}},
		},
	}

	got, err := newReconcile(videos, songs, ex).ExtractOne(context.Background(), 7, "the composer is Carmichael, not Mercer")
	if err != nil {
		t.Fatalf("ExtractOne: %v", err)
	}
	if ex.lastGuidance != "the composer is Carmichael, not Mercer" {
		t.Errorf("guidance not forwarded, got %q", ex.lastGuidance)
	}
	if len(got) != 1 || got[0].Composer != "Hoagy Carmichael" {
		t.Errorf("songs = %+v", got)
	}
}

func TestExtractOneUnknownVideo(t *testing.T) {
	svc := newReconcile(newFakeVideoStore(), newFakeSongStore(), &fakeExtractor{})

	if _, err := svc.ExtractOne(context.Background(), 99, ""); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExtractOneFailureWritesNothing(t *testing.T) {
	videos := newFakeVideoStore(model.Video{ID: 4, Title: "broken"})
	songs := newFakeSongStore()
	songs.batches[4] = []model.Song{{SongTitle: "kept"}}
	ex := &fakeExtractor{
		errs: map[string]error{
			"broken": fmt.Errorf("%w: timeout", model.ErrExtractionFailed),
		},
	}

	_, err := newReconcile(videos, songs, ex).ExtractOne(context.Background(), 4, "")
	if !errors.Is(err, model.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
	if len(songs.batches[4]) != 1 || songs.batches[4][0].SongTitle != "kept" {
		t.Error("existing batch must survive a failed re-extraction")
	}
}

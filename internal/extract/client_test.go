package extract

import (
	"strings"
	"testing"
)

func TestParseCandidates_PlainArray(t *testing.T) {
	content := `[{"song_title": "Nature Boy", "composer": "Eden Ahbez", "timestamp": "02:15"}]`

	candidates, err := ParseCandidates(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].SongTitle != "Nature Boy" {
		t.Errorf("song_title = %q, want %q", candidates[0].SongTitle, "Nature Boy")
	}
	if candidates[0].Composer != "Eden Ahbez" {
		t.Errorf("composer = %q, want %q", candidates[0].Composer, "Eden Ahbez")
	}
}

func TestParseCandidates_FencedMarkdown(t *testing.T) {
	content := "```json\n" +
		`[{"song_title": "Skylark"}, {"song_title": "Satin Doll"}]` +
		"\n```"

	candidates, err := ParseCandidates(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].SongTitle != "Skylark" || candidates[1].SongTitle != "Satin Doll" {
		t.Errorf("titles = %q, %q", candidates[0].SongTitle, candidates[1].SongTitle)
	}
}

func TestParseCandidates_EmptyArrayIsValid(t *testing.T) {
	candidates, err := ParseCandidates("[]")
	if err != nil {
		t.Fatalf("empty array should be a valid no-songs result, got error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("got %d candidates, want 0", len(candidates))
	}
}

func TestParseCandidates_SingleObjectWrapped(t *testing.T) {
	candidates, err := ParseCandidates(`{"song_title": "My Funny Valentine"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].SongTitle != "My Funny Valentine" {
		t.Fatalf("got %+v, want single My Funny Valentine candidate", candidates)
	}
}

func TestParseCandidates_Garbage(t *testing.T) {
	for _, content := range []string{
		"",
		"Sorry, I could not find any songs in this video.",
		"```\nnot json\n```",
		`{"song_title": 42}`,
	} {
		if _, err := ParseCandidates(content); err == nil {
			t.Errorf("ParseCandidates(%q) = nil error, want parse failure", content)
		}
	}
}

func TestParseCandidates_DropsUntitledEntries(t *testing.T) {
	content := `[{"song_title": ""}, {"song_title": "  "}, {"song_title": "Embraceable You"}]`

	candidates, err := ParseCandidates(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (untitled entries dropped)", len(candidates))
	}
	if candidates[0].SongTitle != "Embraceable You" {
		t.Errorf("kept candidate = %q", candidates[0].SongTitle)
	}
}

func TestParseCandidates_ListAndMapFields(t *testing.T) {
	content := `[{
		"song_title": "Hajanga",
		"featured_artists": ["Jacob Collier", "Mark Priore"],
		"songwriters": ["Jacob Collier"],
		"other_musicians": {"bass": "Robin Mullarkey"}
	}]`

	candidates, err := ParseCandidates(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := candidates[0]
	if len(c.FeaturedArtists) != 2 || c.FeaturedArtists[0] != "Jacob Collier" {
		t.Errorf("featured_artists = %v", c.FeaturedArtists)
	}
	if c.OtherMusicians["bass"] != "Robin Mullarkey" {
		t.Errorf("other_musicians = %v", c.OtherMusicians)
	}
}

func TestBuildPrompt_IncludesGuidance(t *testing.T) {
	in := Input{
		VideoTitle:       "Analyse: Que je t'aime",
		VideoURL:         "https://youtube.com/watch?v=abc",
		VideoDescription: "desc",
	}
	if strings.Contains(buildPrompt(in), "OPERATOR GUIDANCE") {
		t.Error("prompt without guidance should not contain the guidance section")
	}

	in.Guidance = "The composer is Jean Renard, not Johnny Hallyday."
	p := buildPrompt(in)
	if !strings.Contains(p, "OPERATOR GUIDANCE") || !strings.Contains(p, "Jean Renard") {
		t.Error("prompt with guidance should embed the operator text")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[]", "[]"},
		{"```json\n[]\n```", "[]"},
		{"```\n[1]\n```", "[1]"},
		{"no fences here", "no fences here"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

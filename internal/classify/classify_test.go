package classify

import "testing"

func TestByKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Le générique de Magnum au piano", CategoryTVThemes},
		{"Michel Legrand : une B.O mythique", CategorySoundtrack},
		{"Nature Boy (Eden Ahbez)", CategorySongs},
		{"GoldenEye 007 au piano jazz", CategoryVideoGames},
		{"Improvisation modale : le mode dorien", CategoryTheory},
		{"Interview de Jacky Terrasson", CategoryInterview},
		{"Concert surprise", CategoryOther},
	}

	for _, tt := range tests {
		if got := ByKeywords(tt.title, ""); got != tt.want {
			t.Errorf("ByKeywords(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestByKeywords_FirstTableEntryWins(t *testing.T) {
	// "générique" (TV themes) appears before "analyse" (theory) in the
	// table, so a title containing both classifies as TV themes.
	got := ByKeywords("Analyse du générique de Star Trek", "")
	if got != CategoryTVThemes {
		t.Errorf("got %q, want %q", got, CategoryTVThemes)
	}
}

func TestByKeywords_CaseInsensitive(t *testing.T) {
	if got := ByKeywords("YESTERDAY au piano", ""); got != CategorySongs {
		t.Errorf("got %q, want %q", got, CategorySongs)
	}
}

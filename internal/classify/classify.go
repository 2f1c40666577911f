// Package classify holds the keyword-based video categorizer. It is a
// deliberate heuristic, kept behind a function type so callers can swap
// in something smarter without touching the catalog core.
package classify

import "strings"

// Classifier maps a video's title and description to a category name.
type Classifier func(title, description string) string

// Category names returned by the default classifier. French, matching the
// channel's audience.
const (
	CategoryTVThemes   = "Génériques TV"
	CategorySoundtrack = "BO Films"
	CategorySongs      = "Chansons/Standards"
	CategoryVideoGames = "Jeux Vidéo"
	CategoryTheory     = "Théorie/Analyse"
	CategoryInterview  = "Interviews/Culture"
	CategoryOther      = "Autres"
)

var keywordTable = []struct {
	category string
	keywords []string
}{
	{CategoryTVThemes, []string{
		"générique", "magnum", "mission impossible", "james bond", "star trek",
		"code quantum", "amicalement vôtre", "quatrième dimension", "cinéma du dimanche",
	}},
	{CategorySoundtrack, []string{
		"mission to mars", "morricone", "yared", "legrand", "cosma", "b.o",
	}},
	{CategorySongs, []string{
		"que je t'aime", "pénitencier", "yesterday", "nature boy", "embraceable you",
		"my funny valentine", "all of you", "satin doll", "marseillaise", "god save",
		"skylark", "vivre quand on aime",
	}},
	{CategoryVideoGames, []string{
		"jeux vidéo", "goldeneye", "mario", "videogames",
	}},
	{CategoryTheory, []string{
		"analyse", "harmoni", "modal", "accord", "improvisation", "technique",
		"concept", "appoggiature", "cadence", "gamme", "échelle",
		"dorien", "ionien", "phrygien", "lydien", "mixolydien", "éolien", "locrien",
	}},
	{CategoryInterview, []string{
		"chronique", "interview", "culture", "galper", "terrasson", "bojan",
		"paczynski", "quincy jones", "lucas debargue",
	}},
}

// ByKeywords is the default Classifier: first keyword table entry whose
// keyword appears in the lowercased title wins.
func ByKeywords(title, description string) string {
	titleLower := strings.ToLower(title)
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(titleLower, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}

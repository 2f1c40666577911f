package extract

import "fmt"

const systemInstruction = "You are a music metadata extraction expert. Return only a valid JSON array."

// buildPrompt embeds the video's raw metadata into the fixed extraction
// prompt. The service is told to return an empty array rather than invent
// a record when the video discusses no identifiable piece.
func buildPrompt(in Input) string {
	prompt := fmt.Sprintf(`Analyze this Piano Jazz Concept YouTube video and extract ALL songs and metadata.

VIDEO TITLE: %s
VIDEO URL: %s
FULL DESCRIPTION:
%s

Extract every song discussed or performed in this video:
- All songs mentioned (with timestamps if present)
- Composer for each song
- Performer/pianist in this video
- Original artists (if covers)
- Years, styles, eras, albums, labels
- Songwriters, featured artists, other musicians by instrument

Return a JSON array of songs. If the video covers a single song, return an array with 1 item. If the video contains no identifiable song (pure theory or discussion), return []. Never invent a placeholder entry.

[
  {
    "song_title": "song name",
    "composer": "who wrote it",
    "performer": "who plays in this video",
    "original_artist": "if it's a cover",
    "songwriters": ["who wrote this song"],
    "featured_artists": ["artists analyzed or compared in the video"],
    "other_musicians": {"instrument": "name"},
    "album": "album name or empty",
    "record_label": "label or empty",
    "composition_year": year or null,
    "recording_year": year or null,
    "style": "genre",
    "era": "decade/era",
    "timestamp": "MM:SS or empty",
    "context_notes": "how the song is used in the video",
    "additional_info": "any other info"
  }
]

Use both the text AND your training knowledge. Only list songs you are confident about.`,
		in.VideoTitle, in.VideoURL, in.VideoDescription)

	if in.Guidance != "" {
		prompt += "\n\nOPERATOR GUIDANCE (correcting a previous extraction):\n" + in.Guidance
	}
	return prompt
}

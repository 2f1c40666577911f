package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching what the admin API will accept.
const (
	MaxSongTitleLen = 200  // manual append titles
	MaxGuidanceLen  = 2000 // free text forwarded into the extraction prompt
	MaxSearchLen    = 200  // search/filter query strings
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateSongTitle checks a manual song title. Returns the cleaned value
// and an empty string, or "" and a reason.
func ValidateSongTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "song_title is required"
	}
	if len(title) > MaxSongTitleLen {
		return "", "song_title must be at most 200 characters"
	}
	return title, ""
}

// ValidateGuidance checks optional operator guidance for a re-extraction.
func ValidateGuidance(guidance string) (string, string) {
	guidance = strings.TrimSpace(guidance)
	if len(guidance) > MaxGuidanceLen {
		return "", "guidance must be at most 2000 characters"
	}
	return guidance, ""
}

// ValidateSearch trims and bounds a search/filter query string. The cut
// backs off to a rune boundary so accented text is never left with a
// broken trailing byte.
func ValidateSearch(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > MaxSearchLen {
		cut := MaxSearchLen
		for cut > 0 && !utf8.RuneStart(q[cut]) {
			cut--
		}
		q = q[:cut]
	}
	return q
}

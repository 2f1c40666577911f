// Package timecode converts the MM:SS timestamps stored on song records
// into absolute playback offsets and timestamped video URLs.
package timecode

import (
	"regexp"
	"strconv"
	"strings"
)

var mmss = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ToSeconds parses an MM:SS timecode into a playback offset in seconds.
// Returns ok=false for anything that does not match MM:SS.
func ToSeconds(ts string) (int, bool) {
	m := mmss.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds > 59 {
		return 0, false
	}
	return minutes*60 + seconds, true
}

// DecorateURL appends the timecode as a t= query parameter to a video URL.
// Malformed timecodes are ignored and the bare URL returned.
func DecorateURL(videoURL, ts string) string {
	secs, ok := ToSeconds(ts)
	if !ok || videoURL == "" {
		return videoURL
	}

	sep := "?"
	if strings.Contains(videoURL, "?") {
		sep = "&"
	}
	return videoURL + sep + "t=" + strconv.Itoa(secs) + "s"
}

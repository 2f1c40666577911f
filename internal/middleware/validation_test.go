package middleware

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateSongTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "Nature Boy", "Nature Boy", false},
		{"trims whitespace", "  Skylark  ", "Skylark", false},
		{"empty", "", "", true},
		{"only whitespace", "   ", "", true},
		{"too long", strings.Repeat("x", 201), "", true},
		{"exactly 200", strings.Repeat("x", 200), strings.Repeat("x", 200), false},
		{"accents kept", "Générique de Magnum", "Générique de Magnum", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateSongTitle(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateGuidance(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty ok", "", "", false},
		{"trims whitespace", "  the composer is wrong  ", "the composer is wrong", false},
		{"too long", strings.Repeat("x", 2001), "", true},
		{"exactly 2000", strings.Repeat("x", 2000), strings.Repeat("x", 2000), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateGuidance(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSearch(t *testing.T) {
	if got := ValidateSearch("  legrand  "); got != "legrand" {
		t.Errorf("trim failed: got %q", got)
	}
	if got := ValidateSearch(strings.Repeat("x", 300)); len(got) != MaxSearchLen {
		t.Errorf("truncation failed: got len %d, want %d", len(got), MaxSearchLen)
	}
}

func TestValidateSearchRuneBoundary(t *testing.T) {
	// 199 ASCII bytes followed by two-byte runes: a byte cut at 200 would
	// land mid-rune.
	q := strings.Repeat("x", 199) + "éé"
	got := ValidateSearch(q)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated query is not valid UTF-8: %q", got)
	}
	if len(got) != 199 {
		t.Errorf("got len %d, want 199 (cut backed off to rune start)", len(got))
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/api/videos/42/songs", "/api/videos/:id/songs"},
		{"/api/songs/7", "/api/songs/:id"},
		{"/api/stats", "/api/stats"},
		{"/health/live", "/health/live"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

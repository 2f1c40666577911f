package timecode

import "testing"

func TestToSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"02:15", 135, true},
		{"2:15", 135, true},
		{"59:59", 3599, true},
		{"12:60", 0, false},
		{"1:2", 0, false},
		{"", 0, false},
		{"2m15s", 0, false},
		{"1:23:45", 0, false},
		{"-1:30", 0, false},
		{" 03:05 ", 185, true},
	}

	for _, tt := range tests {
		got, ok := ToSeconds(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToSeconds(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDecorateURL(t *testing.T) {
	tests := []struct {
		url, ts, want string
	}{
		{"https://youtube.com/watch?v=abc", "02:15", "https://youtube.com/watch?v=abc&t=135s"},
		{"https://youtu.be/abc", "01:00", "https://youtu.be/abc?t=60s"},
		{"https://youtube.com/watch?v=abc", "bogus", "https://youtube.com/watch?v=abc"},
		{"https://youtube.com/watch?v=abc", "", "https://youtube.com/watch?v=abc"},
		{"", "02:15", ""},
	}

	for _, tt := range tests {
		if got := DecorateURL(tt.url, tt.ts); got != tt.want {
			t.Errorf("DecorateURL(%q, %q) = %q, want %q", tt.url, tt.ts, got, tt.want)
		}
	}
}

package youtube

import "testing"

func TestBestThumbnail_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name   string
		thumbs map[string]string
		want   string
	}{
		{
			name: "maxres wins",
			thumbs: map[string]string{
				"default": "d.jpg", "medium": "m.jpg", "high": "h.jpg", "maxres": "x.jpg",
			},
			want: "x.jpg",
		},
		{
			name:   "falls back to high",
			thumbs: map[string]string{"default": "d.jpg", "high": "h.jpg"},
			want:   "h.jpg",
		},
		{
			name:   "falls back to medium",
			thumbs: map[string]string{"default": "d.jpg", "medium": "m.jpg"},
			want:   "m.jpg",
		},
		{
			name:   "default only",
			thumbs: map[string]string{"default": "d.jpg"},
			want:   "d.jpg",
		},
		{
			name:   "empty map",
			thumbs: map[string]string{},
			want:   "",
		},
		{
			name:   "empty url skipped",
			thumbs: map[string]string{"maxres": "", "high": "h.jpg"},
			want:   "h.jpg",
		},
	}

	for _, tt := range tests {
		if got := BestThumbnail(tt.thumbs); got != tt.want {
			t.Errorf("%s: BestThumbnail = %q, want %q", tt.name, got, tt.want)
		}
	}
}

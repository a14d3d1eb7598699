package media

import "testing"

func TestIdentifySource(t *testing.T) {
	tests := []struct {
		url  string
		want SourceType
	}{
		{"https://www.youtube.com/watch?v=abc123", SourceYouTube},
		{"https://youtube.com/live/abc123", SourceYouTube},
		{"https://youtu.be/abc123", SourceYouTube},
		{"https://twitter.com/i/broadcasts/1abc", SourceTwitter},
		{"https://x.com/i/broadcasts/1abc", SourceTwitter},
		{"https://mobile.twitter.com/i/broadcasts/1abc", SourceTwitter},
		{"https://www.pscp.tv/w/1abc", SourcePeriscope},
		{"https://cdn.example.com/stream/playlist.m3u8", SourceM3U8},
		{"https://cdn.example.com/stream/playlist.m3u8?token=xyz", SourceM3U8},
		{"https://example.com/video.mp4", SourceUnknown},
		{"not a url at all", SourceUnknown},
		{"", SourceUnknown},
		// Hostname must match exactly or as a subdomain, not as a suffix
		{"https://notyoutube.com/watch?v=abc", SourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IdentifySource(tt.url); got != tt.want {
				t.Errorf("IdentifySource(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

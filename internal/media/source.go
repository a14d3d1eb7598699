// Package media acquires broadcast audio: source identification, audio
// download via yt-dlp and chunking oversized files with ffmpeg.
package media

import (
	"net/url"
	"strings"
)

// SourceType classifies where a broadcast URL points
type SourceType string

const (
	SourceYouTube   SourceType = "youtube"
	SourceTwitter   SourceType = "twitter"
	SourcePeriscope SourceType = "periscope"
	SourceM3U8      SourceType = "m3u8"
	SourceUnknown   SourceType = "unknown"
)

// IdentifySource classifies a broadcast URL by its host (or an .m3u8 path)
func IdentifySource(raw string) SourceType {
	u, err := url.Parse(raw)
	if err != nil {
		return SourceUnknown
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be":
		return SourceYouTube
	case host == "twitter.com" || strings.HasSuffix(host, ".twitter.com") || host == "x.com" || strings.HasSuffix(host, ".x.com"):
		return SourceTwitter
	case host == "pscp.tv" || strings.HasSuffix(host, ".pscp.tv"):
		return SourcePeriscope
	case strings.Contains(raw, ".m3u8"):
		return SourceM3U8
	}
	return SourceUnknown
}

package validator

import (
	"regexp"
	"strings"
)

// youtubeURLPattern accepts an optional scheme, optional "www." and a non-empty path
// on youtube.com or youtu.be.
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

// ValidateYouTubeURL validates if the URL looks like a YouTube video URL
func ValidateYouTubeURL(videoURL string) bool {
	return youtubeURLPattern.MatchString(strings.TrimSpace(videoURL))
}

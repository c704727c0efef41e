package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"ytinfo/internal/model"
)

const (
	// DescriptionPreviewLength is the number of characters kept from the description
	DescriptionPreviewLength = 200

	defaultTitle  = "Sem título"
	defaultAuthor = "Desconhecido"
)

// flatShapeKeys mark a top-level payload as a metadata section (yt-dlp style)
var flatShapeKeys = []string{"id", "title", "duration"}

// Normalize maps a provider payload onto the VideoInfo contract.
//
// Two payload shapes are recognised: a "videoDetails" object next to a top-level
// "formats" list, and a flat object carrying id/title/duration and formats directly.
// Every output field is populated, falling back to defaults when absent.
func Normalize(raw model.RawMetadata) (*model.VideoInfo, error) {
	details, ok := detailsSection(raw)
	if !ok {
		return nil, ErrInvalidMetadata
	}

	formats := asFormats(raw["formats"])
	if formats == nil {
		formats = asFormats(details["formats"])
	}

	title := firstString(details, "title")
	if title == "" {
		title = defaultTitle
	}

	seconds, _ := firstInt(details, "lengthSeconds", "duration")

	views, ok := firstInt(details, "viewCount", "view_count")
	if !ok || views < 0 {
		views = 0
	}

	return &model.VideoInfo{
		Title:       title,
		Duration:    FormatDuration(seconds),
		Author:      authorName(details),
		Thumbnail:   thumbnailURL(details),
		Description: truncateRunes(firstString(details, "description"), DescriptionPreviewLength),
		Views:       views,
		UploadDate:  firstString(details, "publishDate", "upload_date", "uploadDate"),
		VideoID:     firstString(details, "videoId", "id"),
		Sizes:       SelectFormats(formats),
	}, nil
}

func detailsSection(raw model.RawMetadata) (map[string]any, bool) {
	if raw == nil {
		return nil, false
	}
	if details, ok := asMap(raw["videoDetails"]); ok {
		return details, true
	}
	for _, key := range flatShapeKeys {
		if _, ok := raw[key]; ok {
			return map[string]any(raw), true
		}
	}
	return nil, false
}

func authorName(details map[string]any) string {
	if author, ok := asMap(details["author"]); ok {
		if name := asString(author["name"]); name != "" {
			return name
		}
	}
	if name := firstString(details, "author", "uploader", "ownerChannelName", "channel"); name != "" {
		return name
	}
	return defaultAuthor
}

// thumbnailURL returns the last listed thumbnail, which providers order smallest first
func thumbnailURL(details map[string]any) string {
	thumbnails := asSlice(details["thumbnails"])
	if len(thumbnails) > 0 {
		if last, ok := asMap(thumbnails[len(thumbnails)-1]); ok {
			return asString(last["url"])
		}
		return ""
	}
	return asString(details["thumbnail"])
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if n, ok := asInt(m[key]); ok {
			return n, true
		}
	}
	return 0, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// asInt accepts JSON numbers, Go integers and decimal strings; fractions are floored
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		return parseIntString(n.String())
	case string:
		return parseIntString(n)
	}
	return 0, false
}

func parseIntString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatToInt(f)
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(math.Floor(f)), true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case model.RawMetadata:
		return map[string]any(m), m != nil
	case model.RawFormat:
		return map[string]any(m), m != nil
	}
	return nil, false
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []model.RawFormat:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return nil
}

// asFormats returns nil when v is not a list at all
func asFormats(v any) []model.RawFormat {
	items := asSlice(v)
	if items == nil {
		return nil
	}
	formats := make([]model.RawFormat, 0, len(items))
	for _, item := range items {
		if m, ok := asMap(item); ok {
			formats = append(formats, model.RawFormat(m))
		}
	}
	return formats
}

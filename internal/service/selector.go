package service

import (
	"strconv"

	"ytinfo/internal/model"
)

// MaxSizeEntries caps the number of renditions returned per video
const MaxSizeEntries = 10

// sizeKeys are tried in order; yt-dlp reports filesize or filesize_approx,
// player responses report contentLength.
var sizeKeys = []string{"filesize", "filesize_approx", "contentLength"}

// SelectFormats picks the playable renditions with a known size.
//
// Muxed (video+audio) formats are preferred; video-only formats are used only when
// no muxed format exists. At most MaxSizeEntries candidates are kept, in provider
// order, before entries with an unknown or zero size are dropped.
func SelectFormats(formats []model.RawFormat) []model.SizeEntry {
	candidates := filterFormats(formats, func(f model.RawFormat) bool {
		return hasVideo(f) && hasAudio(f)
	})
	if len(candidates) == 0 {
		candidates = filterFormats(formats, hasVideo)
	}
	if len(candidates) > MaxSizeEntries {
		candidates = candidates[:MaxSizeEntries]
	}

	entries := make([]model.SizeEntry, 0, len(candidates))
	for _, f := range candidates {
		size := sizeBytes(f)
		if size <= 0 {
			continue
		}
		entries = append(entries, model.SizeEntry{
			Quality:   qualityLabel(f),
			Container: containerName(f),
			Size:      FormatBytes(size),
			SizeBytes: size,
		})
	}
	return entries
}

func filterFormats(formats []model.RawFormat, keep func(model.RawFormat) bool) []model.RawFormat {
	var out []model.RawFormat
	for _, f := range formats {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func hasVideo(f model.RawFormat) bool { return hasStream(f, "vcodec", "hasVideo") }

func hasAudio(f model.RawFormat) bool { return hasStream(f, "acodec", "hasAudio") }

// hasStream reports a usable codec: present and not "none", or an explicit flag
func hasStream(f model.RawFormat, codecKey, flagKey string) bool {
	if codec := asString(f[codecKey]); codec != "" && codec != "none" {
		return true
	}
	flag, _ := f[flagKey].(bool)
	return flag
}

func sizeBytes(f model.RawFormat) int64 {
	for _, key := range sizeKeys {
		if n, ok := asInt(f[key]); ok && n > 0 {
			return n
		}
	}
	return 0
}

func qualityLabel(f model.RawFormat) string {
	if q := firstString(f, "format_note", "qualityLabel"); q != "" {
		return q
	}
	if h, ok := asInt(f["height"]); ok && h > 0 {
		return strconv.FormatInt(h, 10) + "p"
	}
	if q := asString(f["quality"]); q != "" {
		return q
	}
	return "unknown"
}

func containerName(f model.RawFormat) string {
	if c := firstString(f, "ext", "container"); c != "" {
		return c
	}
	return "unknown"
}

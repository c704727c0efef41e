package model

// RawMetadata is the loosely-typed payload returned by an extraction provider.
// Field names depend on the provider; see service.Normalize for the recognised shapes.
type RawMetadata map[string]any

// RawFormat is one provider-specific rendition entry.
type RawFormat map[string]any

// VideoInfo is the normalized response returned by POST /api/video-info
type VideoInfo struct {
	Title       string      `json:"title"`
	Duration    string      `json:"duration"`
	Author      string      `json:"author"`
	Thumbnail   string      `json:"thumbnail"`
	Description string      `json:"description"`
	Views       int64       `json:"views"`
	UploadDate  string      `json:"uploadDate"`
	VideoID     string      `json:"videoId"`
	Sizes       []SizeEntry `json:"sizes"`
}

// SizeEntry represents a playable rendition with a known size
type SizeEntry struct {
	Quality   string `json:"quality"`
	Container string `json:"container"`
	Size      string `json:"size"`
	SizeBytes int64  `json:"sizeBytes"`
}

// VideoInfoRequest is the body accepted by POST /api/video-info
type VideoInfoRequest struct {
	URL string `json:"url"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error string `json:"error"`
}

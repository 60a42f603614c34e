package domain

import "time"

// MediaStatus enumerates the media processing lifecycle states.
type MediaStatus string

const (
	MediaStatusUploading  MediaStatus = "uploading"
	MediaStatusProcessing MediaStatus = "processing"
	MediaStatusReady      MediaStatus = "ready"
	MediaStatusFailed     MediaStatus = "failed"
)

// Media describes one uploaded asset and its derived variants. URLs, Width and
// Height are populated only once the record reaches MediaStatusReady.
type Media struct {
	ID        string            `json:"id"`
	Filename  string            `json:"filename"`
	MimeType  string            `json:"mimeType"`
	Size      int64             `json:"size"`
	Alt       string            `json:"alt,omitempty"`
	URLs      map[string]string `json:"urls,omitempty"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
	Status    MediaStatus       `json:"status"`
	UploadKey string            `json:"uploadKey,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// IsTerminal reports whether no further processing may run for this record.
func (m *Media) IsTerminal() bool {
	return m.Status == MediaStatusReady || m.Status == MediaStatusFailed
}

// ProcessingJob instructs the worker which media to process and where its
// original bytes live. Jobs are ephemeral and never persisted.
type ProcessingJob struct {
	MediaID   string
	UploadKey string
	Filename  string
	MimeType  string
}

// TranscodeResult carries the outcome of a successful transcoding run.
type TranscodeResult struct {
	URLs     map[string]string
	Width    int
	Height   int
	Size     int64
	MimeType string
}

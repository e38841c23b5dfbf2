package models

import (
	"fmt"
	"time"
)

// CDX field names used when building playback URLs
const (
	FieldTimestamp  = "timestamp"
	FieldOriginal   = "original"
	FieldStatusCode = "statuscode"
	FieldMimeType   = "mimetype"
)

// Snapshot is one CDX record: the header row zipped with a data row.
// Values keep the JSON type they were decoded with.
type Snapshot map[string]any

// Field returns a field rendered as a string, or "" when absent
func (s Snapshot) Field(name string) string {
	v, ok := s[name]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Timestamp is the 14-digit capture time: YYYYMMDDhhmmss
func (s Snapshot) Timestamp() string { return s.Field(FieldTimestamp) }

// Original is the URL that was archived
func (s Snapshot) Original() string { return s.Field(FieldOriginal) }

// StatusCode is the HTTP status recorded at capture time ("-" for some records)
func (s Snapshot) StatusCode() string { return s.Field(FieldStatusCode) }

// MimeType is the captured content type, if the index returned it
func (s Snapshot) MimeType() string { return s.Field(FieldMimeType) }

// TimemapIndex is the Memento aggregator response for one URL
// Only the archive URIs are used; other fields are ignored on decode.
type TimemapIndex struct {
	TimemapIndex []TimemapEntry `json:"timemap_index"`
}

// TimemapEntry identifies an archive service holding at least one memento
type TimemapEntry struct {
	URI string `json:"uri"`
}

// SnapshotRecord is a stored snapshot row
type SnapshotRecord struct {
	ID          int64
	InputURL    string
	Original    string
	Timestamp   string
	StatusCode  string
	MimeType    string
	PlaybackURL string
	FetchedAt   time.Time
}

// ArchiveRecord is a stored Memento discovery result
type ArchiveRecord struct {
	ID           int64
	Archive      string
	DiscoveredAt time.Time
}

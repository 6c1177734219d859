package model

import "strings"

// Segment is a single caption entry from a video transcript
type Segment struct {
	Text  string  `json:"text"`            // Spoken text
	Start float64 `json:"start,omitempty"` // Offset from video start, in seconds
}

// Transcript is the ordered caption sequence of one video
type Transcript struct {
	VideoID  string    `json:"video_id"`
	Segments []Segment `json:"segments"`
}

// Text concatenates segment texts in caption order with no separator,
// matching how the captions read as continuous speech.
func (t Transcript) Text() string {
	var sb strings.Builder
	for _, s := range t.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// SkippedVideo records a video that failed transcript acquisition
type SkippedVideo struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// TranscriptBundle merges transcripts from multiple videos into one text blob.
// Once merged, claims are no longer attributable to a specific source video.
type TranscriptBundle struct {
	Text    string         `json:"text"`              // All transcripts joined with blank lines
	Videos  []string       `json:"videos"`            // URLs that contributed text, in input order
	Skipped []SkippedVideo `json:"skipped,omitempty"` // URLs that failed acquisition
}

// IsEmpty reports whether no video produced usable transcript text
func (b TranscriptBundle) IsEmpty() bool {
	return strings.TrimSpace(b.Text) == ""
}

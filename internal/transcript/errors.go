package transcript

import "fmt"

// AcquisitionError indicates that no transcript could be fetched for a video.
// It is a per-video condition: one failing video must not abort the others.
type AcquisitionError struct {
	VideoID string
	Err     error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no transcript available for video %s: %v", e.VideoID, e.Err)
	}
	return fmt.Sprintf("no transcript available for video %s", e.VideoID)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

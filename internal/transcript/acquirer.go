package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/claimsight/claimsight/internal/cache"
	"github.com/claimsight/claimsight/internal/model"
)

// playerEndpoint is a var so tests can point it at a local server
var playerEndpoint = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

const innertubeClient = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"

var bracketNoise = regexp.MustCompile(`\[(?:Music|Applause|Laughter|Cheering|Inaudible)\]`)
var multiSpace = regexp.MustCompile(`\s+`)

// Acquirer fetches ordered caption segments for videos
type Acquirer struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache // nil when caching disabled
}

// NewAcquirer creates an Acquirer. A nil cache disables transcript caching.
func NewAcquirer(timeout time.Duration, c cache.Cache) *Acquirer {
	return &Acquirer{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		cache:      c,
	}
}

// ExtractVideoID pulls the opaque video identifier out of a URL-like
// reference: the portion after the last '=', or after the last '/' for
// short-form links.
func ExtractVideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("empty video reference")
	}
	if idx := strings.LastIndex(s, "="); idx >= 0 {
		s = s[idx+1:]
	} else if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	if s == "" {
		return "", fmt.Errorf("no video identifier in %q", rawURL)
	}
	return s, nil
}

// Acquire fetches the transcript for one video reference.
// Fails with *AcquisitionError when captions are disabled or unavailable.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (model.Transcript, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return model.Transcript{}, &AcquisitionError{VideoID: rawURL, Err: err}
	}

	if a.cache != nil {
		if data, found := a.cache.Get(cache.Key("transcript", videoID)); found {
			var t model.Transcript
			if err := json.Unmarshal(data, &t); err == nil {
				return t, nil
			}
		}
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return model.Transcript{}, &AcquisitionError{VideoID: videoID, Err: err}
	}

	tracks, err := a.fetchCaptionTracks(ctx, videoID)
	if err != nil {
		return model.Transcript{}, &AcquisitionError{VideoID: videoID, Err: err}
	}

	segments, err := a.fetchSegments(ctx, tracks)
	if err != nil {
		return model.Transcript{}, &AcquisitionError{VideoID: videoID, Err: err}
	}

	t := model.Transcript{VideoID: videoID, Segments: segments}

	if a.cache != nil {
		if data, err := json.Marshal(t); err == nil {
			_ = a.cache.Set(cache.Key("transcript", videoID), data, 0)
		}
	}

	return t, nil
}

// captionTrack from the innertube player response
type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Lang    string `json:"languageCode"`
	Kind    string `json:"kind"`
}

// fetchCaptionTracks uses the innertube API (ANDROID client) to list caption
// track URLs for a video.
func (a *Acquirer) fetchCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	payload := map[string]interface{}{
		"context": map[string]interface{}{
			"client": map[string]interface{}{
				"clientName":        "ANDROID",
				"clientVersion":     "19.09.37",
				"androidSdkVersion": 30,
				"hl":                "en",
				"gl":                "US",
			},
		},
		"videoId":        videoID,
		"contentCheckOk": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, playerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", innertubeClient)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Captions struct {
			PlayerCaptionsTracklistRenderer struct {
				CaptionTracks []captionTrack `json:"captionTracks"`
			} `json:"playerCaptionsTracklistRenderer"`
		} `json:"captions"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	tracks := result.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("captions disabled or missing")
	}

	return tracks, nil
}

// fetchSegments tries tracks in preference order until one yields segments.
// Preference: English manual captions > English ASR > any language.
func (a *Acquirer) fetchSegments(ctx context.Context, tracks []captionTrack) ([]model.Segment, error) {
	var urls []string
	for _, t := range tracks {
		if t.Lang == "en" && t.Kind != "asr" {
			urls = append([]string{t.BaseURL + "&fmt=srv3"}, urls...)
		} else if t.Lang == "en" {
			urls = append(urls, t.BaseURL+"&fmt=srv3")
		}
	}
	if len(urls) == 0 {
		for _, t := range tracks {
			urls = append(urls, t.BaseURL+"&fmt=srv3")
		}
	}

	var lastErr error
	for _, u := range urls {
		segments, err := a.fetchTrack(ctx, u)
		if err == nil && len(segments) > 0 {
			return segments, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no caption track yielded text")
	}
	return nil, lastErr
}

// timedText is the srv3 caption XML format
type timedText struct {
	XMLName xml.Name `xml:"timedtext"`
	Body    ttBody   `xml:"body"`
}

type ttBody struct {
	Paragraphs []ttParagraph `xml:"p"`
}

type ttParagraph struct {
	Start int    `xml:"t,attr"` // milliseconds
	Dur   int    `xml:"d,attr"`
	Text  string `xml:",chardata"`
}

// legacyTimedText is the older caption XML format
type legacyTimedText struct {
	XMLName xml.Name      `xml:"transcript"`
	Texts   []legacyEntry `xml:"text"`
}

type legacyEntry struct {
	Start string `xml:"start,attr"` // seconds
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func (a *Acquirer) fetchTrack(ctx context.Context, u string) ([]model.Segment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", innertubeClient)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return nil, fmt.Errorf("bad caption response: status=%d len=%d", resp.StatusCode, len(body))
	}

	// srv3 format first (<timedtext><body><p t="" d="">)
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err == nil && len(tt.Body.Paragraphs) > 0 {
		segments := make([]model.Segment, 0, len(tt.Body.Paragraphs))
		for _, p := range tt.Body.Paragraphs {
			text := cleanCaption(p.Text)
			if text == "" {
				continue
			}
			segments = append(segments, model.Segment{
				Text:  text + " ",
				Start: float64(p.Start) / 1000,
			})
		}
		return segments, nil
	}

	// Legacy format (<transcript><text start="" dur="">)
	var legacy legacyTimedText
	if err := xml.Unmarshal(body, &legacy); err == nil && len(legacy.Texts) > 0 {
		segments := make([]model.Segment, 0, len(legacy.Texts))
		for _, t := range legacy.Texts {
			text := cleanCaption(t.Text)
			if text == "" {
				continue
			}
			start, _ := strconv.ParseFloat(t.Start, 64)
			segments = append(segments, model.Segment{Text: text + " ", Start: start})
		}
		return segments, nil
	}

	return nil, fmt.Errorf("no text entries in caption track")
}

// cleanCaption removes bracket noise and HTML entities, collapses whitespace
func cleanCaption(text string) string {
	text = bracketNoise.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var (
	videoIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoPathPattern = regexp.MustCompile(`^/(embed|v|shorts|live)/([A-Za-z0-9_-]{11})`)
	looseURLPattern  = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|v/|shorts/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	whitespace       = regexp.MustCompile(`\s+`)
)

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	return host
}

func isYouTubeHost(host string) bool {
	host = normalizeHost(host)
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be"
}

// IsYouTubeURL reports whether raw points at a YouTube host. A YouTube URL
// without a resolvable video id is still a YouTube URL (and fails as InvalidUrl).
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return looseURLPattern.MatchString(raw)
	}
	return isYouTubeHost(u.Hostname())
}

// ExtractVideoID resolves the 11-character video id from the common YouTube URL
// shapes. Non-YouTube URLs report false.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		if m := looseURLPattern.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
		if videoIDPattern.MatchString(raw) {
			return raw, true
		}
		return "", false
	}

	host := normalizeHost(u.Hostname())
	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			if videoIDPattern.MatchString(v) {
				return v, true
			}
			return "", false
		}
		if m := videoPathPattern.FindStringSubmatch(u.Path); m != nil {
			return m[2], true
		}
	case host == "youtu.be":
		id := strings.TrimPrefix(u.Path, "/")
		if i := strings.Index(id, "/"); i >= 0 {
			id = id[:i]
		}
		if videoIDPattern.MatchString(id) {
			return id, true
		}
	}
	return "", false
}

// TranscriptFetcher returns the caption segments of a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID, lang string) ([]string, error)
}

// YouTubeFetcher reads captions through the kkdai/youtube client.
type YouTubeFetcher struct {
	client *youtube.Client
}

// NewYouTubeFetcher wraps client; a zero client is used when nil.
func NewYouTubeFetcher(client *youtube.Client) *YouTubeFetcher {
	if client == nil {
		client = &youtube.Client{}
	}
	return &YouTubeFetcher{client: client}
}

func (f *YouTubeFetcher) FetchTranscript(ctx context.Context, videoID, lang string) ([]string, error) {
	video, err := f.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, newError(KindVideoUnavailable, err)
	}

	transcript, err := f.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		if errors.Is(err, youtube.ErrTranscriptDisabled) {
			return nil, newError(KindTranscriptUnavailable, err)
		}
		return nil, newError(KindTranscriptUnavailable, fmt.Errorf("no transcript in %q: %w", lang, err))
	}

	segments := make([]string, 0, len(transcript))
	for _, seg := range transcript {
		segments = append(segments, seg.Text)
	}
	return segments, nil
}

// joinTranscript concatenates segments and collapses whitespace.
func joinTranscript(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.Join(parts, " "), " "))
}

// Package extractor turns a YouTube or blog URL into plain text for the
// repurposing prompt. YouTube URLs go through the transcript fetcher; every
// other http(s) URL is scraped.
package extractor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"
)

// Source identifies which path produced the content.
type Source string

const (
	SourceYouTube Source = "youtube"
	SourceWeb     Source = "web"
)

// Content is the normalized text used by the length gate and the prompt.
type Content struct {
	Text   string
	Length int
	Source Source
}

// Config holds the extraction limits.
type Config struct {
	UserAgent           string
	Timeout             time.Duration
	Language            string
	MinTranscriptLength int
	MinScrapeLength     int
	MaxScrapeLength     int
}

// Extractor dispatches a URL to the transcript or scrape path.
type Extractor struct {
	cfg         Config
	transcripts TranscriptFetcher
	scraper     Scraper
	logger      *slog.Logger
}

// Option customizes the extractor.
type Option func(*Extractor)

// WithTranscriptFetcher overrides the YouTube transcript source.
func WithTranscriptFetcher(f TranscriptFetcher) Option {
	return func(e *Extractor) {
		if f != nil {
			e.transcripts = f
		}
	}
}

// WithScraper overrides the page scraper.
func WithScraper(s Scraper) Option {
	return func(e *Extractor) {
		if s != nil {
			e.scraper = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Extractor with the kkdai transcript fetcher and the goquery scraper.
func New(cfg Config, opts ...Option) *Extractor {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.MaxScrapeLength <= 0 {
		cfg.MaxScrapeLength = 5000
	}
	e := &Extractor{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transcripts == nil {
		e.transcripts = NewYouTubeFetcher(nil)
	}
	if e.scraper == nil {
		e.scraper = NewHTMLScraper(&http.Client{Timeout: cfg.Timeout}, cfg.UserAgent)
	}
	return e
}

// Extract resolves rawURL into text. Every failure is an *Error.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Content, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, newError(KindInvalidURL, errors.New("url must be an absolute http(s) url"))
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	if isYouTubeHost(u.Hostname()) {
		return e.extractTranscript(ctx, rawURL)
	}
	return e.extractPage(ctx, rawURL)
}

func (e *Extractor) extractTranscript(ctx context.Context, rawURL string) (*Content, error) {
	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, newError(KindInvalidURL, errors.New("no video id in youtube url"))
	}

	segments, err := e.transcripts.FetchTranscript(ctx, videoID, e.cfg.Language)
	if err != nil {
		var classified *Error
		if errors.As(err, &classified) {
			return nil, classified
		}
		return nil, newError(KindTranscriptUnavailable, err)
	}

	text := joinTranscript(segments)
	if text == "" {
		return nil, newError(KindEmptyTranscript, errors.New("no readable text in transcript"))
	}
	length := utf8.RuneCountInString(text)
	if length < e.cfg.MinTranscriptLength {
		return nil, newError(KindEmptyTranscript, ErrTranscriptTooShort)
	}

	e.logger.Debug("transcript extracted", "video_id", videoID, "length", length)
	return &Content{Text: text, Length: length, Source: SourceYouTube}, nil
}

func (e *Extractor) extractPage(ctx context.Context, rawURL string) (*Content, error) {
	text, err := e.scraper.Scrape(ctx, rawURL)
	if err != nil {
		var classified *Error
		if errors.As(err, &classified) {
			return nil, classified
		}
		return nil, newError(KindScrapeFailed, err)
	}

	text = truncateRunes(text, e.cfg.MaxScrapeLength)
	length := utf8.RuneCountInString(text)
	if length < e.cfg.MinScrapeLength {
		return nil, newError(KindInsufficientContent, errors.New("insufficient content extracted from the page"))
	}

	e.logger.Debug("page scraped", "url", rawURL, "length", length)
	return &Content{Text: text, Length: length, Source: SourceWeb}, nil
}

package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors covers headings, paragraphs and the usual article containers.
const contentSelectors = "h1, h2, h3, p, article, main, .post-content, .content, .article-body"

// Scraper fetches a page and collects its readable text.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (string, error)
}

// HTMLScraper is the goquery-backed Scraper.
type HTMLScraper struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTMLScraper returns a scraper sending the given User-Agent.
func NewHTMLScraper(httpClient *http.Client, userAgent string) *HTMLScraper {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTMLScraper{httpClient: httpClient, userAgent: userAgent}
}

func (s *HTMLScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", newError(KindInvalidURL, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", newError(KindScrapeFailed, fmt.Errorf("fetch page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newError(KindScrapeFailed, fmt.Errorf("fetch page: http %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", newError(KindScrapeFailed, fmt.Errorf("parse html: %w", err))
	}

	var parts []string
	doc.Find(contentSelectors).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", newError(KindScrapeFailed, errors.New("no content found on the page"))
	}
	return text, nil
}

// truncateRunes cuts s to at most max characters.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

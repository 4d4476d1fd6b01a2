package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const maxContentRunes = 4000

// Article is the readable part of a web page.
type Article struct {
	Title    string
	Byline   string
	SiteName string
	Excerpt  string
	Content  string // plain text, truncated
}

// Reader fetches pages and extracts their main text.
type Reader struct {
	http *http.Client
}

// NewReader creates a Reader. A non-positive timeout selects 20s.
func NewReader(timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Reader{http: &http.Client{Timeout: timeout}}
}

// Read fetches u and extracts the article text.
func (r *Reader) Read(ctx context.Context, u string) (Article, error) {
	if r == nil {
		return Article{}, errors.New("nil reader")
	}
	pageURL, err := url.ParseRequestURI(u)
	if err != nil {
		return Article{}, fmt.Errorf("invalid url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Article{}, err
	}
	req.Header.Set("User-Agent", "hack-or-snooze-cli/1.0")
	resp, err := r.http.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Article{}, fmt.Errorf("fetching %s: status=%d body=%s", u, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	parsed, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extracting content from %s: %w", u, err)
	}
	content := strings.TrimSpace(parsed.TextContent)
	if rs := []rune(content); len(rs) > maxContentRunes {
		content = string(rs[:maxContentRunes])
	}
	return Article{
		Title:    strings.TrimSpace(parsed.Title),
		Byline:   strings.TrimSpace(parsed.Byline),
		SiteName: strings.TrimSpace(parsed.SiteName),
		Excerpt:  strings.TrimSpace(parsed.Excerpt),
		Content:  content,
	}, nil
}

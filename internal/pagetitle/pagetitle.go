// Package pagetitle looks up the <title> of a web page, used as the default
// title when bookmarking a URL.
package pagetitle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	Timeout = 10 * time.Second

	maxPageSize = 2 << 20
)

// Fetch downloads rawURL and returns its trimmed <title>, falling back to the
// og:title meta tag. An empty string with a nil error means the page has no title.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	if client == nil {
		client = &http.Client{Timeout: Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "spot-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", nil
	}

	return Parse(io.LimitReader(resp.Body, maxPageSize))
}

// Parse extracts the title from an HTML document.
func Parse(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	if title := clean(doc.Find("head title").First().Text()); title != "" {
		return title, nil
	}
	if title := clean(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return clean(og), nil
	}
	return "", nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves web pages and extracts their visible text.
// Any fetch or parse failure is recoverable: the result carries empty
// text plus the error, and the pipeline moves on to the next URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

// browserUserAgent is the identification header sent with page fetches.
// Some sites refuse requests with obvious non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const defaultTimeout = 10 * time.Second

// Result records the outcome of fetching one URL. On failure Text is
// empty and Err holds the cause; the caller logs it and continues.
type Result struct {
	URL  string
	Text string
	Err  error
}

// Fetcher performs page fetches with a fixed timeout and browser-like headers.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds a Fetcher from the stage configuration, applying the
// default timeout and User-Agent where unset.
func NewFetcher(cfg types.FetchConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = browserUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// Fetch retrieves the URL and returns its extracted visible text,
// truncated to types.MaxContentLen. Network failures, non-success
// statuses, and parse failures all yield an empty-text Result.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Result{URL: pageURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{URL: pageURL, Err: fmt.Errorf("HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return Result{URL: pageURL, Err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Result{URL: pageURL, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	text := types.TruncateChars(ExtractText(doc), types.MaxContentLen)
	return Result{URL: pageURL, Text: text}
}

// FetchAll walks the search results in provider order, fetching at most
// 2x size pages, and returns the source materials whose extraction
// produced non-empty text. Failures are logged to w; a pacing pause
// follows every attempt.
func FetchAll(ctx context.Context, f *Fetcher, results []types.SearchResult, size int, pace pacing.Policy, w io.Writer) []types.SourceMaterial {
	limit := 2 * size
	if limit > len(results) {
		limit = len(results)
	}

	var materials []types.SourceMaterial
	for _, r := range results[:limit] {
		res := f.Fetch(ctx, r.Link)
		if res.Err != nil {
			fmt.Fprintf(w, "warning: fetch %s failed: %v\n", r.Link, res.Err)
		} else if res.Text != "" {
			materials = append(materials, types.SourceMaterial{
				Title:   r.Title,
				Content: res.Text,
				URL:     r.Link,
			})
		}

		if err := pace.Wait(ctx, pacing.KindFetch); err != nil {
			break
		}
	}
	return materials
}

// ExtractText returns the document's visible text: script, style, and
// noscript subtrees are dropped, remaining text nodes are joined with
// newlines, and whitespace is normalized.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var b strings.Builder
	for _, node := range doc.Nodes {
		collectText(node, &b)
	}
	return NormalizeWhitespace(b.String())
}

// collectText appends each text node's data followed by a newline.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte('\n')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// NormalizeWhitespace trims each line, splits long lines on double-space
// boundaries, drops empty fragments, and rejoins with single newlines.
func NormalizeWhitespace(text string) string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if p := strings.TrimSpace(phrase); p != "" {
				fragments = append(fragments, p)
			}
		}
	}
	return strings.Join(fragments, "\n")
}

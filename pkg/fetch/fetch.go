// Package fetch locates the register documents on the council website and
// downloads them. Discovery crawls the published register page and keeps
// the anchors that point at register PDFs.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Registers run to a few megabytes; anything larger is not a register.
const (
	maxPDFSize     = 32 << 20
	defaultTimeout = 60 * time.Second
)

// Link is one discovered register document.
type Link struct {
	URL   string
	Title string
}

// Fetcher discovers and downloads register PDFs. The zero value works,
// with a default timeout and no logging.
type Fetcher struct {
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// DiscoverRegisters visits the register page and returns the register PDF
// links in document order, deduplicated and resolved to absolute URLs.
func (f *Fetcher) DiscoverRegisters(ctx context.Context, pageURL string) ([]Link, error) {
	logger := f.logger()
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	var links []Link
	seen := make(map[string]bool)

	c := colly.NewCollector(colly.AllowedDomains(parsed.Hostname()))
	c.SetRequestTimeout(f.timeout())
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if href == "" {
			return
		}
		title := anchorTitle(e.DOM)
		if !registerLink(href, title) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, Link{URL: href, Title: title})
		logger.Debug("register discovered",
			zap.String("url", href),
			zap.String("title", title))
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, visitErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// Download fetches one register PDF, capped at maxPDFSize.
func (f *Fetcher) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := &http.Client{Timeout: f.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if len(data) > maxPDFSize {
		return nil, fmt.Errorf("download %s: exceeds %d bytes", rawURL, maxPDFSize)
	}
	if !looksLikePDF(data, resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("download %s: not a PDF", rawURL)
	}

	f.logger().Debug("register downloaded",
		zap.String("url", rawURL),
		zap.Int("bytes", len(data)))
	return data, nil
}

// registerLink keeps anchors that point at a register PDF. The council
// page links assorted documents; only development register PDFs qualify.
func registerLink(href, title string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return false
	}
	subject := strings.ToLower(title + " " + u.Path)
	return strings.Contains(subject, "register") || strings.Contains(subject, "development")
}

// anchorTitle prefers the anchor's text, falling back to its title
// attribute when the anchor wraps an image or is otherwise empty.
func anchorTitle(s *goquery.Selection) string {
	if title := strings.TrimSpace(s.Text()); title != "" {
		return title
	}
	title, _ := s.Attr("title")
	return strings.TrimSpace(title)
}

// looksLikePDF accepts a declared PDF content type or a %PDF marker near
// the start of the body. Some servers prepend whitespace before the
// header, so the sniff scans the first kilobyte.
func looksLikePDF(data []byte, contentType string) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *Fetcher) timeout() time.Duration {
	if f.Timeout <= 0 {
		return defaultTimeout
	}
	return f.Timeout
}

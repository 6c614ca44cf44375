package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
)

// Web page text strategies.
const (
	StrategyReadability = "readability"
	StrategyTrafilatura = "trafilatura"
	StrategyPage        = "page"
)

// WebReader fetches a URL and extracts its visible text.
type WebReader struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	strategy  string
	logger    *zap.Logger
}

// NewWebReader returns a WebReader. A nil client gets a client with the given timeout.
func NewWebReader(client *http.Client, timeout time.Duration, userAgent string, maxBytes int64, strategy string, logger *zap.Logger) *WebReader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebReader{
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		strategy:  strategy,
		logger:    logger,
	}
}

func (w *WebReader) Name() string         { return "URL" }
func (w *WebReader) Extensions() []string { return nil }

// NormalizeURL adds an https scheme to bare host names and rejects anything
// that is not http(s).
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty url", ErrUnreachable)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrUnreachable, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrUnreachable)
	}
	return u, nil
}

// Read fetches rawURL and returns its text. Any non-2xx status is a failure.
func (w *WebReader) Read(ctx context.Context, rawURL string) (string, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnreachable, u, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrUnreachable, err)
	}

	w.logger.Debug("fetched url",
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	if !isHTML(resp.Header.Get("Content-Type")) {
		return string(body), nil
	}
	return w.extract(body, u)
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// extract applies the configured strategy, falling back to the whole page
// text when article extraction fails or finds nothing.
func (w *WebReader) extract(body []byte, u *url.URL) (string, error) {
	switch w.strategy {
	case StrategyReadability:
		article, err := readability.FromReader(bytes.NewReader(body), u)
		if err == nil && strings.TrimSpace(article.TextContent) != "" {
			return article.TextContent, nil
		}
		w.logger.Debug("readability found no article, using page text", zap.Error(err))
	case StrategyTrafilatura:
		result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{OriginalURL: u})
		if err == nil && result != nil && strings.TrimSpace(result.ContentText) != "" {
			return result.ContentText, nil
		}
		w.logger.Debug("trafilatura found no content, using page text", zap.Error(err))
	}
	return pageText(body)
}

// pageText returns the visible text of a whole HTML page.
func pageText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return strings.TrimSpace(sel.Text()), nil
}

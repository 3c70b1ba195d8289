// Package scraper implements the fetch/extract pipeline: rate-limited,
// robots-aware HTTP retrieval plus HTML-to-structured-data extraction.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"scrapebot/utils/logging"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config controls one Scraper instance.
type Config struct {
	// Delay is the minimum gap between two fetches by this instance.
	Delay time.Duration
	// Timeout bounds a single fetch, robots.txt included.
	Timeout time.Duration
	// RespectRobots enables the robots.txt gate. The gate fails open when
	// robots.txt cannot be fetched or parsed.
	RespectRobots bool
	// Headers are merged over the default browser-like header set; caller
	// values win on collision.
	Headers map[string]string
}

// Scraper fetches pages and extracts structured content. Each instance has
// its own rate-limiter clock and robots cache; it is safe for sequential use
// by a single session.
type Scraper struct {
	cfg     Config
	client  *http.Client
	headers map[string]string
	robots  *robotsGate

	mu          sync.Mutex
	lastRequest time.Time
}

func New(cfg Config) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	headers := map[string]string{
		"User-Agent":      defaultUserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return &Scraper{
		cfg:     cfg,
		client:  client,
		headers: headers,
		robots:  newRobotsGate(client, headers["User-Agent"]),
	}
}

// rateLimit blocks until at least cfg.Delay has elapsed since the previous
// fetch by this instance.
func (s *Scraper) rateLimit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastRequest.IsZero() {
		if wait := s.cfg.Delay - time.Since(s.lastRequest); wait > 0 {
			time.Sleep(wait)
		}
	}
	s.lastRequest = time.Now()
}

// fetch performs the HTTP GET and returns the body and status code. Non-2xx
// statuses, timeouts and transport failures all come back as errors.
func (s *Scraper) fetch(ctx context.Context, targetURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("building request for %s: %w", targetURL, err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("fetching %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, fmt.Errorf("fetching %s: unexpected status %s", targetURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("reading %s: %w", targetURL, err)
	}
	return string(body), resp.StatusCode, nil
}

// ScrapePage runs the full pipeline for one URL: robots gate, rate limit,
// fetch, then the extraction passes the options request. Failures are
// reported on the result, never as a panic or a Go error.
func (s *Scraper) ScrapePage(ctx context.Context, targetURL string, opts Options) *ScrapingResult {
	defer logging.LogDuration(ctx, "scraper_scrape_page")()

	result := &ScrapingResult{URL: targetURL}

	if s.cfg.RespectRobots && !s.robots.Allowed(targetURL) {
		logging.AppLogger.Warn("robots.txt disallows scraping", zap.String("url", targetURL))
		result.Error = fmt.Sprintf("robots.txt disallows scraping %s", targetURL)
		return result
	}

	s.rateLimit()

	logging.AppLogger.Info("fetching page", zap.String("url", targetURL))
	body, status, err := s.fetch(ctx, targetURL)
	if err != nil {
		logging.ErrorLogger.Error("fetch failed", zap.String("url", targetURL), zap.Error(err))
		result.StatusCode = status
		result.Error = err.Error()
		return result
	}
	result.StatusCode = status

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// html.Parse is permissive; this is effectively unreachable for
		// text bodies but kept for the io path.
		logging.ErrorLogger.Error("parse failed", zap.String("url", targetURL), zap.Error(err))
		result.Error = fmt.Sprintf("parsing %s: %v", targetURL, err)
		return result
	}

	if opts.ExtractText {
		result.TextContent = ExtractText(doc)
	}
	if opts.ExtractLinks {
		result.Links = ExtractLinks(doc, targetURL)
	}
	if opts.ExtractImages {
		result.Images = ExtractImages(doc, targetURL)
	}
	if opts.ExtractMetadata {
		result.Metadata = ExtractMetadata(doc)
		result.Title = result.Metadata["title"]
	}

	logging.AppLogger.Info("scraped page",
		zap.String("url", targetURL),
		zap.Int("status", status),
		zap.Int("links", len(result.Links)),
		zap.Int("images", len(result.Images)),
	)
	return result
}

// ScrapeMany scrapes URLs sequentially in input order. The rate limiter alone
// paces the requests; there is no fan-out.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string, opts Options) []*ScrapingResult {
	results := make([]*ScrapingResult, 0, len(urls))
	for _, u := range urls {
		results = append(results, s.ScrapePage(ctx, u, opts))
	}
	return results
}

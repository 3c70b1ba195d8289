package scraper

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"scrapebot/utils/logging"
)

// robotsGate evaluates robots.txt per origin. It is advisory: any failure to
// fetch or parse robots.txt counts as "allowed" so that an unreachable
// robots.txt never halts a scrape.
type robotsGate struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData // host → parsed rules, nil = fail open
}

func newRobotsGate(client *http.Client, userAgent string) *robotsGate {
	return &robotsGate{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the configured user agent may fetch target.
func (g *robotsGate) Allowed(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return true
	}

	data := g.rulesFor(parsed)
	if data == nil {
		return true
	}
	return data.TestAgent(parsed.Path, g.userAgent)
}

func (g *robotsGate) rulesFor(target *url.URL) *robotstxt.RobotsData {
	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok := g.cache[target.Host]; ok {
		return data
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	data := g.fetch(robotsURL)
	g.cache[target.Host] = data
	return data
}

func (g *robotsGate) fetch(robotsURL string) *robotstxt.RobotsData {
	resp, err := g.client.Get(robotsURL)
	if err != nil {
		logging.AppLogger.Warn("robots.txt unreachable, failing open",
			zap.String("url", robotsURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		logging.AppLogger.Warn("robots.txt server error, failing open",
			zap.String("url", robotsURL), zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.AppLogger.Warn("robots.txt read error, failing open",
			zap.String("url", robotsURL), zap.Error(err))
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logging.AppLogger.Warn("robots.txt parse error, failing open",
			zap.String("url", robotsURL), zap.Error(err))
		return nil
	}
	return data
}

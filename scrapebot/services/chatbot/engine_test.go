package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scrapebot/services/ai"
	"scrapebot/services/scraper"
	"scrapebot/utils/logging"
)

type stubScraper struct {
	calls   int
	results map[string]*scraper.ScrapingResult
}

func (s *stubScraper) ScrapePage(_ context.Context, url string, _ scraper.Options) *scraper.ScrapingResult {
	s.calls++
	if result, ok := s.results[url]; ok {
		return result
	}
	return &scraper.ScrapingResult{URL: url, Error: "no route to host"}
}

type stubAnalyzer struct {
	calls  int
	result *ai.AnalysisResult
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ *scraper.ScrapingResult) *ai.AnalysisResult {
	a.calls++
	if a.result != nil {
		return a.result
	}
	return &ai.AnalysisResult{}
}

func (a *stubAnalyzer) Enabled() bool { return true }

type stubGateway struct {
	calls int
	err   error
}

func (g *stubGateway) SavePage(_ context.Context, _ string, _ *scraper.ScrapingResult, _ *ai.AnalysisResult) (uint, error) {
	g.calls++
	return 1, g.err
}

func okResult(url, title, text string, links int) *scraper.ScrapingResult {
	result := &scraper.ScrapingResult{URL: url, StatusCode: 200, Title: title, TextContent: text}
	for i := 0; i < links; i++ {
		result.Links = append(result.Links, scraper.Link{URL: url + "/l"})
	}
	return result
}

func newTestEngine(scr *stubScraper, analyzer *stubAnalyzer, gateway PersistenceGateway) *Engine {
	logging.InitLogger()
	return NewEngine("sess-1", scr, analyzer, nil, gateway)
}

func TestHelpTouchesNothing(t *testing.T) {
	scr := &stubScraper{}
	analyzer := &stubAnalyzer{}
	gateway := &stubGateway{}
	engine := newTestEngine(scr, analyzer, gateway)

	reply := engine.Handle(context.Background(), "help")

	if !strings.Contains(reply, "Available Commands") {
		t.Errorf("unexpected help text: %q", reply)
	}
	if scr.calls != 0 || analyzer.calls != 0 || gateway.calls != 0 {
		t.Errorf("help must not touch collaborators: scrape=%d analyze=%d save=%d",
			scr.calls, analyzer.calls, gateway.calls)
	}
}

func TestScrapeSuccessUpdatesEverything(t *testing.T) {
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://site.test": okResult("https://site.test", "T", "hello world", 3),
	}}
	analyzer := &stubAnalyzer{result: &ai.AnalysisResult{Summary: "sum", ContentCategory: "Sports"}}
	gateway := &stubGateway{}
	engine := newTestEngine(scr, analyzer, gateway)

	reply := engine.Handle(context.Background(), "scrape https://site.test")

	if !strings.Contains(reply, "Successfully scraped https://site.test") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "AI Summary: sum") || !strings.Contains(reply, "Category: Sports") {
		t.Errorf("reply missing analysis lines: %q", reply)
	}

	stats := engine.Stats()
	if stats.PagesScraped != 1 || stats.TotalLinksFound != 3 || stats.TotalContentAnalyzed != len("hello world") {
		t.Errorf("stats = %+v", stats)
	}
	if gateway.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", gateway.calls)
	}
}

func TestScrapeFailureDoesNotCount(t *testing.T) {
	scr := &stubScraper{}
	analyzer := &stubAnalyzer{}
	gateway := &stubGateway{}
	engine := newTestEngine(scr, analyzer, gateway)

	reply := engine.Handle(context.Background(), "scrape https://down.test")

	if !strings.Contains(reply, "Failed to scrape") {
		t.Errorf("reply = %q", reply)
	}
	if stats := engine.Stats(); stats.PagesScraped != 0 {
		t.Errorf("failed scrape counted: %+v", stats)
	}
	if analyzer.calls != 0 || gateway.calls != 0 {
		t.Error("failed scrape must not analyze or persist")
	}
}

func TestScrapeInvalidURLInline(t *testing.T) {
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://ok.test": okResult("https://ok.test", "T", "text", 0),
	}}
	engine := newTestEngine(scr, &stubAnalyzer{}, nil)

	reply := engine.Handle(context.Background(), "scrape http://%gh and http://ok.test")

	if !strings.Contains(reply, "Invalid URL") {
		t.Errorf("missing inline error: %q", reply)
	}
}

func TestDomainOverwriteKeepsOneEntry(t *testing.T) {
	first := okResult("https://site.test/a", "First", "one", 1)
	second := okResult("https://site.test/b", "Second", "two", 2)
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://site.test/a": first,
		"https://site.test/b": second,
	}}
	engine := newTestEngine(scr, &stubAnalyzer{}, nil)

	engine.Handle(context.Background(), "scrape https://site.test/a")
	engine.Handle(context.Background(), "scrape https://site.test/b")

	if len(engine.pages) != 1 || len(engine.order) != 1 {
		t.Fatalf("cache entries = %d, order = %d, want 1/1", len(engine.pages), len(engine.order))
	}
	if record := engine.pages["site.test"]; record.Result.Title != "Second" {
		t.Errorf("cached title = %q, want Second", record.Result.Title)
	}
}

func TestAnalyzeWithoutDataIsInstructional(t *testing.T) {
	engine := newTestEngine(&stubScraper{}, &stubAnalyzer{}, nil)

	reply := engine.Handle(context.Background(), "analyze the content")

	if !strings.Contains(reply, "haven't scraped any websites yet") {
		t.Errorf("reply = %q", reply)
	}
}

func TestAnalyzeReportsLatestDomain(t *testing.T) {
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://a.test": okResult("https://a.test", "A", "text a", 0),
		"https://b.test": okResult("https://b.test", "B", "text b", 0),
	}}
	analyzer := &stubAnalyzer{result: &ai.AnalysisResult{ContentCategory: "Education", LanguageDetected: "English"}}
	engine := newTestEngine(scr, analyzer, nil)

	engine.Handle(context.Background(), "scrape https://a.test")
	engine.Handle(context.Background(), "scrape https://b.test")
	reply := engine.Handle(context.Background(), "analyze it")

	if !strings.Contains(reply, "Analysis of b.test") {
		t.Errorf("analysis must target the latest domain: %q", reply)
	}
	if !strings.Contains(reply, "Category: Education") {
		t.Errorf("reply = %q", reply)
	}
}

func TestShowLinksListsLinks(t *testing.T) {
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://a.test": okResult("https://a.test", "A", "text", 2),
	}}
	engine := newTestEngine(scr, &stubAnalyzer{}, nil)

	engine.Handle(context.Background(), "scrape https://a.test")
	reply := engine.Handle(context.Background(), "show me the links")

	if !strings.Contains(reply, "Found 2 links on a.test") {
		t.Errorf("reply = %q", reply)
	}
}

func TestPersistenceFailureIsSilent(t *testing.T) {
	scr := &stubScraper{results: map[string]*scraper.ScrapingResult{
		"https://a.test": okResult("https://a.test", "A", "text", 0),
	}}
	gateway := &stubGateway{err: errors.New("db down")}
	engine := newTestEngine(scr, &stubAnalyzer{}, gateway)

	reply := engine.Handle(context.Background(), "scrape https://a.test")

	if !strings.Contains(reply, "Successfully scraped") {
		t.Errorf("persistence failure leaked to the user: %q", reply)
	}
	if gateway.calls != 1 {
		t.Errorf("gateway calls = %d", gateway.calls)
	}
}

func TestHandleAppendsHistoryInOrder(t *testing.T) {
	engine := newTestEngine(&stubScraper{}, &stubAnalyzer{}, nil)

	reply := engine.Handle(context.Background(), "hello there")

	history := engine.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "hello there" {
		t.Errorf("first turn = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != reply {
		t.Errorf("second turn = %+v", history[1])
	}
}

func TestUnknownWithoutResponderUsesCannedReplies(t *testing.T) {
	engine := newTestEngine(&stubScraper{}, &stubAnalyzer{}, nil)

	cases := []struct {
		message  string
		fragment string
	}{
		{"hello there", "Hello! I'm your web scraping assistant"},
		{"thanks a lot", "You're welcome"},
		{"what do you know about cheese", "I can scrape websites"},
		{"weather tomorrow?", "I'm not sure about that"},
	}
	for _, tc := range cases {
		if reply := engine.Handle(context.Background(), tc.message); !strings.Contains(reply, tc.fragment) {
			t.Errorf("Handle(%q) = %q, want fragment %q", tc.message, reply, tc.fragment)
		}
	}
}

package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"scrapebot/services/ai"
	"scrapebot/services/llm"
	"scrapebot/services/scraper"
	"scrapebot/utils/logging"
	"scrapebot/utils/urlutils"
)

// PageScraper is the slice of the scrape pipeline the engine needs.
type PageScraper interface {
	ScrapePage(ctx context.Context, url string, opts scraper.Options) *scraper.ScrapingResult
}

// ContentAnalyzer is the slice of the AI orchestrator the engine needs.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, result *scraper.ScrapingResult) *ai.AnalysisResult
	Enabled() bool
}

// PersistenceGateway receives best-effort writes of completed scrapes. A nil
// gateway means the session runs memory-only.
type PersistenceGateway interface {
	SavePage(ctx context.Context, sessionID string, result *scraper.ScrapingResult, analysis *ai.AnalysisResult) (uint, error)
}

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PageRecord is the cached outcome of one scrape, keyed by domain in the
// engine. Re-scraping a domain overwrites the record in place.
type PageRecord struct {
	Result    *scraper.ScrapingResult
	Analysis  *ai.AnalysisResult
	ScrapedAt time.Time
}

// Stats are the running per-session counters. They count only successfully
// completed operations.
type Stats struct {
	PagesScraped         int       `json:"pages_scraped"`
	TotalLinksFound      int       `json:"total_links_found"`
	TotalContentAnalyzed int       `json:"total_content_analyzed"`
	StartTime            time.Time `json:"start_time"`
}

// Engine owns one session's conversation: history, the domain-keyed result
// cache, and counters. It is not safe for concurrent use; the hosting layer
// serializes calls per session.
type Engine struct {
	sessionID string
	scraper   PageScraper
	analyzer  ContentAnalyzer
	responder llm.Client
	gateway   PersistenceGateway

	history []Turn
	pages   map[string]*PageRecord
	order   []string
	stats   Stats
}

func NewEngine(sessionID string, scr PageScraper, analyzer ContentAnalyzer, responder llm.Client, gateway PersistenceGateway) *Engine {
	return &Engine{
		sessionID: sessionID,
		scraper:   scr,
		analyzer:  analyzer,
		responder: responder,
		gateway:   gateway,
		pages:     make(map[string]*PageRecord),
		stats:     Stats{StartTime: time.Now()},
	}
}

// Handle classifies a message, dispatches it, and returns the formatted
// reply. The user message and the reply are appended to the history before
// returning, in that order.
func (e *Engine) Handle(ctx context.Context, message string) string {
	intent := Classify(message)

	var response string
	switch intent.Action {
	case ActionScrape:
		response = e.handleScrape(ctx, intent)
	case ActionAnalyze:
		response = e.handleAnalyze(intent)
	case ActionShowData:
		response = e.handleShowData(intent)
	case ActionHelp:
		response = e.handleHelp()
	case ActionStats:
		response = e.handleStats()
	default:
		response = e.handleUnknown(ctx, message)
	}

	e.history = append(e.history,
		Turn{Role: "user", Content: message},
		Turn{Role: "assistant", Content: response},
	)
	return response
}

// History returns the conversation so far.
func (e *Engine) History() []Turn { return e.history }

// Stats returns a copy of the running counters.
func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) handleScrape(ctx context.Context, intent Intent) string {
	if len(intent.URLs) == 0 {
		return "I'd be happy to scrape a website for you! Please provide a URL, like: 'scrape https://example.com'"
	}

	var results []string
	for _, raw := range intent.URLs {
		target := urlutils.Normalize(raw)
		if !urlutils.IsValid(target) {
			results = append(results, fmt.Sprintf("❌ Invalid URL: %s", raw))
			continue
		}

		result := e.scraper.ScrapePage(ctx, target, scraper.Default())
		if result.Error != "" {
			results = append(results, fmt.Sprintf("❌ Failed to scrape %s: %s", target, result.Error))
			continue
		}

		var analysis *ai.AnalysisResult
		if e.analyzer != nil {
			analysis = e.analyzer.Analyze(ctx, result)
		}

		e.cache(urlutils.ExtractDomain(target), &PageRecord{
			Result: result, Analysis: analysis, ScrapedAt: time.Now(),
		})
		e.stats.PagesScraped++
		e.stats.TotalLinksFound += len(result.Links)
		e.stats.TotalContentAnalyzed += len(result.TextContent)

		e.persist(ctx, result, analysis)

		parts := []string{
			fmt.Sprintf("✅ Successfully scraped %s", target),
			fmt.Sprintf("📄 Title: %s", titleOrDefault(result.Title)),
			fmt.Sprintf("📝 Content: %d characters", len(result.TextContent)),
			fmt.Sprintf("🔗 Links found: %d", len(result.Links)),
		}
		if analysis != nil && analysis.Summary != "" {
			parts = append(parts, fmt.Sprintf("🤖 AI Summary: %s", analysis.Summary))
		}
		if analysis != nil && analysis.ContentCategory != "" {
			parts = append(parts, fmt.Sprintf("📂 Category: %s", analysis.ContentCategory))
		}
		results = append(results, strings.Join(parts, "\n"))
	}

	return strings.Join(results, "\n\n")
}

// cache stores a record keyed by domain. Re-scraped domains keep their
// position in insertion order; only the record is replaced.
func (e *Engine) cache(domain string, record *PageRecord) {
	if _, seen := e.pages[domain]; !seen {
		e.order = append(e.order, domain)
	}
	e.pages[domain] = record
}

func (e *Engine) persist(ctx context.Context, result *scraper.ScrapingResult, analysis *ai.AnalysisResult) {
	if e.gateway == nil {
		return
	}
	if _, err := e.gateway.SavePage(ctx, e.sessionID, result, analysis); err != nil {
		logging.ErrorLogger.Error("persistence write failed",
			zap.String("session_id", e.sessionID),
			zap.String("url", result.URL),
			zap.Error(err),
		)
	}
}

func (e *Engine) latest() (string, *PageRecord, bool) {
	if len(e.order) == 0 {
		return "", nil, false
	}
	domain := e.order[len(e.order)-1]
	return domain, e.pages[domain], true
}

func (e *Engine) handleAnalyze(intent Intent) string {
	domain, record, ok := e.latest()
	if !ok {
		return "I haven't scraped any websites yet. Please scrape a website first, then I can analyze the content."
	}
	if record.Result.Error != "" {
		return fmt.Sprintf("The last scraping attempt for %s was unsuccessful, so I can't analyze the content.", domain)
	}

	parts := []string{fmt.Sprintf("📊 Analysis of %s:", domain)}

	if record.Analysis != nil {
		analysis := record.Analysis
		if analysis.ContentCategory != "" {
			parts = append(parts, fmt.Sprintf("📂 Category: %s", analysis.ContentCategory))
		}
		if analysis.LanguageDetected != "" {
			parts = append(parts, fmt.Sprintf("🌐 Language: %s", analysis.LanguageDetected))
		}
		if analysis.ReadabilityScore > 0 {
			parts = append(parts, fmt.Sprintf("✍️ Quality Score: %.2f", analysis.ReadabilityScore))
		}
		if intent.AnalyzeSentiment {
			parts = append(parts, fmt.Sprintf("💭 Sentiment: %s (score %.2f, confidence %.2f)",
				sentimentLabel(analysis.SentimentScore), analysis.SentimentScore, analysis.SentimentConfidence))
		}
		if intent.GenerateSummary && analysis.Summary != "" {
			parts = append(parts, fmt.Sprintf("📋 Summary: %s", analysis.Summary))
		}
	}
	if len(parts) == 1 && (e.analyzer == nil || !e.analyzer.Enabled()) {
		parts = append(parts, "💡 For AI-powered analysis, please provide an OpenAI or Anthropic API key.")
	}
	parts = append(parts, fmt.Sprintf("📝 Content: %d characters", len(record.Result.TextContent)))

	return strings.Join(parts, "\n")
}

func (e *Engine) handleShowData(intent Intent) string {
	domain, record, ok := e.latest()
	if !ok {
		return "I haven't scraped any websites yet. Please scrape a website first."
	}
	if record.Result.Error != "" {
		return "The last scraping attempt was unsuccessful, so I don't have data to show."
	}

	var parts []string
	if intent.ShowLinks {
		parts = append(parts, fmt.Sprintf("🔗 Found %d links on %s", len(record.Result.Links), domain))
		for i, link := range record.Result.Links {
			if i == 5 {
				parts = append(parts, fmt.Sprintf("   ... and %d more", len(record.Result.Links)-5))
				break
			}
			parts = append(parts, fmt.Sprintf("   • %s", link.URL))
		}
	}
	if intent.ShowImages {
		parts = append(parts, fmt.Sprintf("🖼️ Found %d images on %s", len(record.Result.Images), domain))
		for i, image := range record.Result.Images {
			if i == 5 {
				parts = append(parts, fmt.Sprintf("   ... and %d more", len(record.Result.Images)-5))
				break
			}
			parts = append(parts, fmt.Sprintf("   • %s", image.Src))
		}
	}

	if len(parts) == 0 {
		parts = []string{
			fmt.Sprintf("📊 Data from %s:", domain),
			fmt.Sprintf("📄 Title: %s", titleOrDefault(record.Result.Title)),
			fmt.Sprintf("📝 Content: %d characters", len(record.Result.TextContent)),
			fmt.Sprintf("🔗 Links: %d", len(record.Result.Links)),
			fmt.Sprintf("🖼️ Images: %d", len(record.Result.Images)),
		}
		if record.Analysis != nil && record.Analysis.ContentCategory != "" {
			parts = append(parts, fmt.Sprintf("📂 Category: %s", record.Analysis.ContentCategory))
		}
	}
	return strings.Join(parts, "\n")
}

func (e *Engine) handleHelp() string {
	return strings.TrimSpace(`
🤖 Web Scraping Assistant - Available Commands:

**Scraping Commands:**
• "Scrape [URL]" - Extract content from a website
• "Get data from [URL]" - Same as scrape
• "Fetch [URL]" - Download and analyze a webpage

**Analysis Commands:**
• "Analyze the content" - Analyze the last scraped website
• "What's the sentiment?" - Check emotional tone of content
• "Summarize the page" - Get an AI-generated summary

**Data Commands:**
• "Show me the links" - Display link information
• "Show images" - Display image data
• "Show data" - General overview of scraped data

**Session Commands:**
• "Stats" - Show session statistics
• "Help" - Show this help message

💡 Pro tip: Just type the domain name - no need for http:// or https://`)
}

func (e *Engine) handleStats() string {
	duration := time.Since(e.stats.StartTime)
	minutes := int(duration.Minutes())
	seconds := int(duration.Seconds()) % 60

	aiStatus := "Requires API key"
	if e.analyzer != nil && e.analyzer.Enabled() {
		aiStatus = "Available"
	}

	parts := []string{
		"📊 Session Statistics:",
		fmt.Sprintf("⏱️ Duration: %dm %ds", minutes, seconds),
		fmt.Sprintf("🌐 Pages scraped: %d", e.stats.PagesScraped),
		fmt.Sprintf("🔗 Total links found: %d", e.stats.TotalLinksFound),
		fmt.Sprintf("📝 Content analyzed: %d characters", e.stats.TotalContentAnalyzed),
		fmt.Sprintf("🤖 AI features: %s", aiStatus),
	}
	if len(e.order) > 0 {
		parts = append(parts, fmt.Sprintf("💾 Websites in memory: %s", strings.Join(e.order, ", ")))
	}
	return strings.Join(parts, "\n")
}

func (e *Engine) handleUnknown(ctx context.Context, message string) string {
	if e.responder == nil {
		return e.fallbackReply(message)
	}

	system := fmt.Sprintf(`You are a helpful web scraping assistant. You help users scrape websites and analyze content.

Current context:
%s

Respond naturally and helpfully. If the user asks about scraping capabilities, mention that you can scrape websites, analyze content, extract links, and provide AI-powered insights.`, e.contextDigest())

	reply, err := e.responder.Complete(ctx, llm.CompletionRequest{
		System:    system,
		Prompt:    message,
		MaxTokens: 200,
	})
	if err != nil {
		logging.AppLogger.Warn("conversational fallback failed", zap.Error(err))
		return e.fallbackReply(message)
	}
	if strings.TrimSpace(reply) == "" {
		return "I'm here to help with web scraping!"
	}
	return strings.TrimSpace(reply)
}

func (e *Engine) contextDigest() string {
	var parts []string
	if domain, record, ok := e.latest(); ok {
		parts = append(parts, fmt.Sprintf("Recently scraped: %s", domain))
		if record.Result.Title != "" {
			parts = append(parts, fmt.Sprintf("Page title: %s", record.Result.Title))
		}
	}
	parts = append(parts, fmt.Sprintf("Pages scraped this session: %d", e.stats.PagesScraped))
	return strings.Join(parts, " | ")
}

func (e *Engine) fallbackReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, []string{"hello", "hi", "hey"}):
		return "Hello! I'm your web scraping assistant. Give me a URL to scrape or ask for help to see what I can do."
	case containsAny(lower, []string{"thank", "thanks"}):
		return "You're welcome! Is there anything else you'd like me to scrape or analyze?"
	case strings.Contains(lower, "what") && containsAny(lower, []string{"can you", "do you"}):
		return "I can scrape websites, extract content, analyze text, find links, and provide insights. Try 'help' for detailed commands!"
	default:
		return "I'm not sure about that, but I can help you scrape websites and analyze content. Try commands like 'scrape [URL]' or 'help' for more options."
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return "No title"
	}
	return title
}

func sentimentLabel(score float64) string {
	switch {
	case score > 0.2:
		return "positive"
	case score < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}

// Package ai sequences LLM analysis over scraped content. Every step
// degrades to a neutral default on failure; one bad provider call never
// spoils the rest of the analysis.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"scrapebot/services/llm"
	"scrapebot/services/scraper"
	"scrapebot/utils/jsonutils"
	"scrapebot/utils/logging"
)

// Character budgets per operation, sized to stay under provider token limits.
const (
	summaryCharBudget   = 4000
	sentimentCharBudget = 3000
	entitiesCharBudget  = 3000
	categoryCharBudget  = 2000
	qualityCharBudget   = 2000
	languageCharBudget  = 500
)

// Categories is the closed set the categorizer may answer with.
var Categories = []string{
	"News & Current Events", "Technology & Science", "Business & Finance",
	"Entertainment & Media", "Sports", "Health & Medical", "Education",
	"Travel & Lifestyle", "Politics & Government", "E-commerce & Shopping",
	"Blog & Personal", "Reference & Documentation", "Other",
}

// EntityTypes are the canonical keys always present in an entity map.
var EntityTypes = []string{"people", "places", "organizations", "other"}

// AnalysisResult carries the outcome of the six analysis steps. Fields are
// independently optional; a zero value means that step produced nothing.
type AnalysisResult struct {
	Summary             string              `json:"summary,omitempty"`
	SentimentScore      float64             `json:"sentiment_score"`
	SentimentConfidence float64             `json:"sentiment_confidence"`
	ContentCategory     string              `json:"content_category,omitempty"`
	ExtractedEntities   map[string][]string `json:"extracted_entities,omitempty"`
	LanguageDetected    string              `json:"language_detected,omitempty"`
	ReadabilityScore    float64             `json:"readability_score"`
}

// Analyzer drives one provider client through the analysis steps. A nil
// client leaves the analyzer disabled: Analyze returns the all-empty result
// and issues no calls.
type Analyzer struct {
	client          llm.Client
	maxSummaryWords int
}

func NewAnalyzer(client llm.Client, maxSummaryWords int) *Analyzer {
	if maxSummaryWords <= 0 {
		maxSummaryWords = 200
	}
	return &Analyzer{client: client, maxSummaryWords: maxSummaryWords}
}

// Enabled reports whether a provider is configured.
func (a *Analyzer) Enabled() bool { return a.client != nil }

// Analyze runs every analysis step against the scraped text. It is a valid
// no-op when the scrape failed, produced no text, or no provider is
// configured. Steps run in a fixed order and are individually fault-isolated.
func (a *Analyzer) Analyze(ctx context.Context, result *scraper.ScrapingResult) *AnalysisResult {
	analysis := &AnalysisResult{}
	if a.client == nil || result == nil || result.Error != "" || strings.TrimSpace(result.TextContent) == "" {
		return analysis
	}

	defer logging.LogDuration(ctx, "ai_analyze")()
	text := result.TextContent

	if summary, err := a.Summarize(ctx, text); err != nil {
		logging.ErrorLogger.Error("summarize failed", zap.Error(err))
	} else {
		analysis.Summary = summary
	}

	score, confidence, err := a.Sentiment(ctx, text)
	if err != nil {
		logging.ErrorLogger.Error("sentiment failed", zap.Error(err))
	}
	analysis.SentimentScore = score
	analysis.SentimentConfidence = confidence

	if category, err := a.Categorize(ctx, text, result.Title); err != nil {
		logging.ErrorLogger.Error("categorize failed", zap.Error(err))
	} else {
		analysis.ContentCategory = category
	}

	entities, err := a.ExtractEntities(ctx, text)
	if err != nil {
		logging.ErrorLogger.Error("entity extraction failed", zap.Error(err))
	}
	analysis.ExtractedEntities = entities

	if language, err := a.DetectLanguage(ctx, text); err != nil {
		logging.ErrorLogger.Error("language detection failed", zap.Error(err))
	} else {
		analysis.LanguageDetected = language
	}

	quality, err := a.Quality(ctx, text)
	if err != nil {
		logging.ErrorLogger.Error("quality scoring failed", zap.Error(err))
	}
	analysis.ReadabilityScore = quality

	return analysis
}

// Summarize produces a natural-language summary capped at the configured
// word count.
func (a *Analyzer) Summarize(ctx context.Context, text string) (string, error) {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return "", nil
	}
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: fmt.Sprintf("You are an expert content summarizer. Create a concise, informative summary of the provided text in maximum %d words. Focus on the main points and key information.", a.maxSummaryWords),
		Prompt: "Summarize this content:\n\n" + truncate(text, summaryCharBudget),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Sentiment returns a score in [-1,1] and a confidence in [0,1]. A malformed
// provider response yields the neutral 0/0 pair and no error.
func (a *Analyzer) Sentiment(ctx context.Context, text string) (float64, float64, error) {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return 0, 0, nil
	}
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: "You are a sentiment analysis expert. Analyze the sentiment of the text and respond with JSON containing 'score' (float from -1.0 to 1.0, where -1 is very negative, 0 is neutral, 1 is very positive) and 'confidence' (float from 0.0 to 1.0).",
		Prompt: "Analyze the sentiment of this text:\n\n" + truncate(text, sentimentCharBudget),
	})
	if err != nil {
		return 0, 0, err
	}

	var parsed struct {
		Score      float64 `json:"score"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(jsonutils.ExtractJSON(out)), &parsed); err != nil {
		logging.AppLogger.Warn("sentiment response not parseable, using neutral", zap.String("raw", out))
		return 0, 0, nil
	}
	return clamp(parsed.Score, -1, 1), clamp(parsed.Confidence, 0, 1), nil
}

// Categorize picks one entry from Categories; anything the provider answers
// outside the closed set coerces to "Other".
func (a *Analyzer) Categorize(ctx context.Context, text, title string) (string, error) {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return "Unknown", nil
	}
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: fmt.Sprintf("Categorize the following content into one of these categories: %s. Respond with only the category name.", strings.Join(Categories, ", ")),
		Prompt: fmt.Sprintf("Title: %s\n\nContent: %s", title, truncate(text, categoryCharBudget)),
	})
	if err != nil {
		return "Unknown", err
	}

	answer := strings.TrimSpace(out)
	for _, category := range Categories {
		if strings.EqualFold(answer, category) {
			return category, nil
		}
	}
	logging.AppLogger.Warn("category outside the closed set", zap.String("raw", answer))
	return "Other", nil
}

// ExtractEntities returns a map holding at least the canonical entity keys;
// keys missing from the provider response come back as empty lists.
func (a *Analyzer) ExtractEntities(ctx context.Context, text string) (map[string][]string, error) {
	entities := make(map[string][]string)
	for _, key := range EntityTypes {
		entities[key] = []string{}
	}
	if a.client == nil || strings.TrimSpace(text) == "" {
		return entities, nil
	}

	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: "Extract named entities from the text and return as JSON with keys: 'people', 'places', 'organizations', 'other'. Each key should contain a list of unique entities found.",
		Prompt: "Extract entities from this text:\n\n" + truncate(text, entitiesCharBudget),
	})
	if err != nil {
		return entities, err
	}

	var parsed map[string][]string
	if err := json.Unmarshal([]byte(jsonutils.ExtractJSON(out)), &parsed); err != nil {
		logging.AppLogger.Warn("entities response not parseable", zap.String("raw", out))
		return entities, nil
	}
	for key, values := range parsed {
		entities[strings.ToLower(key)] = values
	}
	for _, key := range EntityTypes {
		if entities[key] == nil {
			entities[key] = []string{}
		}
	}
	return entities, nil
}

// DetectLanguage names the language of a short sample of the text.
func (a *Analyzer) DetectLanguage(ctx context.Context, text string) (string, error) {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return "unknown", nil
	}
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: "Detect the language of the given text. Respond with the language name in English (e.g., 'English', 'Spanish', 'French').",
		Prompt: "What language is this text: " + truncate(text, languageCharBudget),
	})
	if err != nil {
		return "unknown", err
	}
	return strings.TrimSpace(out), nil
}

// Quality scores clarity/coherence/informativeness in [0,1]. Non-numeric
// provider output counts as a failure and yields 0.
func (a *Analyzer) Quality(ctx context.Context, text string) (float64, error) {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return 0, nil
	}
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System: "Assess the quality of this text content on a scale of 0.0 to 1.0, considering factors like clarity, coherence, informativeness, and readability. Respond with only a number between 0.0 and 1.0.",
		Prompt: "Rate the quality of this content: " + truncate(text, qualityCharBudget),
	})
	if err != nil {
		return 0, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric quality response: %q", strings.TrimSpace(out))
	}
	return clamp(score, 0, 1), nil
}

func truncate(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	return text[:budget] + "..."
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

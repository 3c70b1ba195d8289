package ai

import (
	"encoding/json"
	"os"

	"scrapebot/services/scraper"
)

// ScrapingExport is the scrape half of the combined export artifact. Field
// names are a published contract for downstream consumers.
type ScrapingExport struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code"`
	Title       string `json:"title"`
	TextLength  int    `json:"text_length"`
	LinksCount  int    `json:"links_count"`
	ImagesCount int    `json:"images_count"`
	Error       string `json:"error"`
}

// AnalysisExport is the analysis half of the combined export artifact.
type AnalysisExport struct {
	Summary             string              `json:"summary"`
	SentimentScore      float64             `json:"sentiment_score"`
	SentimentConfidence float64             `json:"sentiment_confidence"`
	ContentCategory     string              `json:"content_category"`
	ExtractedEntities   map[string][]string `json:"extracted_entities"`
	LanguageDetected    string              `json:"language_detected"`
	ReadabilityScore    float64             `json:"readability_score"`
}

// CombinedExport pairs one scrape with its analysis under the two top-level
// keys consumers rely on.
type CombinedExport struct {
	Scraping   ScrapingExport `json:"scraping"`
	AIAnalysis AnalysisExport `json:"ai_analysis"`
}

// BuildExport flattens a scrape and its analysis into the export shape.
// A nil analysis exports as all-neutral values.
func BuildExport(result *scraper.ScrapingResult, analysis *AnalysisResult) CombinedExport {
	export := CombinedExport{
		Scraping: ScrapingExport{
			URL:         result.URL,
			StatusCode:  result.StatusCode,
			Title:       result.Title,
			TextLength:  len(result.TextContent),
			LinksCount:  len(result.Links),
			ImagesCount: len(result.Images),
			Error:       result.Error,
		},
	}
	if analysis != nil {
		export.AIAnalysis = AnalysisExport{
			Summary:             analysis.Summary,
			SentimentScore:      analysis.SentimentScore,
			SentimentConfidence: analysis.SentimentConfidence,
			ContentCategory:     analysis.ContentCategory,
			ExtractedEntities:   analysis.ExtractedEntities,
			LanguageDetected:    analysis.LanguageDetected,
			ReadabilityScore:    analysis.ReadabilityScore,
		}
	}
	return export
}

// SaveExport writes the combined artifact to a JSON file.
func SaveExport(result *scraper.ScrapingResult, analysis *AnalysisResult, filename string) error {
	data, err := json.MarshalIndent(BuildExport(result, analysis), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

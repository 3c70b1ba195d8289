package types

import (
	"scrapebot/services/ai"
	"scrapebot/services/scraper"
)

// ScrapeFlags mirror the extraction toggles; nil means "use the default".
type ScrapeFlags struct {
	Text     *bool `json:"text,omitempty"`
	Links    *bool `json:"links,omitempty"`
	Images   *bool `json:"images,omitempty"`
	Metadata *bool `json:"metadata,omitempty"`
}

type ScrapeRequest struct {
	URL     string      `json:"url,omitempty"`
	URLs    []string    `json:"urls,omitempty"`
	Analyze bool        `json:"analyze,omitempty"`
	Flags   ScrapeFlags `json:"flags,omitempty"`
}

// ScrapeResponse carries one entry per requested URL, in request order.
type ScrapeResponse struct {
	Results []ScrapeEntry `json:"results"`
}

type ScrapeEntry struct {
	Scraping  *scraper.ScrapingResult `json:"scraping"`
	Analysis  *ai.AnalysisResult      `json:"ai_analysis,omitempty"`
	ExportKey string                  `json:"export_key,omitempty"`
}

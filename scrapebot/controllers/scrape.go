package controllers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"scrapebot/services/ai"
	"scrapebot/services/scraper"
	"scrapebot/sources/psql/dao"
	"scrapebot/sources/psql/models"
	"scrapebot/sources/storage"
	"scrapebot/types"
	"scrapebot/utils/logging"
	"scrapebot/utils/urlutils"
)

// ScrapeController runs direct (non-conversational) scrape requests. The
// export store and the page DAO are optional; when absent their steps are
// skipped.
type ScrapeController struct {
	scraper  *scraper.Scraper
	analyzer *ai.Analyzer
	exports  *storage.ExportStore
	pages    *dao.PageDAO
}

func NewScrapeController(scr *scraper.Scraper, analyzer *ai.Analyzer, exports *storage.ExportStore, pages *dao.PageDAO) *ScrapeController {
	return &ScrapeController{
		scraper:  scr,
		analyzer: analyzer,
		exports:  exports,
		pages:    pages,
	}
}

// Scrape processes every URL in the request sequentially, in request order.
// A single "url" and a "urls" list may be combined.
func (c *ScrapeController) Scrape(ctx context.Context, sessionID string, req types.ScrapeRequest) (*types.ScrapeResponse, error) {
	urls := req.URLs
	if req.URL != "" {
		urls = append([]string{req.URL}, urls...)
	}
	if len(urls) == 0 {
		return nil, errors.New("no urls provided")
	}

	opts := flagsToOptions(req.Flags)
	resp := &types.ScrapeResponse{}
	for _, raw := range urls {
		entry := c.scrapeOne(ctx, sessionID, urlutils.Normalize(raw), req.Analyze, opts)
		resp.Results = append(resp.Results, entry)
	}
	return resp, nil
}

func (c *ScrapeController) scrapeOne(ctx context.Context, sessionID, url string, analyze bool, opts scraper.Options) types.ScrapeEntry {
	result := c.scraper.ScrapePage(ctx, url, opts)
	entry := types.ScrapeEntry{Scraping: result}

	if analyze && c.analyzer != nil {
		entry.Analysis = c.analyzer.Analyze(ctx, result)
	}
	if result.Error != "" {
		return entry
	}

	if c.exports != nil {
		key, err := c.exports.UploadExport(ctx, result, entry.Analysis)
		if err != nil {
			logging.ErrorLogger.Error("export upload failed", zap.String("url", url), zap.Error(err))
		} else {
			entry.ExportKey = key
		}
	}
	if c.pages != nil {
		if _, err := c.pages.SavePage(ctx, sessionID, result, entry.Analysis); err != nil {
			logging.ErrorLogger.Error("page persist failed", zap.String("url", url), zap.Error(err))
		}
	}
	return entry
}

// GetExport fetches a previously stored artifact for a URL.
func (c *ScrapeController) GetExport(ctx context.Context, url string) (*ai.CombinedExport, error) {
	if c.exports == nil {
		return nil, errors.New("export store not configured")
	}
	return c.exports.GetExport(ctx, storage.ExportKey(urlutils.Normalize(url)))
}

// PopularDomains lists the most scraped domains.
func (c *ScrapeController) PopularDomains(ctx context.Context, limit int) ([]models.PopularDomain, error) {
	if c.pages == nil {
		return nil, errors.New("database not configured")
	}
	return c.pages.GetPopularDomains(ctx, limit)
}

// SessionHistory lists a session's persisted pages.
func (c *ScrapeController) SessionHistory(ctx context.Context, sessionID string) ([]models.ScrapedPage, error) {
	if c.pages == nil {
		return nil, errors.New("database not configured")
	}
	return c.pages.GetSessionHistory(ctx, sessionID)
}

func flagsToOptions(flags types.ScrapeFlags) scraper.Options {
	opts := scraper.Default()
	if flags.Text != nil {
		opts.ExtractText = *flags.Text
	}
	if flags.Links != nil {
		opts.ExtractLinks = *flags.Links
	}
	if flags.Images != nil {
		opts.ExtractImages = *flags.Images
	}
	if flags.Metadata != nil {
		opts.ExtractMetadata = *flags.Metadata
	}
	return opts
}

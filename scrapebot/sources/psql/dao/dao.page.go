package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"scrapebot/services/ai"
	"scrapebot/services/scraper"
	"scrapebot/sources/psql/models"
	"scrapebot/utils/jsonutils"
	"scrapebot/utils/urlutils"
)

// Storage caps, applied before insert.
const (
	maxStoredTextChars       = 50000
	maxStoredLinksPerPage    = 100
	maxStoredEntitiesPerType = 20
)

type PageDAO struct {
	DB *gorm.DB
}

func NewPageDAO(db *gorm.DB) *PageDAO {
	return &PageDAO{DB: db}
}

// SavePage persists one scrape outcome with its analysis: the page row, up
// to 100 links, up to 20 entities per type, the session counters, and the
// rolling domain stats. Everything runs in one transaction.
func (dao *PageDAO) SavePage(ctx context.Context, sessionID string, result *scraper.ScrapingResult, analysis *ai.AnalysisResult) (uint, error) {
	domain := urlutils.ExtractDomain(result.URL)

	page := models.ScrapedPage{
		SessionID:     sessionID,
		URL:           result.URL,
		Domain:        domain,
		Title:         result.Title,
		StatusCode:    result.StatusCode,
		ContentLength: len(result.TextContent),
		LinksCount:    len(result.Links),
		ImagesCount:   len(result.Images),
		TextContent:   truncateText(result.TextContent),
		PageMetadata:  jsonutils.ToJSON(result.Metadata),
		ErrorMessage:  result.Error,
	}
	if analysis != nil {
		page.AISummary = analysis.Summary
		page.ContentCategory = analysis.ContentCategory
		page.SentimentScore = analysis.SentimentScore
		page.SentimentConfidence = analysis.SentimentConfidence
		page.LanguageDetected = analysis.LanguageDetected
		page.QualityScore = analysis.ReadabilityScore
	}

	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dao.touchSession(tx, sessionID, result); err != nil {
			return err
		}
		if err := tx.Create(&page).Error; err != nil {
			return err
		}
		if err := dao.saveLinks(tx, page.ID, domain, result.Links); err != nil {
			return err
		}
		if analysis != nil {
			if err := dao.saveEntities(tx, page.ID, analysis.ExtractedEntities); err != nil {
				return err
			}
		}
		return dao.updateDomainStats(tx, domain, result)
	})
	if err != nil {
		return 0, err
	}
	return page.ID, nil
}

// GetSessionHistory lists a session's pages, most recent first.
func (dao *PageDAO) GetSessionHistory(ctx context.Context, sessionID string) ([]models.ScrapedPage, error) {
	var pages []models.ScrapedPage
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("scraped_at desc").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPopularDomains lists the most frequently scraped domains.
func (dao *PageDAO) GetPopularDomains(ctx context.Context, limit int) ([]models.PopularDomain, error) {
	if limit <= 0 {
		limit = 10
	}
	var domains []models.PopularDomain
	err := dao.DB.WithContext(ctx).
		Order("scrape_count desc").
		Limit(limit).
		Find(&domains).Error
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// GetRecentPages lists the newest pages across all sessions.
func (dao *PageDAO) GetRecentPages(ctx context.Context, limit int) ([]models.ScrapedPage, error) {
	if limit <= 0 {
		limit = 20
	}
	var pages []models.ScrapedPage
	err := dao.DB.WithContext(ctx).
		Order("scraped_at desc").
		Limit(limit).
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (dao *PageDAO) touchSession(tx *gorm.DB, sessionID string, result *scraper.ScrapingResult) error {
	var session models.ScrapingSession
	err := tx.First(&session, "id = ?", sessionID).Error
	if err == gorm.ErrRecordNotFound {
		session = models.ScrapingSession{ID: sessionID, LastActivity: time.Now()}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_activity":          time.Now(),
		"pages_scraped":          gorm.Expr("pages_scraped + 1"),
		"total_links_found":      gorm.Expr("total_links_found + ?", len(result.Links)),
		"total_content_analyzed": gorm.Expr("total_content_analyzed + ?", len(result.TextContent)),
	}
	return tx.Model(&models.ScrapingSession{}).Where("id = ?", sessionID).Updates(updates).Error
}

func (dao *PageDAO) saveLinks(tx *gorm.DB, pageID uint, domain string, links []scraper.Link) error {
	if len(links) == 0 {
		return nil
	}
	if len(links) > maxStoredLinksPerPage {
		links = links[:maxStoredLinksPerPage]
	}

	rows := make([]models.ExtractedLink, 0, len(links))
	for _, link := range links {
		internal := urlutils.IsInternal(link.URL, domain)
		rows = append(rows, models.ExtractedLink{
			PageID:     pageID,
			URL:        link.URL,
			Text:       link.Text,
			Title:      link.Title,
			IsInternal: internal,
			IsExternal: !internal,
		})
	}
	return tx.Create(&rows).Error
}

func (dao *PageDAO) saveEntities(tx *gorm.DB, pageID uint, entities map[string][]string) error {
	var rows []models.ExtractedEntity
	for entityType, values := range entities {
		if len(values) > maxStoredEntitiesPerType {
			values = values[:maxStoredEntitiesPerType]
		}
		for _, text := range values {
			if text == "" {
				continue
			}
			rows = append(rows, models.ExtractedEntity{
				PageID:     pageID,
				EntityText: text,
				EntityType: entityType,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// updateDomainStats folds this scrape into the domain's rolling averages.
func (dao *PageDAO) updateDomainStats(tx *gorm.DB, domain string, result *scraper.ScrapingResult) error {
	if domain == "" {
		return nil
	}

	var stat models.PopularDomain
	err := tx.First(&stat, "domain = ?", domain).Error
	if err == gorm.ErrRecordNotFound {
		stat = models.PopularDomain{
			Domain:           domain,
			ScrapeCount:      1,
			LastScraped:      time.Now(),
			AvgContentLength: float64(len(result.TextContent)),
			AvgLinksCount:    float64(len(result.Links)),
			SuccessRate:      1,
		}
		return tx.Create(&stat).Error
	}
	if err != nil {
		return err
	}

	count := float64(stat.ScrapeCount + 1)
	stat.AvgContentLength = (stat.AvgContentLength*float64(stat.ScrapeCount) + float64(len(result.TextContent))) / count
	stat.AvgLinksCount = (stat.AvgLinksCount*float64(stat.ScrapeCount) + float64(len(result.Links))) / count
	success := 1.0
	if result.Error != "" {
		success = 0
	}
	stat.SuccessRate = (stat.SuccessRate*float64(stat.ScrapeCount) + success) / count
	stat.ScrapeCount++
	stat.LastScraped = time.Now()
	return tx.Save(&stat).Error
}

func truncateText(text string) string {
	if len(text) <= maxStoredTextChars {
		return text
	}
	return text[:maxStoredTextChars]
}

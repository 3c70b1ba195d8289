package dao

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scrapebot/services/ai"
	"scrapebot/services/scraper"
	"scrapebot/sources/psql"
	"scrapebot/sources/psql/models"
	"scrapebot/utils/logging"
)

func newTestDAO(t *testing.T) *PageDAO {
	t.Helper()
	logging.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewPageDAO(db)
}

func sampleResult(links int) *scraper.ScrapingResult {
	result := &scraper.ScrapingResult{
		URL:         "https://site.test/page",
		StatusCode:  200,
		Title:       "T",
		TextContent: "hello world",
		Metadata:    map[string]string{"title": "T"},
	}
	for i := 0; i < links; i++ {
		result.Links = append(result.Links, scraper.Link{URL: fmt.Sprintf("https://site.test/%d", i)})
	}
	return result
}

func TestSavePageRoundTrip(t *testing.T) {
	dao := newTestDAO(t)
	ctx := context.Background()

	analysis := &ai.AnalysisResult{
		Summary:           "sum",
		ContentCategory:   "Sports",
		SentimentScore:    0.4,
		ExtractedEntities: map[string][]string{"people": {"Ada"}, "places": {}},
	}
	pageID, err := dao.SavePage(ctx, "sess-1", sampleResult(2), analysis)
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if pageID == 0 {
		t.Fatal("expected a page id")
	}

	pages, err := dao.GetSessionHistory(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSessionHistory: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	page := pages[0]
	if page.Domain != "site.test" || page.AISummary != "sum" || page.ContentCategory != "Sports" {
		t.Errorf("page = %+v", page)
	}
	if page.LinksCount != 2 || page.ContentLength != len("hello world") {
		t.Errorf("counts = %d/%d", page.LinksCount, page.ContentLength)
	}

	var session models.ScrapingSession
	if err := dao.DB.First(&session, "id = ?", "sess-1").Error; err != nil {
		t.Fatalf("session row: %v", err)
	}
	if session.PagesScraped != 1 || session.TotalLinksFound != 2 {
		t.Errorf("session counters = %+v", session)
	}

	var entities []models.ExtractedEntity
	if err := dao.DB.Where("page_id = ?", pageID).Find(&entities).Error; err != nil {
		t.Fatal(err)
	}
	if len(entities) != 1 || entities[0].EntityText != "Ada" || entities[0].EntityType != "people" {
		t.Errorf("entities = %+v", entities)
	}
}

func TestSavePageCapsLinks(t *testing.T) {
	dao := newTestDAO(t)

	pageID, err := dao.SavePage(context.Background(), "sess-1", sampleResult(150), nil)
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	var count int64
	dao.DB.Model(&models.ExtractedLink{}).Where("page_id = ?", pageID).Count(&count)
	if count != int64(maxStoredLinksPerPage) {
		t.Errorf("stored links = %d, want %d", count, maxStoredLinksPerPage)
	}
}

func TestSavePageClassifiesLinkScope(t *testing.T) {
	dao := newTestDAO(t)

	result := sampleResult(0)
	result.Links = []scraper.Link{
		{URL: "https://site.test/about"},
		{URL: "https://elsewhere.test/x"},
	}
	pageID, err := dao.SavePage(context.Background(), "sess-1", result, nil)
	if err != nil {
		t.Fatal(err)
	}

	var links []models.ExtractedLink
	dao.DB.Where("page_id = ?", pageID).Order("id").Find(&links)
	if len(links) != 2 {
		t.Fatalf("links = %d", len(links))
	}
	if !links[0].IsInternal || links[0].IsExternal {
		t.Errorf("first link should be internal: %+v", links[0])
	}
	if links[1].IsInternal || !links[1].IsExternal {
		t.Errorf("second link should be external: %+v", links[1])
	}
}

func TestDomainStatsRollingAverage(t *testing.T) {
	dao := newTestDAO(t)
	ctx := context.Background()

	first := sampleResult(2)
	second := sampleResult(4)
	second.TextContent = "hello world and more text"

	if _, err := dao.SavePage(ctx, "sess-1", first, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := dao.SavePage(ctx, "sess-1", second, nil); err != nil {
		t.Fatal(err)
	}

	domains, err := dao.GetPopularDomains(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(domains) != 1 {
		t.Fatalf("domains = %d, want 1", len(domains))
	}
	stat := domains[0]
	if stat.ScrapeCount != 2 {
		t.Errorf("scrape_count = %d", stat.ScrapeCount)
	}
	wantLinks := (2.0 + 4.0) / 2
	if stat.AvgLinksCount != wantLinks {
		t.Errorf("avg_links_count = %v, want %v", stat.AvgLinksCount, wantLinks)
	}
	wantContent := float64(len(first.TextContent)+len(second.TextContent)) / 2
	if stat.AvgContentLength != wantContent {
		t.Errorf("avg_content_length = %v, want %v", stat.AvgContentLength, wantContent)
	}
}

func TestSavePageTruncatesText(t *testing.T) {
	dao := newTestDAO(t)

	result := sampleResult(0)
	for len(result.TextContent) <= maxStoredTextChars {
		result.TextContent += result.TextContent
	}
	pageID, err := dao.SavePage(context.Background(), "sess-1", result, nil)
	if err != nil {
		t.Fatal(err)
	}

	var page models.ScrapedPage
	dao.DB.First(&page, pageID)
	if len(page.TextContent) != maxStoredTextChars {
		t.Errorf("stored text length = %d, want %d", len(page.TextContent), maxStoredTextChars)
	}
	if page.ContentLength != len(result.TextContent) {
		t.Errorf("content_length must keep the original size, got %d", page.ContentLength)
	}
}

package models

import "time"

// ScrapingSession is one chatbot session's persisted counters.
type ScrapingSession struct {
	ID                   string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`
	LastActivity         time.Time `json:"last_activity" gorm:"not null"`
	PagesScraped         int       `json:"pages_scraped" gorm:"default:0"`
	TotalLinksFound      int       `json:"total_links_found" gorm:"default:0"`
	TotalContentAnalyzed int       `json:"total_content_analyzed" gorm:"default:0"`

	ScrapedPages []ScrapedPage `json:"-" gorm:"foreignKey:SessionID"`
}

func (ScrapingSession) TableName() string {
	return "scraping_sessions"
}

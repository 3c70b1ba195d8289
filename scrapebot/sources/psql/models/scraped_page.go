package models

import "time"

// ScrapedPage is one persisted scrape outcome together with its AI analysis
// fields. TextContent is capped at 50000 characters before insert.
type ScrapedPage struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SessionID     string    `json:"session_id" gorm:"type:varchar(36);not null;index"`
	URL           string    `json:"url" gorm:"type:text;not null"`
	Domain        string    `json:"domain" gorm:"type:varchar(255);not null;index"`
	Title         string    `json:"title" gorm:"type:text"`
	StatusCode    int       `json:"status_code"`
	ContentLength int       `json:"content_length"`
	LinksCount    int       `json:"links_count"`
	ImagesCount   int       `json:"images_count"`
	ScrapedAt     time.Time `json:"scraped_at" gorm:"autoCreateTime"`

	AISummary           string  `json:"ai_summary" gorm:"type:text"`
	ContentCategory     string  `json:"content_category" gorm:"type:varchar(100)"`
	SentimentScore      float64 `json:"sentiment_score"`
	SentimentConfidence float64 `json:"sentiment_confidence"`
	LanguageDetected    string  `json:"language_detected" gorm:"type:varchar(50)"`
	QualityScore        float64 `json:"quality_score"`

	TextContent  string `json:"text_content" gorm:"type:text"`
	PageMetadata string `json:"page_metadata" gorm:"type:text"`
	ErrorMessage string `json:"error_message" gorm:"type:text"`

	Links    []ExtractedLink   `json:"-" gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE"`
	Entities []ExtractedEntity `json:"-" gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE"`
}

func (ScrapedPage) TableName() string {
	return "scraped_pages"
}

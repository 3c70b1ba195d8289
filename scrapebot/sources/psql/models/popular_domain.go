package models

import "time"

// PopularDomain tracks per-domain scrape counts with rolling averages over
// content length and link count.
type PopularDomain struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Domain           string    `json:"domain" gorm:"type:varchar(255);not null;uniqueIndex"`
	ScrapeCount      int       `json:"scrape_count" gorm:"default:1"`
	LastScraped      time.Time `json:"last_scraped"`
	AvgContentLength float64   `json:"avg_content_length" gorm:"default:0"`
	AvgLinksCount    float64   `json:"avg_links_count" gorm:"default:0"`
	SuccessRate      float64   `json:"success_rate" gorm:"default:1"`
}

func (PopularDomain) TableName() string {
	return "popular_domains"
}

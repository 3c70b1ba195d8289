package models

// ExtractedLink is one link found on a scraped page. At most 100 links are
// stored per page.
type ExtractedLink struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PageID     uint   `json:"page_id" gorm:"not null;index"`
	URL        string `json:"url" gorm:"type:text;not null"`
	Text       string `json:"text" gorm:"type:text"`
	Title      string `json:"title" gorm:"type:text"`
	IsInternal bool   `json:"is_internal" gorm:"default:false"`
	IsExternal bool   `json:"is_external" gorm:"default:false"`
}

func (ExtractedLink) TableName() string {
	return "extracted_links"
}

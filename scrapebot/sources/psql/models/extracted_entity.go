package models

// ExtractedEntity is one named entity found on a scraped page. At most 20
// entities are stored per type.
type ExtractedEntity struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	PageID     uint    `json:"page_id" gorm:"not null;index"`
	EntityText string  `json:"entity_text" gorm:"type:varchar(255);not null"`
	EntityType string  `json:"entity_type" gorm:"type:varchar(50);not null"`
	Confidence float64 `json:"confidence"`
}

func (ExtractedEntity) TableName() string {
	return "extracted_entities"
}

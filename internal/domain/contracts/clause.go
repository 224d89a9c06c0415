package contracts

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Clause struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`

	ClauseNumber int    `gorm:"column:clause_number" json:"clause_number"`
	ClauseText   string `gorm:"column:clause_text;type:text;not null" json:"clause_text"`
	ClauseTitle  string `gorm:"column:clause_title;type:varchar(500)" json:"clause_title,omitempty"`

	// Free-form tag such as PAYMENT_TERMS or PENALTY_LATE.
	Category        string `gorm:"column:category;type:varchar(50)" json:"category,omitempty"`
	RiskScore       *int   `gorm:"column:risk_score" json:"risk_score,omitempty"`
	RiskExplanation string `gorm:"column:risk_explanation;type:text" json:"risk_explanation,omitempty"`

	PageNumber        *int              `gorm:"column:page_number" json:"page_number,omitempty"`
	ExtractedEntities datatypes.JSONMap `gorm:"column:extracted_entities" json:"extracted_entities,omitempty"`
}

func (Clause) TableName() string { return "clauses" }

func (c *Clause) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

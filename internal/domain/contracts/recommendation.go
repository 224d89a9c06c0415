package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recommendation struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID uuid.UUID       `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Analysis   *AnalysisResult `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"analysis,omitempty"`

	// e.g. INTEREST_RATE_REDUCTION, FEE_REMOVAL
	RecommendationType string `gorm:"column:recommendation_type;type:varchar(50)" json:"recommendation_type"`
	CurrentValue       string `gorm:"column:current_value;type:text" json:"current_value,omitempty"`
	RecommendedValue   string `gorm:"column:recommended_value;type:text" json:"recommended_value,omitempty"`

	PotentialSavings    *float64          `gorm:"column:potential_savings" json:"potential_savings,omitempty"`
	FairnessScoreImpact *float64          `gorm:"column:fairness_score_impact" json:"fairness_score_impact,omitempty"`
	Priority            int               `gorm:"column:priority" json:"priority"` // 1 = highest
	SuccessLikelihood   SuccessLikelihood `gorm:"column:success_likelihood;type:varchar(20)" json:"success_likelihood,omitempty"`

	NegotiationScript string `gorm:"column:negotiation_script;type:text" json:"negotiation_script,omitempty"`
	Rationale         string `gorm:"column:rationale;type:text" json:"rationale,omitempty"`

	// Feedback fields are the only ones updated after creation.
	WasAttempted  bool   `gorm:"column:was_attempted;not null;default:false" json:"was_attempted"`
	WasSuccessful *bool  `gorm:"column:was_successful" json:"was_successful,omitempty"`
	UserNotes     string `gorm:"column:user_notes;type:text" json:"user_notes,omitempty"`
}

func (Recommendation) TableName() string { return "recommendations" }

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

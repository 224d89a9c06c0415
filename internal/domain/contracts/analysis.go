package contracts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisResult is the single computed analysis of a document. The unique
// index on document_id enforces the one-to-one relation.
type AnalysisResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`

	OverallRiskScore RiskLevel `gorm:"column:overall_risk_score;type:varchar(10)" json:"overall_risk_score,omitempty"`
	ContractSummary  string    `gorm:"column:contract_summary;type:text" json:"contract_summary,omitempty"`

	FairnessScore       *float64          `gorm:"column:fairness_score" json:"fairness_score,omitempty"`
	FairnessRating      FairnessRating    `gorm:"column:fairness_rating;type:varchar(20)" json:"fairness_rating,omitempty"`
	FairnessFactors     datatypes.JSONMap `gorm:"column:fairness_factors" json:"fairness_factors,omitempty"`
	FairnessExplanation string            `gorm:"column:fairness_explanation;type:text" json:"fairness_explanation,omitempty"`
	PotentialScoreGain  *float64          `gorm:"column:potential_score_gain" json:"potential_score_gain,omitempty"`

	PrincipalAmount *float64 `gorm:"column:principal_amount" json:"principal_amount,omitempty"`
	InterestRate    *float64 `gorm:"column:interest_rate" json:"interest_rate,omitempty"` // APR
	TenureMonths    *int     `gorm:"column:tenure_months" json:"tenure_months,omitempty"`
	MonthlyPayment  *float64 `gorm:"column:monthly_payment" json:"monthly_payment,omitempty"`
	DownPayment     *float64 `gorm:"column:down_payment" json:"down_payment,omitempty"`
	TotalRepayment  *float64 `gorm:"column:total_repayment" json:"total_repayment,omitempty"`
	TotalInterest   *float64 `gorm:"column:total_interest" json:"total_interest,omitempty"`

	PenalInterest       *float64 `gorm:"column:penal_interest" json:"penal_interest,omitempty"`
	ChequeDishonourFee  *float64 `gorm:"column:cheque_dishonour_fee" json:"cheque_dishonour_fee,omitempty"`
	PrepaymentCharges   *float64 `gorm:"column:prepayment_charges" json:"prepayment_charges,omitempty"`
	RepossessionCharges *float64 `gorm:"column:repossession_charges" json:"repossession_charges,omitempty"`
	EarlyTerminationFee *float64 `gorm:"column:early_termination_fee" json:"early_termination_fee,omitempty"`

	Fees        datatypes.JSONMap `gorm:"column:fees" json:"fees,omitempty"`
	VehicleInfo datatypes.JSONMap `gorm:"column:vehicle_info" json:"vehicle_info,omitempty"`

	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	ProcessingTimeSeconds *float64  `gorm:"column:processing_time_seconds" json:"processing_time_seconds,omitempty"`
}

func (AnalysisResult) TableName() string { return "analysis_results" }

func (a *AnalysisResult) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

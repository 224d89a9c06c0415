package domain

import (
	"errors"

	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/domain/benchmarks"
	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/Goutham-Eda/Carlo/internal/domain/user"
)

// ErrEmailAlreadyRegistered is the user-facing form of an email uniqueness violation.
var ErrEmailAlreadyRegistered = errors.New("email already registered")

type User = user.User
type SubscriptionTier = user.SubscriptionTier

type Document = contracts.Document
type Clause = contracts.Clause
type AnalysisResult = contracts.AnalysisResult
type Recommendation = contracts.Recommendation
type DocumentType = contracts.DocumentType
type ProcessingStatus = contracts.ProcessingStatus
type RiskLevel = contracts.RiskLevel
type FairnessRating = contracts.FairnessRating
type SuccessLikelihood = contracts.SuccessLikelihood

type AuditLog = audit.AuditLog

type MarketBenchmark = benchmarks.MarketBenchmark

const (
	TierFree     = user.TierFree
	TierPro      = user.TierPro
	TierBusiness = user.TierBusiness

	StatusUploaded   = contracts.StatusUploaded
	StatusProcessing = contracts.StatusProcessing
	StatusCompleted  = contracts.StatusCompleted
	StatusFailed     = contracts.StatusFailed

	DocumentTypeLease   = contracts.DocumentTypeLease
	DocumentTypeLoan    = contracts.DocumentTypeLoan
	DocumentTypeUnknown = contracts.DocumentTypeUnknown
)

// Models lists every persisted entity, parents before children.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Document{},
		&Clause{},
		&AnalysisResult{},
		&Recommendation{},
		&AuditLog{},
		&MarketBenchmark{},
	}
}

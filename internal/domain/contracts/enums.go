package contracts

import "strings"

type DocumentType string

const (
	DocumentTypeLease   DocumentType = "lease"
	DocumentTypeLoan    DocumentType = "loan"
	DocumentTypeUnknown DocumentType = "unknown"
)

func ParseDocumentType(s string) (DocumentType, bool) {
	t := DocumentType(normalizeToken(s))
	if t == "" {
		return DocumentTypeUnknown, true
	}
	return t, t.Valid()
}

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeLease, DocumentTypeLoan, DocumentTypeUnknown:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(normalizeToken(s))
	return r, r.Valid()
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

type FairnessRating string

const (
	RatingExcellent FairnessRating = "excellent"
	RatingGood      FairnessRating = "good"
	RatingFair      FairnessRating = "fair"
	RatingPoor      FairnessRating = "poor"
)

// ParseFairnessRating accepts the upper-case tokens emitted by the scoring
// engine ("GOOD") as well as the stored lower-case form.
func ParseFairnessRating(s string) (FairnessRating, bool) {
	r := FairnessRating(normalizeToken(s))
	return r, r.Valid()
}

func (r FairnessRating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingFair, RatingPoor:
		return true
	}
	return false
}

type SuccessLikelihood string

const (
	LikelihoodHigh   SuccessLikelihood = "high"
	LikelihoodMedium SuccessLikelihood = "medium"
	LikelihoodLow    SuccessLikelihood = "low"
)

func ParseSuccessLikelihood(s string) (SuccessLikelihood, bool) {
	l := SuccessLikelihood(normalizeToken(s))
	return l, l.Valid()
}

func (l SuccessLikelihood) Valid() bool {
	switch l {
	case LikelihoodHigh, LikelihoodMedium, LikelihoodLow:
		return true
	}
	return false
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package contracts

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrRequired    = errors.New("required field missing")
	ErrOutOfRange  = errors.New("value out of range")
	ErrInvalidEnum = errors.New("invalid enumerated value")
)

const (
	MinOCRConfidence = 0.0
	MaxOCRConfidence = 1.0
	MinFairnessScore = 0.0
	MaxFairnessScore = 100.0
	MinRiskScore     = 1
	MaxRiskScore     = 10
)

// inRange is false for NaN and infinities, which compare false against any bound.
func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= lo && v <= hi
}

// Ranges are documented expectations of the scoring pipeline. Callers choose
// whether they are enforced; enum vocabularies and required fields always are.

func ValidateOCRConfidence(v *float64, enforceRanges bool) error {
	if v == nil || !enforceRanges {
		return nil
	}
	if !inRange(*v, MinOCRConfidence, MaxOCRConfidence) {
		return fmt.Errorf("ocr_confidence %v not in [0,1]: %w", *v, ErrOutOfRange)
	}
	return nil
}

func (c *Clause) Validate(enforceRanges bool) error {
	if strings.TrimSpace(c.ClauseText) == "" {
		return fmt.Errorf("clause %d clause_text: %w", c.ClauseNumber, ErrRequired)
	}
	if enforceRanges && c.RiskScore != nil && (*c.RiskScore < MinRiskScore || *c.RiskScore > MaxRiskScore) {
		return fmt.Errorf("clause %d risk_score %d not in [1,10]: %w", c.ClauseNumber, *c.RiskScore, ErrOutOfRange)
	}
	return nil
}

// Normalize lower-cases enum tokens in place and reports unknown ones.
func (a *AnalysisResult) Normalize() error {
	if a.OverallRiskScore != "" {
		r, ok := ParseRiskLevel(string(a.OverallRiskScore))
		if !ok {
			return fmt.Errorf("overall_risk_score %q: %w", a.OverallRiskScore, ErrInvalidEnum)
		}
		a.OverallRiskScore = r
	}
	if a.FairnessRating != "" {
		r, ok := ParseFairnessRating(string(a.FairnessRating))
		if !ok {
			return fmt.Errorf("fairness_rating %q: %w", a.FairnessRating, ErrInvalidEnum)
		}
		a.FairnessRating = r
	}
	return nil
}

func (a *AnalysisResult) Validate(enforceRanges bool) error {
	if err := a.Normalize(); err != nil {
		return err
	}
	if enforceRanges && a.FairnessScore != nil && !inRange(*a.FairnessScore, MinFairnessScore, MaxFairnessScore) {
		return fmt.Errorf("fairness_score %v not in [0,100]: %w", *a.FairnessScore, ErrOutOfRange)
	}
	return nil
}

func (r *Recommendation) Normalize() error {
	if r.SuccessLikelihood != "" {
		l, ok := ParseSuccessLikelihood(string(r.SuccessLikelihood))
		if !ok {
			return fmt.Errorf("success_likelihood %q: %w", r.SuccessLikelihood, ErrInvalidEnum)
		}
		r.SuccessLikelihood = l
	}
	return nil
}

func (r *Recommendation) Validate(enforceRanges bool) error {
	if err := r.Normalize(); err != nil {
		return err
	}
	if enforceRanges && r.Priority < 1 {
		return fmt.Errorf("priority %d must be >= 1: %w", r.Priority, ErrOutOfRange)
	}
	return nil
}

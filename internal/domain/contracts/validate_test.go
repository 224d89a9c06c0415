package contracts

import (
	"errors"
	"math"
	"testing"

	"github.com/Goutham-Eda/Carlo/internal/pkg/pointers"
)

func TestClauseValidate(t *testing.T) {
	c := &Clause{ClauseNumber: 1, ClauseText: "  "}
	if err := c.Validate(true); !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}

	c = &Clause{ClauseNumber: 2, ClauseText: "Late fee of $50", RiskScore: pointers.Int(11)}
	if err := c.Validate(true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := c.Validate(false); err != nil {
		t.Fatalf("permissive mode should accept risk 11: %v", err)
	}
}

func TestAnalysisValidateNormalizesRating(t *testing.T) {
	a := &AnalysisResult{FairnessScore: pointers.Float64(72.5), FairnessRating: "GOOD", OverallRiskScore: "Medium"}
	if err := a.Validate(true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.FairnessRating != RatingGood || a.OverallRiskScore != RiskMedium {
		t.Fatalf("tokens not normalized: %q %q", a.FairnessRating, a.OverallRiskScore)
	}

	a = &AnalysisResult{FairnessRating: "AMAZING"}
	if err := a.Validate(false); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum even when ranges are off, got %v", err)
	}

	a = &AnalysisResult{FairnessScore: pointers.Float64(100.5)}
	if err := a.Validate(true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRecommendationValidate(t *testing.T) {
	r := &Recommendation{Priority: 1, SuccessLikelihood: "HIGH"}
	if err := r.Validate(true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.SuccessLikelihood != LikelihoodHigh {
		t.Fatalf("expected high, got %q", r.SuccessLikelihood)
	}
	r = &Recommendation{Priority: 0}
	if err := r.Validate(true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for priority 0, got %v", err)
	}
}

func TestValidateOCRConfidence(t *testing.T) {
	if err := ValidateOCRConfidence(pointers.Float64(1.2), true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := ValidateOCRConfidence(pointers.Float64(1.2), false); err != nil {
		t.Fatalf("permissive mode: %v", err)
	}
	if err := ValidateOCRConfidence(nil, true); err != nil {
		t.Fatalf("nil confidence: %v", err)
	}
}

func TestParseDocumentTypeEmptyIsUnknown(t *testing.T) {
	if dt, ok := ParseDocumentType(""); !ok || dt != DocumentTypeUnknown {
		t.Fatalf("got %q %v", dt, ok)
	}
	if _, ok := ParseDocumentType("mortgage"); ok {
		t.Fatalf("mortgage is not a document type")
	}
}

func TestRangeChecksRejectNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateOCRConfidence(pointers.Float64(v), true); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("ocr_confidence %v: expected ErrOutOfRange, got %v", v, err)
		}
		a := &AnalysisResult{FairnessScore: pointers.Float64(v)}
		if err := a.Validate(true); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("fairness_score %v: expected ErrOutOfRange, got %v", v, err)
		}
	}
	if err := ValidateOCRConfidence(pointers.Float64(0), true); err != nil {
		t.Fatalf("0 is a valid confidence: %v", err)
	}
}

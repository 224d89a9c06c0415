package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/Goutham-Eda/Carlo/internal/domain/user"
	"github.com/Goutham-Eda/Carlo/internal/pkg/pointers"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := user.New(email, "$2b$12$hash", "Test User")
	u.ID = uuid.New()
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status types.ProcessingStatus) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:               uuid.New(),
		UserID:           userID,
		Filename:         "lease.pdf",
		StorageKey:       "uploads/" + userID.String() + "/lease.pdf",
		FileSizeBytes:    2048,
		DocumentType:     types.DocumentTypeLease,
		ProcessingStatus: status,
	}
	if status == types.StatusFailed {
		d.ErrorMessage = "ocr failed"
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedClause(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID uuid.UUID, number int) *types.Clause {
	tb.Helper()
	c := &types.Clause{
		ID:           uuid.New(),
		DocumentID:   documentID,
		ClauseNumber: number,
		ClauseText:   "The lessee shall pay a late fee.",
		Category:     "PENALTY_LATE",
		RiskScore:    pointers.Int(6),
		ExtractedEntities: datatypes.JSONMap{
			"amount": 500,
		},
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed clause: %v", err)
	}
	return c
}

func SeedAnalysis(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID uuid.UUID) *types.AnalysisResult {
	tb.Helper()
	a := &types.AnalysisResult{
		ID:               uuid.New(),
		DocumentID:       documentID,
		OverallRiskScore: contracts.RiskMedium,
		FairnessScore:    pointers.Float64(72.5),
		FairnessRating:   contracts.RatingGood,
		InterestRate:     pointers.Float64(9.5),
		TenureMonths:     pointers.Int(36),
		Fees:             datatypes.JSONMap{"documentation": 1500},
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed analysis: %v", err)
	}
	return a
}

func SeedRecommendation(tb testing.TB, ctx context.Context, tx *gorm.DB, analysisID uuid.UUID, priority int) *types.Recommendation {
	tb.Helper()
	r := &types.Recommendation{
		ID:                 uuid.New(),
		AnalysisID:         analysisID,
		RecommendationType: "INTEREST_RATE_REDUCTION",
		CurrentValue:       "9.5%",
		RecommendedValue:   "8.0%",
		PotentialSavings:   pointers.Float64(1200),
		Priority:           priority,
		SuccessLikelihood:  contracts.LikelihoodMedium,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recommendation: %v", err)
	}
	return r
}

func SeedBenchmark(tb testing.TB, ctx context.Context, tx *gorm.DB, lo, hi int, avgAPR, goodAPR float64) *types.MarketBenchmark {
	tb.Helper()
	b := &types.MarketBenchmark{
		CreditScoreMin: lo,
		CreditScoreMax: hi,
		AvgAPR:         avgAPR,
		GoodAPR:        goodAPR,
		TypicalFees:    datatypes.JSONMap{"origination": []interface{}{0, 500}},
		DataSource:     "test",
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed benchmark: %v", err)
	}
	return b
}

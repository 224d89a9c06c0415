package aggregates_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/aggregates"
	aggtest "github.com/Goutham-Eda/Carlo/internal/data/aggregates/testutil"
	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	repotest "github.com/Goutham-Eda/Carlo/internal/data/repos/testutil"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
	"github.com/Goutham-Eda/Carlo/internal/pkg/pointers"
)

type harness struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	repos repos.Set
	hooks *aggtest.HooksRecorder

	users domainagg.UserAggregate
	docs  domainagg.DocumentAggregate
	recs  domainagg.RecommendationAggregate
}

type harnessOption func(db *gorm.DB, base *aggregates.BaseDeps)

func withPolicy(fn func(p *domainagg.Policy)) harnessOption {
	return func(_ *gorm.DB, base *aggregates.BaseDeps) { fn(&base.Policy) }
}

func withRunner(fn func(db *gorm.DB) aggregates.TxRunner) harnessOption {
	return func(db *gorm.DB, base *aggregates.BaseDeps) { base.Runner = fn(db) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	db := repotest.DB(t)
	set := repos.NewSet(db, logger.Nop())
	hooks := &aggtest.HooksRecorder{}

	base := aggregates.BaseDeps{
		DB:     db,
		Log:    logger.Nop(),
		Hooks:  hooks,
		Policy: domainagg.DefaultPolicy(),
		Audit:  set.AuditLogs,
	}
	for _, opt := range opts {
		opt(db, &base)
	}

	return &harness{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		repos: set,
		hooks: hooks,
		users: aggregates.NewUserAggregate(aggregates.UserAggregateDeps{
			Base:            base,
			Users:           set.Users,
			Documents:       set.Documents,
			Clauses:         set.Clauses,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
		docs: aggregates.NewDocumentAggregate(aggregates.DocumentAggregateDeps{
			Base:            base,
			Users:           set.Users,
			Documents:       set.Documents,
			Clauses:         set.Clauses,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
		recs: aggregates.NewRecommendationAggregate(aggregates.RecommendationAggregateDeps{
			Base:            base,
			Documents:       set.Documents,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
	}
}

func (h *harness) dbc() dbctx.Context {
	return dbctx.Context{Ctx: h.ctx}
}

func (h *harness) register(email string) uuid.UUID {
	h.t.Helper()
	res, err := h.users.Register(h.ctx, domainagg.RegisterUserInput{
		Email:          email,
		HashedPassword: "$2b$12$hash",
		FullName:       "Test User",
	})
	if err != nil {
		h.t.Fatalf("Register(%s): %v", email, err)
	}
	return res.UserID
}

func (h *harness) upload(userID uuid.UUID) uuid.UUID {
	h.t.Helper()
	res, err := h.docs.Upload(h.ctx, domainagg.UploadDocumentInput{
		UserID:        userID,
		Filename:      "car-lease.pdf",
		StorageKey:    "uploads/" + userID.String() + "/car-lease.pdf",
		FileSizeBytes: 4096,
		DocumentType:  "lease",
	})
	if err != nil {
		h.t.Fatalf("Upload: %v", err)
	}
	return res.DocumentID
}

func (h *harness) uploadProcessing(userID uuid.UUID) uuid.UUID {
	h.t.Helper()
	docID := h.upload(userID)
	if _, err := h.docs.StartProcessing(h.ctx, domainagg.StartProcessingInput{DocumentID: docID}); err != nil {
		h.t.Fatalf("StartProcessing: %v", err)
	}
	return docID
}

// completeInput describes a typical analysis: two clauses and two
// recommendations handed over out of priority order.
func completeInput(docID uuid.UUID) domainagg.CompleteDocumentInput {
	return domainagg.CompleteDocumentInput{
		DocumentID:    docID,
		ExtractedText: "LEASE AGREEMENT ...",
		OCRConfidence: pointers.Float64(0.93),
		Clauses: []*contracts.Clause{
			{ClauseNumber: 2, ClauseText: "Late payments incur 2% per month.", Category: "PENALTY_LATE", RiskScore: pointers.Int(7)},
			{ClauseNumber: 1, ClauseText: "The lessee pays 36 monthly installments.", Category: "PAYMENT_TERMS", RiskScore: pointers.Int(3)},
		},
		Analysis: &contracts.AnalysisResult{
			OverallRiskScore: "MEDIUM",
			FairnessScore:    pointers.Float64(72.5),
			FairnessRating:   "GOOD",
			InterestRate:     pointers.Float64(9.5),
			TenureMonths:     pointers.Int(36),
		},
		Recommendations: []*contracts.Recommendation{
			{RecommendationType: "FEE_REMOVAL", Priority: 2, SuccessLikelihood: "HIGH"},
			{RecommendationType: "INTEREST_RATE_REDUCTION", Priority: 1, SuccessLikelihood: "medium"},
		},
	}
}

func (h *harness) complete(docID uuid.UUID) domainagg.CompleteDocumentResult {
	h.t.Helper()
	res, err := h.docs.Complete(h.ctx, completeInput(docID))
	if err != nil {
		h.t.Fatalf("Complete: %v", err)
	}
	return res
}

func (h *harness) document(id uuid.UUID) *types.Document {
	h.t.Helper()
	doc, err := h.repos.Documents.GetByID(h.dbc(), id)
	if err != nil {
		h.t.Fatalf("GetByID: %v", err)
	}
	return doc
}

func (h *harness) count(model interface{}) int64 {
	h.t.Helper()
	var n int64
	if err := h.db.WithContext(h.ctx).Model(model).Count(&n).Error; err != nil {
		h.t.Fatalf("count: %v", err)
	}
	return n
}

func (h *harness) auditCount(userID uuid.UUID) int64 {
	h.t.Helper()
	n, err := h.repos.AuditLogs.CountByUser(h.dbc(), userID)
	if err != nil {
		h.t.Fatalf("CountByUser: %v", err)
	}
	return n
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !domainagg.IsCode(err, code) {
		t.Fatalf("expected %s, got %s: %v", code, domainagg.CodeOf(err), err)
	}
}

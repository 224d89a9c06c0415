package aggregates_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/aggregates"
	aggtest "github.com/Goutham-Eda/Carlo/internal/data/aggregates/testutil"
	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/Goutham-Eda/Carlo/internal/pkg/ctxutil"
	"github.com/Goutham-Eda/Carlo/internal/pkg/pointers"
)

func TestDocumentLifecycleEndToEnd(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")

	up, err := h.docs.Upload(h.ctx, domainagg.UploadDocumentInput{
		UserID:        userID,
		Filename:      "lease.pdf",
		StorageKey:    "uploads/lease.pdf",
		FileSizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if up.Status != contracts.StatusUploaded || up.UploadedAt.IsZero() {
		t.Fatalf("unexpected upload result: %+v", up)
	}
	if doc := h.document(up.DocumentID); doc.DocumentType != contracts.DocumentTypeUnknown {
		t.Fatalf("expected unknown document type, got %q", doc.DocumentType)
	}

	tr, err := h.docs.StartProcessing(h.ctx, domainagg.StartProcessingInput{DocumentID: up.DocumentID})
	if err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	if tr.FromStatus != contracts.StatusUploaded || tr.Status != contracts.StatusProcessing {
		t.Fatalf("unexpected transition: %+v", tr)
	}

	in := completeInput(up.DocumentID)
	in.DocumentType = "LEASE"
	res, err := h.docs.Complete(h.ctx, in)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(res.ClauseIDs) != 2 || len(res.RecommendationIDs) != 2 || res.AnalysisID == uuid.Nil {
		t.Fatalf("unexpected completion result: %+v", res)
	}

	doc := h.document(up.DocumentID)
	if doc.ProcessingStatus != contracts.StatusCompleted || doc.ErrorMessage != "" {
		t.Fatalf("unexpected document state: %s %q", doc.ProcessingStatus, doc.ErrorMessage)
	}
	if doc.DocumentType != contracts.DocumentTypeLease {
		t.Fatalf("document type override not applied: %q", doc.DocumentType)
	}
	if doc.OCRConfidence == nil || *doc.OCRConfidence != 0.93 {
		t.Fatalf("ocr confidence not stored: %v", doc.OCRConfidence)
	}

	analysis, err := h.repos.Analyses.GetByDocumentID(h.dbc(), up.DocumentID)
	if err != nil || analysis == nil {
		t.Fatalf("GetByDocumentID: %v %v", analysis, err)
	}
	if *analysis.FairnessScore != 72.5 || analysis.FairnessRating != contracts.RatingGood || analysis.OverallRiskScore != contracts.RiskMedium {
		t.Fatalf("unexpected analysis: score=%v rating=%q risk=%q", *analysis.FairnessScore, analysis.FairnessRating, analysis.OverallRiskScore)
	}
	if analysis.ProcessingTimeSeconds == nil || *analysis.ProcessingTimeSeconds < 0 {
		t.Fatalf("expected processing time to be derived, got %v", analysis.ProcessingTimeSeconds)
	}

	recs, err := h.repos.Recommendations.ListByAnalysisID(h.dbc(), analysis.ID)
	if err != nil {
		t.Fatalf("ListByAnalysisID: %v", err)
	}
	if len(recs) != 2 || recs[0].Priority != 1 || recs[1].Priority != 2 {
		t.Fatalf("recommendations not in priority order: %+v", recs)
	}
	if recs[1].SuccessLikelihood != contracts.LikelihoodHigh {
		t.Fatalf("likelihood not normalized: %q", recs[1].SuccessLikelihood)
	}

	clauses, err := h.repos.Clauses.ListByDocumentID(h.dbc(), up.DocumentID)
	if err != nil || len(clauses) != 2 || clauses[0].ClauseNumber != 1 {
		t.Fatalf("clauses not ordered: %v %v", clauses, err)
	}

	want := []string{"uploaded->processing", "processing->completed"}
	if len(h.hooks.Transitions) != len(want) || h.hooks.Transitions[0] != want[0] || h.hooks.Transitions[1] != want[1] {
		t.Fatalf("transitions: %v", h.hooks.Transitions)
	}

	del, err := h.docs.Delete(h.ctx, domainagg.DeleteDocumentInput{DocumentID: up.DocumentID, UserID: userID})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if del.Deleted != (domainagg.CascadeCounts{Documents: 1, Clauses: 2, Analyses: 1, Recommendations: 2}) {
		t.Fatalf("unexpected cascade: %+v", del.Deleted)
	}
	if h.count(&types.Document{}) != 0 || h.count(&types.Clause{}) != 0 ||
		h.count(&types.AnalysisResult{}) != 0 || h.count(&types.Recommendation{}) != 0 {
		t.Fatalf("expected document subtree removed")
	}
	if h.count(&types.User{}) != 1 {
		t.Fatalf("owner must survive document delete")
	}
}

func TestDocumentCannotSkipProcessing(t *testing.T) {
	h := newHarness(t)
	docID := h.upload(h.register("a@x.com"))

	_, err := h.docs.Complete(h.ctx, completeInput(docID))
	requireCode(t, err, domainagg.CodeInvariantViolation)

	doc := h.document(docID)
	if doc.ProcessingStatus != contracts.StatusUploaded || doc.ExtractedText != "" {
		t.Fatalf("document changed by rejected completion: %+v", doc)
	}
	if h.count(&types.AnalysisResult{}) != 0 || h.count(&types.Clause{}) != 0 {
		t.Fatalf("rejected completion left rows behind")
	}

	_, err = h.docs.Fail(h.ctx, domainagg.FailDocumentInput{DocumentID: docID, ErrorMessage: "boom"})
	requireCode(t, err, domainagg.CodeInvariantViolation)
	if len(h.hooks.Transitions) != 0 {
		t.Fatalf("no transition should be recorded: %v", h.hooks.Transitions)
	}
}

func TestDocumentTerminalStatesHaveNoExit(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")

	failed := h.uploadProcessing(userID)
	if _, err := h.docs.Fail(h.ctx, domainagg.FailDocumentInput{DocumentID: failed, ErrorMessage: "  unreadable scan  "}); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if doc := h.document(failed); doc.ProcessingStatus != contracts.StatusFailed || doc.ErrorMessage != "unreadable scan" {
		t.Fatalf("unexpected failed document: %s %q", doc.ProcessingStatus, doc.ErrorMessage)
	}
	_, err := h.docs.StartProcessing(h.ctx, domainagg.StartProcessingInput{DocumentID: failed})
	requireCode(t, err, domainagg.CodeInvariantViolation)

	completed := h.uploadProcessing(userID)
	h.complete(completed)
	_, err = h.docs.Fail(h.ctx, domainagg.FailDocumentInput{DocumentID: completed, ErrorMessage: "late"})
	requireCode(t, err, domainagg.CodeInvariantViolation)
}

func TestDocumentFailRequiresMessage(t *testing.T) {
	h := newHarness(t)
	docID := h.uploadProcessing(h.register("a@x.com"))

	_, err := h.docs.Fail(h.ctx, domainagg.FailDocumentInput{DocumentID: docID, ErrorMessage: "   "})
	requireCode(t, err, domainagg.CodeValidation)
	if doc := h.document(docID); doc.ProcessingStatus != contracts.StatusProcessing {
		t.Fatalf("status moved: %s", doc.ProcessingStatus)
	}
}

func TestDocumentCompleteRequiresAnalysis(t *testing.T) {
	h := newHarness(t)
	docID := h.uploadProcessing(h.register("a@x.com"))

	in := completeInput(docID)
	in.Analysis = nil
	_, err := h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeInvariantViolation)
}

func TestDocumentCompleteTwiceConflicts(t *testing.T) {
	h := newHarness(t)
	docID := h.uploadProcessing(h.register("a@x.com"))
	h.complete(docID)

	_, err := h.docs.Complete(h.ctx, completeInput(docID))
	requireCode(t, err, domainagg.CodeConflict)
	if n := h.count(&types.AnalysisResult{}); n != 1 {
		t.Fatalf("expected exactly one analysis, got %d", n)
	}
}

func TestDocumentCompleteRangeEnforcement(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")
	docID := h.uploadProcessing(userID)

	in := completeInput(docID)
	in.Analysis.FairnessScore = pointers.Float64(120)
	_, err := h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)
	if !errors.Is(err, contracts.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange in chain, got %v", err)
	}

	in = completeInput(docID)
	in.Analysis.FairnessRating = "SUPERB"
	_, err = h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)

	in = completeInput(docID)
	in.OCRConfidence = pointers.Float64(1.5)
	_, err = h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)

	in = completeInput(docID)
	in.Analysis.FairnessScore = pointers.Float64(math.NaN())
	_, err = h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)
	if got := h.document(docID); got.ProcessingStatus != contracts.StatusProcessing {
		t.Fatalf("NaN score must leave the document processing, got %q", got.ProcessingStatus)
	}

	relaxed := newHarness(t, withPolicy(func(p *domainagg.Policy) { p.EnforceRanges = false }))
	relaxedDoc := relaxed.uploadProcessing(relaxed.register("a@x.com"))
	in = completeInput(relaxedDoc)
	in.Analysis.FairnessScore = pointers.Float64(120)
	if _, err := relaxed.docs.Complete(relaxed.ctx, in); err != nil {
		t.Fatalf("ranges off should accept 120: %v", err)
	}
}

func TestDocumentRecordClausesWhileProcessing(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")
	docID := h.upload(userID)

	clauses := func() []*contracts.Clause {
		return []*contracts.Clause{{ClauseNumber: 3, ClauseText: "Insurance is the lessee's duty."}}
	}
	_, err := h.docs.RecordClauses(h.ctx, domainagg.RecordClausesInput{DocumentID: docID, Clauses: clauses()})
	requireCode(t, err, domainagg.CodeInvariantViolation)

	if _, err := h.docs.StartProcessing(h.ctx, domainagg.StartProcessingInput{DocumentID: docID}); err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	res, err := h.docs.RecordClauses(h.ctx, domainagg.RecordClausesInput{DocumentID: docID, Clauses: clauses()})
	if err != nil {
		t.Fatalf("RecordClauses: %v", err)
	}
	if len(res.ClauseIDs) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	_, err = h.docs.RecordClauses(h.ctx, domainagg.RecordClausesInput{
		DocumentID: docID,
		Clauses:    []*contracts.Clause{{ClauseNumber: 4, ClauseText: "x", RiskScore: pointers.Int(11)}},
	})
	requireCode(t, err, domainagg.CodeValidation)

	h.complete(docID)
	if n := h.count(&types.Clause{}); n != 3 {
		t.Fatalf("expected recorded + completion clauses, got %d", n)
	}
}

func TestDocumentUploadUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.docs.Upload(h.ctx, domainagg.UploadDocumentInput{
		UserID:     uuid.New(),
		Filename:   "lease.pdf",
		StorageKey: "k",
	})
	requireCode(t, err, domainagg.CodePreconditionFailed)
}

func TestDocumentUploadValidation(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")
	cases := []domainagg.UploadDocumentInput{
		{UserID: userID, Filename: "", StorageKey: "k"},
		{UserID: userID, Filename: "a.pdf", StorageKey: ""},
		{UserID: userID, Filename: "a.pdf", StorageKey: "k", FileSizeBytes: -1},
		{UserID: userID, Filename: "a.pdf", StorageKey: "k", DocumentType: "mortgage"},
	}
	for i, in := range cases {
		if _, err := h.docs.Upload(h.ctx, in); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("case %d: expected validation, got %v", i, err)
		}
	}
}

func TestDocumentUploadChargesCredit(t *testing.T) {
	h := newHarness(t, withPolicy(func(p *domainagg.Policy) { p.ChargeCreditOnUpload = true }))
	userID := h.register("a@x.com")

	res, err := h.docs.Upload(h.ctx, domainagg.UploadDocumentInput{UserID: userID, Filename: "a.pdf", StorageKey: "k1"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.CreditsRemaining == nil || *res.CreditsRemaining != 0 {
		t.Fatalf("expected balance 0, got %v", res.CreditsRemaining)
	}

	_, err = h.docs.Upload(h.ctx, domainagg.UploadDocumentInput{UserID: userID, Filename: "b.pdf", StorageKey: "k2"})
	requireCode(t, err, domainagg.CodeInvariantViolation)
	if n := h.count(&types.Document{}); n != 1 {
		t.Fatalf("expected one document, got %d", n)
	}
}

func TestDocumentDeleteHidesOtherUsersDocuments(t *testing.T) {
	h := newHarness(t)
	owner := h.register("a@x.com")
	stranger := h.register("b@x.com")
	docID := h.upload(owner)

	_, err := h.docs.Delete(h.ctx, domainagg.DeleteDocumentInput{DocumentID: docID, UserID: stranger})
	requireCode(t, err, domainagg.CodeNotFound)
	if h.document(docID) == nil {
		t.Fatalf("document removed by non-owner")
	}

	_, err = h.docs.Delete(h.ctx, domainagg.DeleteDocumentInput{DocumentID: uuid.New()})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestDocumentCompleteRollsBackOnCommitFailure(t *testing.T) {
	var runner *aggtest.InjectedTxRunner
	h := newHarness(t, withRunner(func(db *gorm.DB) aggregates.TxRunner {
		runner = &aggtest.InjectedTxRunner{Inner: aggregates.NewGormTxRunner(db)}
		return runner
	}))
	docID := h.uploadProcessing(h.register("a@x.com"))

	commitErr := errors.New("commit lost")
	runner.FailCommit = commitErr
	in := completeInput(docID)
	_, err := h.docs.Complete(h.ctx, in)
	requireCode(t, err, domainagg.CodeInternal)
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected injected error in chain, got %v", err)
	}

	// The caller must not be left holding ids that were never stored.
	if in.Analysis.ID != uuid.Nil || in.Analysis.DocumentID != uuid.Nil || in.Analysis.FairnessRating != "GOOD" {
		t.Fatalf("analysis input mutated: %+v", in.Analysis)
	}
	for _, c := range in.Clauses {
		if c.ID != uuid.Nil || c.DocumentID != uuid.Nil {
			t.Fatalf("clause input mutated: %+v", c)
		}
	}
	for _, r := range in.Recommendations {
		if r.ID != uuid.Nil || r.AnalysisID != uuid.Nil {
			t.Fatalf("recommendation input mutated: %+v", r)
		}
	}

	if doc := h.document(docID); doc.ProcessingStatus != contracts.StatusProcessing {
		t.Fatalf("status committed despite rollback: %s", doc.ProcessingStatus)
	}
	if h.count(&types.AnalysisResult{}) != 0 || h.count(&types.Clause{}) != 0 || h.count(&types.Recommendation{}) != 0 {
		t.Fatalf("children committed despite rollback")
	}
	for _, tr := range h.hooks.Transitions {
		if tr == "processing->completed" {
			t.Fatalf("transition recorded for rolled back completion")
		}
	}
}

func TestDocumentAuditCarriesRequestData(t *testing.T) {
	h := newHarness(t)
	userID := h.register("a@x.com")

	ctx := ctxutil.WithRequestData(h.ctx, &ctxutil.RequestData{RequestID: "req-42", IPAddress: "203.0.113.9"})
	if _, err := h.docs.Upload(ctx, domainagg.UploadDocumentInput{UserID: userID, Filename: "a.pdf", StorageKey: "k"}); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rows, err := h.repos.AuditLogs.List(h.dbc(), repos.AuditListFilter{UserID: &userID, Action: audit.ActionUploadDocument})
	if err != nil || len(rows) != 1 {
		t.Fatalf("List: %v %v", rows, err)
	}
	if rows[0].IPAddress != "203.0.113.9" || rows[0].Metadata["request_id"] != "req-42" {
		t.Fatalf("request data missing from audit row: %+v", rows[0])
	}
}

package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

const (
	maxFilenameLength   = 255
	maxStorageKeyLength = 500
)

type DocumentAggregateDeps struct {
	Base BaseDeps

	Users           repos.UserRepo
	Documents       repos.DocumentRepo
	Clauses         repos.ClauseRepo
	Analyses        repos.AnalysisResultRepo
	Recommendations repos.RecommendationRepo
}

type documentAggregate struct {
	deps  DocumentAggregateDeps
	owned ownershipRepos
}

func NewDocumentAggregate(deps DocumentAggregateDeps) domainagg.DocumentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &documentAggregate{
		deps: deps,
		owned: ownershipRepos{
			Contract:        domainagg.DocumentAggregateContract,
			Documents:       deps.Documents,
			Clauses:         deps.Clauses,
			Analyses:        deps.Analyses,
			Recommendations: deps.Recommendations,
		},
	}
}

func (a *documentAggregate) Contract() domainagg.Contract {
	return domainagg.DocumentAggregateContract
}

func (a *documentAggregate) Upload(ctx context.Context, in domainagg.UploadDocumentInput) (domainagg.UploadDocumentResult, error) {
	const op = "Contracts.Document.Upload"
	var out domainagg.UploadDocumentResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	filename := strings.TrimSpace(in.Filename)
	storageKey := strings.TrimSpace(in.StorageKey)
	switch {
	case filename == "":
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing filename", nil)
	case len(filename) > maxFilenameLength:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "filename longer than 255 characters", nil)
	case storageKey == "":
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing storage_key", nil)
	case len(storageKey) > maxStorageKeyLength:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "storage_key longer than 500 characters", nil)
	case in.FileSizeBytes < 0:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "file_size_bytes must not be negative", nil)
	}
	docType := contracts.DocumentTypeUnknown
	if strings.TrimSpace(in.DocumentType) != "" {
		t, ok := contracts.ParseDocumentType(in.DocumentType)
		if !ok {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown document type %q", in.DocumentType), nil)
		}
		docType = t
	}
	if a.deps.Users == nil || a.deps.Documents == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "document aggregate repos not configured", nil)
	}
	chargeCredit := a.deps.Base.Policy.ChargeCreditOnUpload

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.LockByID(dbc, in.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainagg.NewError(domainagg.CodePreconditionFailed, op, "owning user does not exist", err)
		}
		if err != nil {
			return err
		}

		if chargeCredit {
			if u.CreditsRemaining < 1 {
				return InvariantError("no analysis credits remaining")
			}
			ok, err := a.deps.Users.AdjustCredits(dbc, u.ID, u.CreditsRemaining, -1)
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "credit balance changed concurrently"); err != nil {
				return err
			}
			left := u.CreditsRemaining - 1
			out.CreditsRemaining = &left
		}

		doc := &types.Document{
			UserID:           u.ID,
			Filename:         filename,
			StorageKey:       storageKey,
			FileSizeBytes:    in.FileSizeBytes,
			DocumentType:     docType,
			ProcessingStatus: contracts.StatusUploaded,
		}
		if _, err := a.deps.Documents.Create(dbc, []*types.Document{doc}); err != nil {
			return err
		}
		if err := recordAudit(dbc, a.deps.Base, u.ID, audit.ActionUploadDocument, map[string]interface{}{
			"document_id": doc.ID.String(),
			"filename":    doc.Filename,
		}); err != nil {
			return err
		}
		out.DocumentID = doc.ID
		out.Status = doc.ProcessingStatus
		out.UploadedAt = doc.UploadDate
		return nil
	})
	return out, err
}

func (a *documentAggregate) StartProcessing(ctx context.Context, in domainagg.StartProcessingInput) (domainagg.TransitionResult, error) {
	const op = "Contracts.Document.StartProcessing"
	var out domainagg.TransitionResult

	if in.DocumentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing document_id", nil)
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res, err := a.transition(dbc, in.DocumentID, contracts.StatusProcessing, nil)
		out = res.TransitionResult
		return err
	})
	a.observeTransition(out, err)
	return out, err
}

func (a *documentAggregate) RecordClauses(ctx context.Context, in domainagg.RecordClausesInput) (domainagg.RecordClausesResult, error) {
	const op = "Contracts.Document.RecordClauses"
	var out domainagg.RecordClausesResult

	if in.DocumentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing document_id", nil)
	}
	if len(in.Clauses) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "no clauses to record", nil)
	}
	if err := a.validateClauses(op, in.Clauses); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		doc, err := a.deps.Documents.LockByID(dbc, in.DocumentID)
		if err != nil {
			return err
		}
		if err := RequireStatusAllowed(string(doc.ProcessingStatus), string(contracts.StatusProcessing)); err != nil {
			return err
		}
		ids, err := a.insertClauses(dbc, doc.ID, in.Clauses)
		if err != nil {
			return err
		}
		out = domainagg.RecordClausesResult{DocumentID: doc.ID, ClauseIDs: ids}
		return nil
	})
	return out, err
}

func (a *documentAggregate) Complete(ctx context.Context, in domainagg.CompleteDocumentInput) (domainagg.CompleteDocumentResult, error) {
	const op = "Contracts.Document.Complete"
	var out domainagg.CompleteDocumentResult

	if in.DocumentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing document_id", nil)
	}
	if in.Analysis == nil {
		return out, domainagg.NewError(domainagg.CodeInvariantViolation, op, "a completed document requires an analysis result", nil)
	}
	enforce := a.deps.Base.Policy.EnforceRanges
	if err := contracts.ValidateOCRConfidence(in.OCRConfidence, enforce); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	var docType contracts.DocumentType
	if strings.TrimSpace(in.DocumentType) != "" {
		t, ok := contracts.ParseDocumentType(in.DocumentType)
		if !ok {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown document type %q", in.DocumentType), nil)
		}
		docType = t
	}
	if err := a.validateClauses(op, in.Clauses); err != nil {
		return out, err
	}
	// Work on copies: ids, owner keys and normalized tokens are set below and
	// must not leak back into the caller's structs, least of all on rollback.
	analysis := *in.Analysis
	if err := analysis.Validate(enforce); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	for _, rec := range in.Recommendations {
		if rec == nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "nil recommendation", nil)
		}
	}
	recs := cloneRows(in.Recommendations)
	for _, rec := range recs {
		if err := rec.Validate(enforce); err != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
	}

	extra := map[string]interface{}{}
	if text := strings.TrimSpace(in.ExtractedText); text != "" {
		extra["extracted_text"] = in.ExtractedText
	}
	if in.OCRConfidence != nil {
		extra["ocr_confidence"] = *in.OCRConfidence
	}
	if docType != "" {
		extra["document_type"] = docType
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		exists, err := a.deps.Analyses.ExistsForDocument(dbc, in.DocumentID)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError("document already has an analysis result")
		}

		res, err := a.transition(dbc, in.DocumentID, contracts.StatusCompleted, extra)
		if err != nil {
			return err
		}
		out.TransitionResult = res.TransitionResult

		if out.ClauseIDs, err = a.insertClauses(dbc, in.DocumentID, in.Clauses); err != nil {
			return err
		}

		analysis.ID = uuid.Nil
		analysis.DocumentID = in.DocumentID
		if analysis.ProcessingTimeSeconds == nil && !res.UploadedAt.IsZero() {
			secs := res.TransitionAt.Sub(res.UploadedAt).Seconds()
			analysis.ProcessingTimeSeconds = &secs
		}
		if _, err := a.deps.Analyses.Create(dbc, &analysis); err != nil {
			return err
		}
		out.AnalysisID = analysis.ID

		if len(recs) > 0 {
			for _, rec := range recs {
				rec.ID = uuid.Nil
				rec.AnalysisID = analysis.ID
				// Feedback starts empty regardless of what the pipeline sent.
				rec.WasAttempted = false
				rec.WasSuccessful = nil
				rec.UserNotes = ""
			}
			if _, err := a.deps.Recommendations.Create(dbc, recs); err != nil {
				return err
			}
			out.RecommendationIDs = make([]uuid.UUID, 0, len(recs))
			for _, rec := range recs {
				out.RecommendationIDs = append(out.RecommendationIDs, rec.ID)
			}
		}
		return nil
	})
	a.observeTransition(out.TransitionResult, err)
	return out, err
}

func (a *documentAggregate) Fail(ctx context.Context, in domainagg.FailDocumentInput) (domainagg.TransitionResult, error) {
	const op = "Contracts.Document.Fail"
	var out domainagg.TransitionResult

	if in.DocumentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing document_id", nil)
	}
	msg := strings.TrimSpace(in.ErrorMessage)
	if msg == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "a failed document requires an error message", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res, err := a.transition(dbc, in.DocumentID, contracts.StatusFailed, map[string]interface{}{
			"error_message": msg,
		})
		out = res.TransitionResult
		return err
	})
	a.observeTransition(out, err)
	return out, err
}

func (a *documentAggregate) Delete(ctx context.Context, in domainagg.DeleteDocumentInput) (domainagg.DeleteDocumentResult, error) {
	const op = "Contracts.Document.Delete"
	var out domainagg.DeleteDocumentResult

	if in.DocumentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing document_id", nil)
	}
	if !a.owned.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "document aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		doc, err := a.deps.Documents.LockByID(dbc, in.DocumentID)
		if err != nil {
			return err
		}
		// Someone else's document looks the same as a missing one.
		if in.UserID != uuid.Nil && doc.UserID != in.UserID {
			return domainagg.NewError(domainagg.CodeNotFound, op, "document not found", nil)
		}
		counts, err := a.owned.deleteDocuments(dbc, []uuid.UUID{doc.ID})
		if err != nil {
			return err
		}
		if err := recordAudit(dbc, a.deps.Base, doc.UserID, audit.ActionDeleteDocument, map[string]interface{}{
			"document_id":     doc.ID.String(),
			"clauses":         counts.Clauses,
			"analyses":        counts.Analyses,
			"recommendations": counts.Recommendations,
		}); err != nil {
			return err
		}
		out = domainagg.DeleteDocumentResult{DocumentID: doc.ID, Deleted: counts}
		return nil
	})
	return out, err
}

type transitionOutcome struct {
	domainagg.TransitionResult
	UploadedAt time.Time
}

// transition moves a locked document to next. The update is guarded on the
// status column so a concurrent writer that already moved the row loses.
func (a *documentAggregate) transition(dbc dbctx.Context, id uuid.UUID, next contracts.ProcessingStatus, extra map[string]interface{}) (transitionOutcome, error) {
	var out transitionOutcome
	doc, err := a.deps.Documents.LockByID(dbc, id)
	if err != nil {
		return out, err
	}
	from := doc.ProcessingStatus
	if !from.CanTransitionTo(next) {
		return out, InvariantError(fmt.Sprintf("document cannot move from %s to %s", from, next))
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"processing_status": next,
		"error_message":     "",
		"updated_at":        now,
	}
	for k, v := range extra {
		updates[k] = v
	}
	allowed := make([]string, 0, 2)
	for _, s := range contracts.PredecessorsOf(next) {
		allowed = append(allowed, string(s))
	}
	if err := requireOwned(a.Contract(), "documents"); err != nil {
		return out, err
	}
	ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "documents", "processing_status", doc.ID, allowed, updates)
	if err != nil {
		return out, err
	}
	if err := RequireCASSuccess(ok, "document status changed concurrently"); err != nil {
		return out, err
	}

	out.DocumentID = doc.ID
	out.FromStatus = from
	out.Status = next
	out.TransitionAt = now
	out.UploadedAt = doc.UploadDate
	return out, nil
}

func (a *documentAggregate) observeTransition(res domainagg.TransitionResult, err error) {
	if err != nil || res.DocumentID == uuid.Nil {
		return
	}
	a.deps.Base.Hooks.IncStatusTransition(string(res.FromStatus), string(res.Status))
}

func (a *documentAggregate) validateClauses(op string, clauses []*contracts.Clause) error {
	enforce := a.deps.Base.Policy.EnforceRanges
	for _, c := range clauses {
		if c == nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "nil clause", nil)
		}
		if err := c.Validate(enforce); err != nil {
			return domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
	}
	return nil
}

func (a *documentAggregate) insertClauses(dbc dbctx.Context, documentID uuid.UUID, clauses []*contracts.Clause) ([]uuid.UUID, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	clauses = cloneRows(clauses)
	for _, c := range clauses {
		c.ID = uuid.Nil
		c.DocumentID = documentID
	}
	if _, err := a.deps.Clauses.Create(dbc, clauses); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(clauses))
	for _, c := range clauses {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// cloneRows returns shallow copies so inserts can assign ids without touching
// the caller's values. nil entries stay nil.
func cloneRows[T any](in []*T) []*T {
	out := make([]*T, len(in))
	for i, p := range in {
		if p != nil {
			c := *p
			out[i] = &c
		}
	}
	return out
}

package aggregates

import (
	"context"
	"time"

	"github.com/Goutham-Eda/Carlo/internal/domain/contracts"
	"github.com/google/uuid"
)

var DocumentAggregateContract = Contract{
	Name:             "Contracts.DocumentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Owns:             []string{"documents", "clauses", "analysis_results", "recommendations"},
	Notes: "Owns the uploaded -> processing -> completed|failed lifecycle and the atomic " +
		"creation of clauses, analysis and recommendations at completion.",
}

// DocumentAggregate owns document lifecycle invariants:
// no status may skip processing, failed always carries an error message and
// completed always carries exactly one analysis.
type DocumentAggregate interface {
	Aggregate

	Upload(ctx context.Context, in UploadDocumentInput) (UploadDocumentResult, error)

	// StartProcessing moves uploaded -> processing.
	StartProcessing(ctx context.Context, in StartProcessingInput) (TransitionResult, error)

	// RecordClauses appends extracted clauses while the document is processing.
	RecordClauses(ctx context.Context, in RecordClausesInput) (RecordClausesResult, error)

	// Complete moves processing -> completed and persists the analysis graph.
	Complete(ctx context.Context, in CompleteDocumentInput) (CompleteDocumentResult, error)

	// Fail moves processing -> failed with a required error message.
	Fail(ctx context.Context, in FailDocumentInput) (TransitionResult, error)

	Delete(ctx context.Context, in DeleteDocumentInput) (DeleteDocumentResult, error)
}

type UploadDocumentInput struct {
	UserID        uuid.UUID
	Filename      string
	StorageKey    string
	FileSizeBytes int64
	DocumentType  string
}

type UploadDocumentResult struct {
	DocumentID       uuid.UUID
	Status           contracts.ProcessingStatus
	UploadedAt       time.Time
	CreditsRemaining *int
}

type StartProcessingInput struct {
	DocumentID uuid.UUID
}

type TransitionResult struct {
	DocumentID   uuid.UUID
	FromStatus   contracts.ProcessingStatus
	Status       contracts.ProcessingStatus
	TransitionAt time.Time
}

type RecordClausesInput struct {
	DocumentID uuid.UUID
	Clauses    []*contracts.Clause
}

type RecordClausesResult struct {
	DocumentID uuid.UUID
	ClauseIDs  []uuid.UUID
}

// CompleteDocumentInput is read only: Complete stores copies and reports the
// new ids in CompleteDocumentResult.
type CompleteDocumentInput struct {
	DocumentID    uuid.UUID
	ExtractedText string
	OCRConfidence *float64
	// DocumentType overrides the type detected at upload when non-empty.
	DocumentType    string
	Clauses         []*contracts.Clause
	Analysis        *contracts.AnalysisResult
	Recommendations []*contracts.Recommendation
}

type CompleteDocumentResult struct {
	TransitionResult
	AnalysisID        uuid.UUID
	ClauseIDs         []uuid.UUID
	RecommendationIDs []uuid.UUID
}

type FailDocumentInput struct {
	DocumentID   uuid.UUID
	ErrorMessage string
}

type DeleteDocumentInput struct {
	DocumentID uuid.UUID
	// UserID, when set, must own the document.
	UserID uuid.UUID
}

type DeleteDocumentResult struct {
	DocumentID uuid.UUID
	Deleted    CascadeCounts
}

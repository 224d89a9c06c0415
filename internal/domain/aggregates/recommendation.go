package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var RecommendationAggregateContract = Contract{
	Name:             "Contracts.RecommendationAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Owns:             []string{"recommendations"},
	Notes: "Owns user feedback on recommendations. Analyses and recommendations are only " +
		"removed together with their document.",
}

// RecommendationAggregate guards the only post-creation mutation path of the
// analysis graph: user feedback on a recommendation.
type RecommendationAggregate interface {
	Aggregate

	RecordFeedback(ctx context.Context, in RecordFeedbackInput) (RecordFeedbackResult, error)
}

type RecordFeedbackInput struct {
	RecommendationID uuid.UUID
	// UserID, when set, must own the document behind the recommendation.
	UserID        uuid.UUID
	WasAttempted  bool
	WasSuccessful *bool
	UserNotes     *string
}

type RecordFeedbackResult struct {
	RecommendationID uuid.UUID
	WasAttempted     bool
	WasSuccessful    *bool
}

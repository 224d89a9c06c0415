package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var UserAggregateContract = Contract{
	Name:             "Accounts.UserAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Owns:             []string{"users", "documents", "clauses", "analysis_results", "recommendations"},
	Notes:            "Owns account lifecycle, credit balance and the full ownership cascade on delete.",
}

// UserAggregate owns account invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation,
// CodePreconditionFailed, CodeRetryable, CodeInternal.
type UserAggregate interface {
	Aggregate

	// Register creates an account. A taken email fails with CodeConflict
	// wrapping domain.ErrEmailAlreadyRegistered.
	Register(ctx context.Context, in RegisterUserInput) (RegisterUserResult, error)

	ChangeSubscription(ctx context.Context, in ChangeSubscriptionInput) (ChangeSubscriptionResult, error)

	// AdjustCredits applies delta to the balance; a negative result is rejected.
	AdjustCredits(ctx context.Context, in AdjustCreditsInput) (AdjustCreditsResult, error)

	// Delete removes the user and everything it owns, then applies the audit policy.
	Delete(ctx context.Context, in DeleteUserInput) (DeleteUserResult, error)
}

type RegisterUserInput struct {
	Email            string
	HashedPassword   string
	FullName         string
	SubscriptionTier string
	Credits          *int
}

type RegisterUserResult struct {
	UserID           uuid.UUID
	Email            string
	SubscriptionTier string
	CreditsRemaining int
}

type ChangeSubscriptionInput struct {
	UserID           uuid.UUID
	SubscriptionTier string
}

type ChangeSubscriptionResult struct {
	UserID           uuid.UUID
	PreviousTier     string
	SubscriptionTier string
}

type AdjustCreditsInput struct {
	UserID uuid.UUID
	Delta  int
	Reason string
}

type AdjustCreditsResult struct {
	UserID           uuid.UUID
	CreditsRemaining int
}

type DeleteUserInput struct {
	UserID uuid.UUID
}

// CascadeCounts reports rows removed by an ownership cascade.
type CascadeCounts struct {
	Documents       int64
	Clauses         int64
	Analyses        int64
	Recommendations int64
}

type DeleteUserResult struct {
	UserID        uuid.UUID
	Deleted       CascadeCounts
	AuditPolicy   AuditUserDeletePolicy
	AuditAffected int64
}

package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

type RecommendationAggregateDeps struct {
	Base BaseDeps

	Documents       repos.DocumentRepo
	Analyses        repos.AnalysisResultRepo
	Recommendations repos.RecommendationRepo
}

type recommendationAggregate struct {
	deps RecommendationAggregateDeps
}

func NewRecommendationAggregate(deps RecommendationAggregateDeps) domainagg.RecommendationAggregate {
	deps.Base = deps.Base.withDefaults()
	return &recommendationAggregate{deps: deps}
}

func (a *recommendationAggregate) Contract() domainagg.Contract {
	return domainagg.RecommendationAggregateContract
}

func (a *recommendationAggregate) RecordFeedback(ctx context.Context, in domainagg.RecordFeedbackInput) (domainagg.RecordFeedbackResult, error) {
	const op = "Contracts.Recommendation.RecordFeedback"
	var out domainagg.RecordFeedbackResult

	if in.RecommendationID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing recommendation_id", nil)
	}
	if in.WasSuccessful != nil && !in.WasAttempted {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "was_successful requires was_attempted", nil)
	}
	if a.deps.Documents == nil || a.deps.Analyses == nil || a.deps.Recommendations == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "recommendation aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rec, err := a.deps.Recommendations.GetByID(dbc, in.RecommendationID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "recommendation not found", nil)
		}
		ownerID, err := a.ownerOf(dbc, rec.AnalysisID)
		if err != nil {
			return err
		}
		if in.UserID != uuid.Nil && ownerID != in.UserID {
			return domainagg.NewError(domainagg.CodeNotFound, op, "recommendation not found", nil)
		}

		if err := requireOwned(a.Contract(), "recommendations"); err != nil {
			return err
		}
		ok, err := a.deps.Recommendations.UpdateFeedback(dbc, rec.ID, repos.RecommendationFeedback{
			WasAttempted:  in.WasAttempted,
			WasSuccessful: in.WasSuccessful,
			UserNotes:     in.UserNotes,
		})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "recommendation removed concurrently"); err != nil {
			return err
		}

		meta := map[string]interface{}{
			"recommendation_id": rec.ID.String(),
			"was_attempted":     in.WasAttempted,
		}
		if in.WasSuccessful != nil {
			meta["was_successful"] = *in.WasSuccessful
		}
		if err := recordAudit(dbc, a.deps.Base, ownerID, audit.ActionRecordFeedback, meta); err != nil {
			return err
		}
		out = domainagg.RecordFeedbackResult{
			RecommendationID: rec.ID,
			WasAttempted:     in.WasAttempted,
			WasSuccessful:    in.WasSuccessful,
		}
		return nil
	})
	return out, err
}

// ownerOf walks analysis -> document to the owning user.
func (a *recommendationAggregate) ownerOf(dbc dbctx.Context, analysisID uuid.UUID) (uuid.UUID, error) {
	analysis, err := a.deps.Analyses.GetByID(dbc, analysisID)
	if err != nil {
		return uuid.Nil, err
	}
	if analysis == nil {
		return uuid.Nil, InvariantError("recommendation points at a missing analysis")
	}
	doc, err := a.deps.Documents.GetByID(dbc, analysis.DocumentID)
	if err != nil {
		return uuid.Nil, err
	}
	if doc == nil {
		return uuid.Nil, InvariantError("analysis points at a missing document")
	}
	return doc.UserID, nil
}

package aggregates

import (
	"github.com/google/uuid"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

// ownershipRepos covers the Document subtree. Deletes run leaf first so the
// result is the same whether or not the database enforces ON DELETE CASCADE.
type ownershipRepos struct {
	// Contract of the aggregate running the cascade; it must own every table touched.
	Contract domainagg.Contract

	Documents       repos.DocumentRepo
	Clauses         repos.ClauseRepo
	Analyses        repos.AnalysisResultRepo
	Recommendations repos.RecommendationRepo
}

func (o ownershipRepos) configured() bool {
	return o.Documents != nil && o.Clauses != nil && o.Analyses != nil && o.Recommendations != nil
}

func (o ownershipRepos) deleteDocuments(dbc dbctx.Context, documentIDs []uuid.UUID) (domainagg.CascadeCounts, error) {
	var out domainagg.CascadeCounts
	if len(documentIDs) == 0 {
		return out, nil
	}
	if err := requireOwned(o.Contract, "documents", "clauses", "analysis_results", "recommendations"); err != nil {
		return out, err
	}
	analysisIDs, err := o.Analyses.IDsByDocumentIDs(dbc, documentIDs)
	if err != nil {
		return out, err
	}
	if out.Recommendations, err = o.Recommendations.DeleteByAnalysisIDs(dbc, analysisIDs); err != nil {
		return out, err
	}
	if out.Analyses, err = o.Analyses.DeleteByIDs(dbc, analysisIDs); err != nil {
		return out, err
	}
	if out.Clauses, err = o.Clauses.DeleteByDocumentIDs(dbc, documentIDs); err != nil {
		return out, err
	}
	if out.Documents, err = o.Documents.DeleteByIDs(dbc, documentIDs); err != nil {
		return out, err
	}
	return out, nil
}

package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

// DocumentReport is everything known about one document. Analysis and
// Recommendations stay empty until the document completes.
type DocumentReport struct {
	Document        *types.Document
	Clauses         []*types.Clause
	Analysis        *types.AnalysisResult
	Recommendations []*types.Recommendation
}

type ReportService interface {
	DocumentReport(ctx context.Context, userID, documentID uuid.UUID) (*DocumentReport, error)
}

type reportService struct {
	log             *logger.Logger
	documents       repos.DocumentRepo
	clauses         repos.ClauseRepo
	analyses        repos.AnalysisResultRepo
	recommendations repos.RecommendationRepo
	auditLogs       repos.AuditLogRepo
}

func NewReportService(baseLog *logger.Logger, set repos.Set) ReportService {
	return &reportService{
		log:             baseLog.With("service", "ReportService"),
		documents:       set.Documents,
		clauses:         set.Clauses,
		analyses:        set.Analyses,
		recommendations: set.Recommendations,
		auditLogs:       set.AuditLogs,
	}
}

func (s *reportService) DocumentReport(ctx context.Context, userID, documentID uuid.UUID) (*DocumentReport, error) {
	const op = "Contracts.Report.Document"
	if userID == uuid.Nil || documentID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "user_id and document_id are required", nil)
	}

	doc, err := s.documents.GetByID(dbctx.Context{Ctx: ctx}, documentID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if doc == nil || doc.UserID != userID {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "document not found", nil)
	}

	out := &DocumentReport{Document: doc}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clauses, err := s.clauses.ListByDocumentID(dbctx.Context{Ctx: gctx}, doc.ID)
		out.Clauses = clauses
		return err
	})
	g.Go(func() error {
		analysis, err := s.analyses.GetByDocumentID(dbctx.Context{Ctx: gctx}, doc.ID)
		if err != nil || analysis == nil {
			return err
		}
		recs, err := s.recommendations.ListByAnalysisID(dbctx.Context{Ctx: gctx}, analysis.ID)
		out.Analysis = analysis
		out.Recommendations = recs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	if out.Analysis != nil && s.auditLogs != nil {
		row := audit.NewEntry(ctx, userID, audit.ActionViewAnalysis, map[string]interface{}{
			"document_id": doc.ID.String(),
			"analysis_id": out.Analysis.ID.String(),
		})
		// A lost audit row must not hide the report.
		if err := s.auditLogs.Insert(dbctx.Context{Ctx: ctx}, row); err != nil {
			s.log.Warn("view_analysis audit failed", "document_id", doc.ID.String(), "error", err)
		}
	}
	return out, nil
}

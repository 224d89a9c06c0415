package repos

import (
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos/audit"
	"github.com/Goutham-Eda/Carlo/internal/data/repos/benchmarks"
	"github.com/Goutham-Eda/Carlo/internal/data/repos/contracts"
	"github.com/Goutham-Eda/Carlo/internal/data/repos/user"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type DocumentRepo = contracts.DocumentRepo
type ClauseRepo = contracts.ClauseRepo
type AnalysisResultRepo = contracts.AnalysisResultRepo
type RecommendationRepo = contracts.RecommendationRepo
type RecommendationFeedback = contracts.Feedback

type AuditLogRepo = audit.AuditLogRepo
type AuditListFilter = audit.ListFilter

type MarketBenchmarkRepo = benchmarks.MarketBenchmarkRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return contracts.NewDocumentRepo(db, baseLog)
}
func NewClauseRepo(db *gorm.DB, baseLog *logger.Logger) ClauseRepo {
	return contracts.NewClauseRepo(db, baseLog)
}
func NewAnalysisResultRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisResultRepo {
	return contracts.NewAnalysisResultRepo(db, baseLog)
}
func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return contracts.NewRecommendationRepo(db, baseLog)
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return audit.NewAuditLogRepo(db, baseLog)
}

func NewMarketBenchmarkRepo(db *gorm.DB, baseLog *logger.Logger) MarketBenchmarkRepo {
	return benchmarks.NewMarketBenchmarkRepo(db, baseLog)
}

// Set bundles every table repo over one database handle.
type Set struct {
	Users           UserRepo
	Documents       DocumentRepo
	Clauses         ClauseRepo
	Analyses        AnalysisResultRepo
	Recommendations RecommendationRepo
	AuditLogs       AuditLogRepo
	Benchmarks      MarketBenchmarkRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:           NewUserRepo(db, baseLog),
		Documents:       NewDocumentRepo(db, baseLog),
		Clauses:         NewClauseRepo(db, baseLog),
		Analyses:        NewAnalysisResultRepo(db, baseLog),
		Recommendations: NewRecommendationRepo(db, baseLog),
		AuditLogs:       NewAuditLogRepo(db, baseLog),
		Benchmarks:      NewMarketBenchmarkRepo(db, baseLog),
	}
}

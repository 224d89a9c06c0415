package app

import (
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/config"
	"github.com/Goutham-Eda/Carlo/internal/data/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/observability"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
	"github.com/Goutham-Eda/Carlo/internal/services"
)

type Aggregates struct {
	Users           domainagg.UserAggregate
	Documents       domainagg.DocumentAggregate
	Recommendations domainagg.RecommendationAggregate
}

type Services struct {
	Benchmarks services.BenchmarkService
	Reports    services.ReportService
}

func wireAggregates(db *gorm.DB, log *logger.Logger, cfg *config.Config, set repos.Set, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...", "audit_on_user_delete", cfg.Policy.AuditOnUserDelete)
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log.With("component", "aggregates"),
		Hooks:  aggregates.NewObservabilityHooks(metrics),
		Policy: cfg.AggregatePolicy(),
		Audit:  set.AuditLogs,
	}
	return Aggregates{
		Users: aggregates.NewUserAggregate(aggregates.UserAggregateDeps{
			Base:            base,
			Users:           set.Users,
			Documents:       set.Documents,
			Clauses:         set.Clauses,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
		Documents: aggregates.NewDocumentAggregate(aggregates.DocumentAggregateDeps{
			Base:            base,
			Users:           set.Users,
			Documents:       set.Documents,
			Clauses:         set.Clauses,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
		Recommendations: aggregates.NewRecommendationAggregate(aggregates.RecommendationAggregateDeps{
			Base:            base,
			Documents:       set.Documents,
			Analyses:        set.Analyses,
			Recommendations: set.Recommendations,
		}),
	}
}

func wireServices(log *logger.Logger, cfg *config.Config, set repos.Set, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Benchmarks: services.NewBenchmarkService(log, set.Benchmarks, cfg.Benchmarks.CacheTTL, metrics),
		Reports:    services.NewReportService(log, set),
	}
}

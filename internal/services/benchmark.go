package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Goutham-Eda/Carlo/internal/cache"
	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/observability"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

// ErrNoBenchmark is returned when no benchmark range contains the score.
var ErrNoBenchmark = errors.New("no market benchmark covers credit score")

type BenchmarkService interface {
	// ForCreditScore returns the narrowest benchmark containing score.
	// The returned value is shared with the cache and must not be modified.
	ForCreditScore(ctx context.Context, score int) (*types.MarketBenchmark, error)
	// Invalidate drops cached lookups, e.g. after reseeding.
	Invalidate()
}

type benchmarkService struct {
	log     *logger.Logger
	repo    repos.MarketBenchmarkRepo
	cache   cache.Cache[int, *types.MarketBenchmark]
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewBenchmarkService caches lookups for ttl. A non-positive ttl disables
// caching; concurrent misses are still collapsed into one query.
func NewBenchmarkService(
	baseLog *logger.Logger,
	repo repos.MarketBenchmarkRepo,
	ttl time.Duration,
	metrics *observability.Metrics,
) BenchmarkService {
	var c cache.Cache[int, *types.MarketBenchmark] = cache.NoopCache[int, *types.MarketBenchmark]{}
	if ttl > 0 {
		c = cache.NewTTLCache[int, *types.MarketBenchmark](ttl)
	}
	return &benchmarkService{
		log:     baseLog.With("service", "BenchmarkService"),
		repo:    repo,
		cache:   c,
		metrics: metrics,
	}
}

func (s *benchmarkService) ForCreditScore(ctx context.Context, score int) (*types.MarketBenchmark, error) {
	if b, ok := s.cache.Get(score); ok {
		s.metrics.IncBenchmarkLookup("hit")
		return b, nil
	}

	v, err, shared := s.group.Do(strconv.Itoa(score), func() (interface{}, error) {
		rows, err := s.repo.Covering(dbctx.Context{Ctx: ctx}, score)
		if err != nil {
			return nil, fmt.Errorf("load benchmarks for %d: %w", score, err)
		}
		if len(rows) == 0 {
			return nil, ErrNoBenchmark
		}
		s.cache.Set(score, rows[0])
		return rows[0], nil
	})
	if errors.Is(err, ErrNoBenchmark) {
		s.metrics.IncBenchmarkLookup("none")
		return nil, fmt.Errorf("credit score %d: %w", score, err)
	}
	if err != nil {
		s.log.Warn("benchmark lookup failed", "score", score, "error", err)
		return nil, err
	}
	s.metrics.IncBenchmarkLookup("miss")
	if shared {
		s.log.Debug("benchmark lookup shared", "score", score)
	}
	return v.(*types.MarketBenchmark), nil
}

func (s *benchmarkService) Invalidate() {
	s.cache.Purge()
}

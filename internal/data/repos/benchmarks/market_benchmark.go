package benchmarks

import (
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type MarketBenchmarkRepo interface {
	Create(dbc dbctx.Context, rows []*types.MarketBenchmark) ([]*types.MarketBenchmark, error)
	List(dbc dbctx.Context) ([]*types.MarketBenchmark, error)
	Count(dbc dbctx.Context) (int64, error)
	// Covering returns every benchmark whose range contains score, narrowest first.
	Covering(dbc dbctx.Context, score int) ([]*types.MarketBenchmark, error)
	DeleteAll(dbc dbctx.Context) (int64, error)
}

type marketBenchmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarketBenchmarkRepo(db *gorm.DB, baseLog *logger.Logger) MarketBenchmarkRepo {
	return &marketBenchmarkRepo{db: db, log: baseLog.With("repo", "MarketBenchmarkRepo")}
}

func (r *marketBenchmarkRepo) Create(dbc dbctx.Context, rows []*types.MarketBenchmark) ([]*types.MarketBenchmark, error) {
	if len(rows) == 0 {
		return []*types.MarketBenchmark{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *marketBenchmarkRepo) List(dbc dbctx.Context) ([]*types.MarketBenchmark, error) {
	var out []*types.MarketBenchmark
	if err := dbc.DB(r.db).
		Order("credit_score_min ASC").
		Order("credit_score_max ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *marketBenchmarkRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.MarketBenchmark{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *marketBenchmarkRepo) Covering(dbc dbctx.Context, score int) ([]*types.MarketBenchmark, error) {
	var out []*types.MarketBenchmark
	if err := dbc.DB(r.db).
		Where("credit_score_min <= ? AND credit_score_max >= ?", score, score).
		Order("(credit_score_max - credit_score_min) ASC").
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *marketBenchmarkRepo) DeleteAll(dbc dbctx.Context) (int64, error) {
	res := dbc.DB(r.db).
		Where("1 = 1").
		Delete(&types.MarketBenchmark{})
	return res.RowsAffected, res.Error
}

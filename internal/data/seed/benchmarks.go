package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type benchmarkFile struct {
	Benchmarks []*types.MarketBenchmark `yaml:"benchmarks"`
}

// ParseBenchmarks decodes a seed document of the form
//
//	benchmarks:
//	  - credit_score_min: 750
//	    credit_score_max: 900
//	    avg_apr: 8.5
//	    good_apr: 7.0
//	    typical_fees: {origination: [0, 500]}
//
// and rejects rows with an inverted range or a negative rate.
func ParseBenchmarks(data []byte) ([]*types.MarketBenchmark, error) {
	var f benchmarkFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode benchmarks: %w", err)
	}
	for i, b := range f.Benchmarks {
		if b == nil {
			return nil, fmt.Errorf("benchmark %d: empty entry", i)
		}
		if b.CreditScoreMin > b.CreditScoreMax {
			return nil, fmt.Errorf("benchmark %d: credit_score_min %d > credit_score_max %d", i, b.CreditScoreMin, b.CreditScoreMax)
		}
		if b.AvgAPR < 0 || b.GoodAPR < 0 {
			return nil, fmt.Errorf("benchmark %d: apr must not be negative", i)
		}
		b.ID = 0
	}
	return f.Benchmarks, nil
}

// Benchmarks loads path into an empty market_benchmarks table. A populated
// table is left alone so restarts never duplicate reference data. It returns
// the number of rows inserted.
func Benchmarks(ctx context.Context, db *gorm.DB, repo repos.MarketBenchmarkRepo, baseLog *logger.Logger, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}
	log := baseLog.With("component", "BenchmarkSeed", "file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	rows, err := ParseBenchmarks(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	source := "seed:" + filepath.Base(path)
	for _, b := range rows {
		if strings.TrimSpace(b.DataSource) == "" {
			b.DataSource = source
		}
	}

	inserted := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := repo.Count(dbc)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("market benchmarks already present, skipping seed", "rows", n)
			return nil
		}
		if _, err := repo.Create(dbc, rows); err != nil {
			return err
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed benchmarks: %w", err)
	}
	if inserted > 0 {
		log.Info("market benchmarks seeded", "rows", inserted)
	}
	return inserted, nil
}

package benchmarks

import (
	"time"

	"gorm.io/datatypes"
)

// MarketBenchmark is reference data for the recommendation engine. It has no
// ownership relation to any other table.
type MarketBenchmark struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CreditScoreMin int     `gorm:"column:credit_score_min;index:idx_market_benchmarks_range" json:"credit_score_min" yaml:"credit_score_min"`
	CreditScoreMax int     `gorm:"column:credit_score_max;index:idx_market_benchmarks_range" json:"credit_score_max" yaml:"credit_score_max"`
	AvgAPR         float64 `gorm:"column:avg_apr" json:"avg_apr" yaml:"avg_apr"`
	GoodAPR        float64 `gorm:"column:good_apr" json:"good_apr" yaml:"good_apr"`

	// {"origination": [0, 500], "doc": [0, 300]}
	TypicalFees datatypes.JSONMap `gorm:"column:typical_fees" json:"typical_fees,omitempty" yaml:"typical_fees"`

	DataSource string    `gorm:"column:data_source;type:varchar(255)" json:"data_source,omitempty" yaml:"data_source"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at" yaml:"-"`
}

func (MarketBenchmark) TableName() string { return "market_benchmarks" }

func (b *MarketBenchmark) Contains(score int) bool {
	return score >= b.CreditScoreMin && score <= b.CreditScoreMax
}

func (b *MarketBenchmark) Width() int {
	return b.CreditScoreMax - b.CreditScoreMin
}

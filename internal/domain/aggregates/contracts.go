package aggregates

import "slices"

// WriteTxOwnership records who opens and commits the transaction for a write.
type WriteTxOwnership string

const WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"

// ReadPolicy records which reads an aggregate is allowed to expose.
type ReadPolicy string

const (
	// Reads limited to what a write needs to decide an invariant.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// Listings and reports go through table repos or services instead.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

// Contract is the static description every aggregate publishes.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Owns             []string
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// OwnsTable reports whether writes to table are allowed from this aggregate.
func (c Contract) OwnsTable(table string) bool {
	return slices.Contains(c.Owns, table)
}

// Package aggregates implements the CARLO write paths on top of the table
// repos in internal/data/repos.
//
// Every exported method runs in one transaction opened by the aggregate
// itself. Ownership cascades, the document status machine and the audit
// trail are all applied inside that transaction, so a failed write leaves
// no partial rows behind.
package aggregates

// Package aggregates defines the write boundaries of the contract-analysis
// model: user accounts, the document processing lifecycle and recommendation
// feedback.
//
// Contracts avoid persistence details. Every write method is atomic and fails
// with *Error carrying one of the Code* values.
package aggregates

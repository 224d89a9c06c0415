package aggregates

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

// CASGuard issues conditional updates keyed on a row's current status.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// UpdateByStatus applies updates to table row id only while statusColumn is
// still one of allowed. False means another writer moved the row first.
func (g CASGuard) UpdateByStatus(dbc dbctx.Context, table, statusColumn string, id uuid.UUID, allowed []string, updates map[string]any) (bool, error) {
	if dbc.Tx == nil && g.db == nil {
		return false, ValidationError("status update needs a transaction or a database")
	}
	table, statusColumn = strings.TrimSpace(table), strings.TrimSpace(statusColumn)
	switch {
	case table == "" || statusColumn == "":
		return false, ValidationError("status update needs a table and a status column")
	case id == uuid.Nil:
		return false, ValidationError("status update needs a row id")
	case len(allowed) == 0:
		return false, ValidationError("status update needs at least one allowed status")
	}
	res := dbc.DB(g.db).
		Table(table).
		Where("id = ?", id).
		Where(statusColumn+" IN ?", allowed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RequireCASSuccess turns a lost compare-and-set into a conflict.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(message)
}

// RequireStatusAllowed is an invariant violation unless current is one of
// allowed, compared case-insensitively.
func RequireStatusAllowed(current string, allowed ...string) error {
	if len(allowed) == 0 {
		return ValidationError("no statuses allowed")
	}
	current = strings.TrimSpace(current)
	if slices.ContainsFunc(allowed, func(s string) bool { return strings.EqualFold(current, strings.TrimSpace(s)) }) {
		return nil
	}
	return InvariantError("not allowed while status is " + current)
}

// requireOwned fails unless c lists every table the caller is about to write.
func requireOwned(c domainagg.Contract, tables ...string) error {
	for _, t := range tables {
		if !c.OwnsTable(t) {
			return InvariantError(c.Name + " does not own table " + t)
		}
	}
	return nil
}

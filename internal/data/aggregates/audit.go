package aggregates

import (
	"github.com/google/uuid"

	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

// recordAudit appends an audit row inside the caller's transaction, so the
// row commits or rolls back with the write it describes.
func recordAudit(dbc dbctx.Context, deps BaseDeps, userID uuid.UUID, action string, metadata map[string]interface{}) error {
	if deps.Audit == nil {
		return nil
	}
	return deps.Audit.Insert(dbc, audit.NewEntry(dbc.Ctx, userID, action, metadata))
}

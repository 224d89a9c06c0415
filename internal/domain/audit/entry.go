package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Goutham-Eda/Carlo/internal/pkg/ctxutil"
)

// NewEntry builds an audit row for action. A nil userID leaves the row
// unlinked. Request id, actor and client ip are taken from ctx when present.
func NewEntry(ctx context.Context, userID uuid.UUID, action string, metadata map[string]interface{}) *AuditLog {
	row := &AuditLog{Action: action}
	if userID != uuid.Nil {
		uid := userID
		row.UserID = &uid
	}
	meta := datatypes.JSONMap{}
	for k, v := range metadata {
		meta[k] = v
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		row.IPAddress = rd.IPAddress
		if rd.RequestID != "" {
			meta["request_id"] = rd.RequestID
		}
		if rd.Actor != "" {
			meta["actor"] = rd.Actor
		}
	}
	if len(meta) > 0 {
		row.Metadata = meta
	}
	return row
}

package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

const (
	defaultListLimit = 100
	// Width of audit_logs.ip_address; enough for any textual IPv6 address.
	maxIPAddressLen = 45
)

// ListFilter narrows an audit query. Zero fields are ignored.
type ListFilter struct {
	UserID *uuid.UUID
	Action string
	Since  time.Time
	Until  time.Time
	Limit  int
}

type AuditLogRepo interface {
	Insert(dbc dbctx.Context, logs ...*types.AuditLog) error
	List(dbc dbctx.Context, f ListFilter) ([]*types.AuditLog, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	NullifyUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Insert(dbc dbctx.Context, logs ...*types.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, l := range logs {
		if l.Timestamp.IsZero() {
			l.Timestamp = now
		}
		l.Action = strings.TrimSpace(l.Action)
		if len(l.IPAddress) > maxIPAddressLen {
			// Keep the full value in metadata rather than cutting it.
			r.log.Warn("audit ip_address too long, moved to metadata", "action", l.Action, "length", len(l.IPAddress))
			if l.Metadata == nil {
				l.Metadata = datatypes.JSONMap{}
			}
			l.Metadata["ip_address_raw"] = l.IPAddress
			l.IPAddress = ""
		}
	}
	return dbc.DB(r.db).Create(&logs).Error
}

// List returns matching rows newest first.
func (r *auditLogRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.AuditLog, error) {
	q := dbc.DB(r.db).Model(&types.AuditLog{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if a := strings.TrimSpace(f.Action); a != "" {
		q = q.Where("action = ?", a)
	}
	if !f.Since.IsZero() {
		q = q.Where("timestamp >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("timestamp < ?", f.Until)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []*types.AuditLog
	if err := q.Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auditLogRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.AuditLog{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *auditLogRepo) NullifyUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.AuditLog{}).
		Where("user_id = ?", userID).
		Update("user_id", gorm.Expr("NULL"))
	return res.RowsAffected, res.Error
}

func (r *auditLogRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Delete(&types.AuditLog{})
	return res.RowsAffected, res.Error
}

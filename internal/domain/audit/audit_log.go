package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionRegisterUser       = "register_user"
	ActionChangeSubscription = "change_subscription"
	ActionAdjustCredits      = "adjust_credits"
	ActionDeleteUser         = "delete_user"
	ActionUploadDocument     = "upload_document"
	ActionDeleteDocument     = "delete_document"
	ActionViewAnalysis       = "view_analysis"
	ActionRecordFeedback     = "record_feedback"
)

// AuditLog is append-only. UserID has no foreign key; what happens to these
// rows when the user goes away is up to the user-delete policy.
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"column:action;type:varchar(100);index" json:"action"`
	Timestamp time.Time         `gorm:"column:timestamp;not null;index" json:"timestamp"`
	IPAddress string            `gorm:"column:ip_address;type:varchar(45)" json:"ip_address,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
}

func (AuditLog) TableName() string { return "audit_logs" }

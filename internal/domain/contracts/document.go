package contracts

import (
	"time"

	"github.com/Goutham-Eda/Carlo/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Filename      string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	StorageKey    string    `gorm:"column:storage_key;type:varchar(500);not null" json:"storage_key"`
	FileSizeBytes int64     `gorm:"column:file_size_bytes" json:"file_size_bytes"`
	UploadDate    time.Time `gorm:"column:upload_date;not null" json:"upload_date"`

	DocumentType     DocumentType     `gorm:"column:document_type;type:varchar(20);not null;default:'unknown'" json:"document_type"`
	ProcessingStatus ProcessingStatus `gorm:"column:processing_status;type:varchar(20);not null;default:'uploaded';index" json:"processing_status"`
	ErrorMessage     string           `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	ExtractedText string   `gorm:"column:extracted_text;type:text" json:"extracted_text,omitempty"`
	OCRConfidence *float64 `gorm:"column:ocr_confidence" json:"ocr_confidence,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now().UTC()
	}
	if d.DocumentType == "" {
		d.DocumentType = DocumentTypeUnknown
	}
	if d.ProcessingStatus == "" {
		d.ProcessingStatus = StatusUploaded
	}
	return nil
}

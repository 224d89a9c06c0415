package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureIndexes creates the composite read-path indexes AutoMigrate cannot
// express through struct tags. Statements are portable across postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	// Clause listing in document order.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_clauses_document_number
		ON clauses (document_id, clause_number);
	`).Error; err != nil {
		return fmt.Errorf("create idx_clauses_document_number: %w", err)
	}

	// Recommendations are always read by analysis, highest priority first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recommendations_analysis_priority
		ON recommendations (analysis_id, priority);
	`).Error; err != nil {
		return fmt.Errorf("create idx_recommendations_analysis_priority: %w", err)
	}

	// Per-user document history.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_documents_user_upload
		ON documents (user_id, upload_date);
	`).Error; err != nil {
		return fmt.Errorf("create idx_documents_user_upload: %w", err)
	}

	// Audit trail per user over time.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_logs_user_timestamp
		ON audit_logs (user_id, timestamp);
	`).Error; err != nil {
		return fmt.Errorf("create idx_audit_logs_user_timestamp: %w", err)
	}

	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}

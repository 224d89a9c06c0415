package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type AnalysisResultRepo interface {
	Create(dbc dbctx.Context, analysis *types.AnalysisResult) (*types.AnalysisResult, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AnalysisResult, error)
	GetByDocumentID(dbc dbctx.Context, documentID uuid.UUID) (*types.AnalysisResult, error)
	ExistsForDocument(dbc dbctx.Context, documentID uuid.UUID) (bool, error)
	IDsByDocumentIDs(dbc dbctx.Context, documentIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type analysisResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalysisResultRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisResultRepo {
	return &analysisResultRepo{db: db, log: baseLog.With("repo", "AnalysisResultRepo")}
}

// Create inserts a single analysis. The unique index on document_id rejects
// a second one for the same document.
func (r *analysisResultRepo) Create(dbc dbctx.Context, analysis *types.AnalysisResult) (*types.AnalysisResult, error) {
	if err := dbc.DB(r.db).Create(analysis).Error; err != nil {
		return nil, err
	}
	return analysis, nil
}

func (r *analysisResultRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AnalysisResult, error) {
	return r.getOne(dbc, "id = ?", id)
}

// GetByDocumentID returns nil, nil when the document has no analysis yet.
func (r *analysisResultRepo) GetByDocumentID(dbc dbctx.Context, documentID uuid.UUID) (*types.AnalysisResult, error) {
	return r.getOne(dbc, "document_id = ?", documentID)
}

func (r *analysisResultRepo) getOne(dbc dbctx.Context, where string, id uuid.UUID) (*types.AnalysisResult, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.AnalysisResult
	if err := dbc.DB(r.db).
		Where(where, id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *analysisResultRepo) ExistsForDocument(dbc dbctx.Context, documentID uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.AnalysisResult{}).
		Where("document_id = ?", documentID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *analysisResultRepo) IDsByDocumentIDs(dbc dbctx.Context, documentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(documentIDs) == 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.AnalysisResult{}).
		Where("document_id IN ?", documentIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *analysisResultRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&types.AnalysisResult{})
	return res.RowsAffected, res.Error
}

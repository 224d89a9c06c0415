package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type ClauseRepo interface {
	Create(dbc dbctx.Context, clauses []*types.Clause) ([]*types.Clause, error)
	ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Clause, error)
	DeleteByDocumentIDs(dbc dbctx.Context, documentIDs []uuid.UUID) (int64, error)
}

type clauseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClauseRepo(db *gorm.DB, baseLog *logger.Logger) ClauseRepo {
	return &clauseRepo{db: db, log: baseLog.With("repo", "ClauseRepo")}
}

func (r *clauseRepo) Create(dbc dbctx.Context, clauses []*types.Clause) ([]*types.Clause, error) {
	if len(clauses) == 0 {
		return []*types.Clause{}, nil
	}
	if err := dbc.DB(r.db).Create(&clauses).Error; err != nil {
		return nil, err
	}
	return clauses, nil
}

// ListByDocumentID returns clauses in document order.
func (r *clauseRepo) ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Clause, error) {
	var out []*types.Clause
	if documentID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("document_id = ?", documentID).
		Order("clause_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clauseRepo) DeleteByDocumentIDs(dbc dbctx.Context, documentIDs []uuid.UUID) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("document_id IN ?", documentIDs).
		Delete(&types.Clause{})
	return res.RowsAffected, res.Error
}

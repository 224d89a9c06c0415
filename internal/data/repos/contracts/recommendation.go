package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/Goutham-Eda/Carlo/internal/domain"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

// Feedback is the complete set of recommendation columns writable after creation.
type Feedback struct {
	WasAttempted  bool
	WasSuccessful *bool
	UserNotes     *string
}

type RecommendationRepo interface {
	Create(dbc dbctx.Context, recs []*types.Recommendation) ([]*types.Recommendation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recommendation, error)
	ListByAnalysisID(dbc dbctx.Context, analysisID uuid.UUID) ([]*types.Recommendation, error)
	UpdateFeedback(dbc dbctx.Context, id uuid.UUID, fb Feedback) (bool, error)
	DeleteByAnalysisIDs(dbc dbctx.Context, analysisIDs []uuid.UUID) (int64, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (r *recommendationRepo) Create(dbc dbctx.Context, recs []*types.Recommendation) ([]*types.Recommendation, error) {
	if len(recs) == 0 {
		return []*types.Recommendation{}, nil
	}
	if err := dbc.DB(r.db).Create(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// GetByID returns nil, nil when the recommendation does not exist.
func (r *recommendationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recommendation, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Recommendation
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// ListByAnalysisID returns recommendations highest priority (1) first.
func (r *recommendationRepo) ListByAnalysisID(dbc dbctx.Context, analysisID uuid.UUID) ([]*types.Recommendation, error) {
	var out []*types.Recommendation
	if analysisID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("analysis_id = ?", analysisID).
		Order("priority ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recommendationRepo) UpdateFeedback(dbc dbctx.Context, id uuid.UUID, fb Feedback) (bool, error) {
	updates := map[string]interface{}{
		"was_attempted":  fb.WasAttempted,
		"was_successful": fb.WasSuccessful,
	}
	if fb.UserNotes != nil {
		updates["user_notes"] = *fb.UserNotes
	}
	res := dbc.DB(r.db).
		Model(&types.Recommendation{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *recommendationRepo) DeleteByAnalysisIDs(dbc dbctx.Context, analysisIDs []uuid.UUID) (int64, error) {
	if len(analysisIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("analysis_id IN ?", analysisIDs).
		Delete(&types.Recommendation{})
	return res.RowsAffected, res.Error
}

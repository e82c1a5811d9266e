package repository

import (
	"Atelier/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewByPair(ctx context.Context, painterID, userID uint64) (*model.Review, error)
	ListByPainter(ctx context.Context, painterID uint64, offset, limit int) ([]*model.Review, int64, error)
	UpdateReview(ctx context.Context, review *model.Review) error
	DeleteReview(ctx context.Context, painterID, userID uint64) (int64, error)
	AggregateRating(ctx context.Context, painterID uint64) (float64, int, error)
}

type ReviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepo {
	return &ReviewRepoImpl{db: db}
}

func (s *ReviewRepoImpl) CreateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}

func (s *ReviewRepoImpl) GetReviewByPair(ctx context.Context, painterID, userID uint64) (*model.Review, error) {
	review := &model.Review{}
	result := s.db.WithContext(ctx).
		Where("painter_id = ? AND user_id = ?", painterID, userID).
		First(review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return review, nil
}

func (s *ReviewRepoImpl) ListByPainter(ctx context.Context, painterID uint64, offset, limit int) ([]*model.Review, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("painter_id = ?", painterID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	reviews := make([]*model.Review, 0)
	err = s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("painter_id = ?", painterID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (s *ReviewRepoImpl) UpdateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("painter_id = ? AND user_id = ?", review.PainterID, review.UserID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"content": review.Content,
		}).Error
}

func (s *ReviewRepoImpl) DeleteReview(ctx context.Context, painterID, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("painter_id = ? AND user_id = ?", painterID, userID).
		Delete(&model.Review{})
	return result.RowsAffected, result.Error
}

// AggregateRating 聚合画师的平均评分与评价数
func (s *ReviewRepoImpl) AggregateRating(ctx context.Context, painterID uint64) (float64, int, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("painter_id = ?", painterID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, int(row.Count), nil
}

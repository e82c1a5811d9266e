package repository

import (
	"Atelier/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type FavoriteRepo interface {
	CreateFavorite(ctx context.Context, favorite *model.Favorite) error
	DeleteFavorite(ctx context.Context, userID, painterID uint64) (int64, error)
	Exists(ctx context.Context, userID, painterID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.Favorite, int64, error)
	CountByPainter(ctx context.Context, painterID uint64) (int64, error)
}

type FavoriteRepoImpl struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) FavoriteRepo {
	return &FavoriteRepoImpl{db: db}
}

func (s *FavoriteRepoImpl) CreateFavorite(ctx context.Context, favorite *model.Favorite) error {
	return s.db.WithContext(ctx).Create(favorite).Error
}

func (s *FavoriteRepoImpl) DeleteFavorite(ctx context.Context, userID, painterID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND painter_id = ?", userID, painterID).
		Delete(&model.Favorite{})
	return result.RowsAffected, result.Error
}

func (s *FavoriteRepoImpl) Exists(ctx context.Context, userID, painterID uint64) (bool, error) {
	var favorite model.Favorite
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND painter_id = ?", userID, painterID).
		First(&favorite)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func (s *FavoriteRepoImpl) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.Favorite, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	favorites := make([]*model.Favorite, 0)
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}

func (s *FavoriteRepoImpl) CountByPainter(ctx context.Context, painterID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("painter_id = ?", painterID).
		Count(&count).Error
	return count, err
}

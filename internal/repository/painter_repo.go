package repository

import (
	"Atelier/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PainterRepo interface {
	CreatePainter(ctx context.Context, painter *model.Painter, styles []string, portfolio []*model.PortfolioImage) error
	GetPainterById(ctx context.Context, id uint64) (*model.Painter, error)
	GetPainterByUserId(ctx context.Context, userID uint64) (*model.Painter, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*model.Painter, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status string, rejectReason *string) (int64, error)
	UpdateProfile(ctx context.Context, painter *model.Painter, styles []string) error
	UpdateRating(ctx context.Context, id uint64, rating float64, reviewCount int) error
	IncrFavoriteCount(ctx context.Context, id uint64, delta int) error
	AddPortfolioImage(ctx context.Context, image *model.PortfolioImage) error
	DeletePortfolioImage(ctx context.Context, painterID, imageID uint64) (int64, error)
}

type PainterRepoImpl struct {
	db *gorm.DB
}

func NewPainterRepo(db *gorm.DB) PainterRepo {
	return &PainterRepoImpl{db: db}
}

// CreatePainter 开启事务创建画师档案、风格与作品集
func (s *PainterRepoImpl) CreatePainter(ctx context.Context, painter *model.Painter, styles []string, portfolio []*model.PortfolioImage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(painter).Error; err != nil {
			return err
		}
		for _, style := range styles {
			if err := tx.Create(&model.PainterStyle{
				PainterID: painter.ID,
				Style:     style,
			}).Error; err != nil {
				return err
			}
		}
		for _, img := range portfolio {
			img.PainterID = painter.ID
			if err := tx.Create(img).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PainterRepoImpl) GetPainterById(ctx context.Context, id uint64) (*model.Painter, error) {
	painter := &model.Painter{}
	result := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Preload("Styles").
		Preload("Portfolio", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(painter, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return painter, nil
}

func (s *PainterRepoImpl) GetPainterByUserId(ctx context.Context, userID uint64) (*model.Painter, error) {
	painter := &model.Painter{}
	result := s.db.WithContext(ctx).
		Preload("Styles").
		Preload("Portfolio").
		Where("user_id = ?", userID).
		First(painter)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return painter, nil
}

// ListByStatus 审核队列分页查询
func (s *PainterRepoImpl) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*model.Painter, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Painter{}).
		Where("status = ?", status).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	painters := make([]*model.Painter, 0)
	err = s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Preload("Styles").
		Where("status = ?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&painters).Error
	if err != nil {
		return nil, 0, err
	}

	return painters, total, nil
}

// UpdateStatus 审核状态流转，同时递增 ES 版本号
func (s *PainterRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string, rejectReason *string) (int64, error) {
	updates := map[string]interface{}{
		"status":  status,
		"version": gorm.Expr("version + 1"),
	}
	if rejectReason != nil {
		updates["reject_reason"] = *rejectReason
	}

	result := s.db.WithContext(ctx).
		Model(&model.Painter{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateProfile 更新档案与风格，风格全量替换
func (s *PainterRepoImpl) UpdateProfile(ctx context.Context, painter *model.Painter, styles []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Painter{}).Where("id = ?", painter.ID).
			Updates(map[string]interface{}{
				"bio":          painter.Bio,
				"location":     painter.Location,
				"availability": painter.Availability,
				"level":        painter.Level,
				"price_min":    painter.PriceMin,
				"price_max":    painter.PriceMax,
				"version":      gorm.Expr("version + 1"),
			}).Error
		if err != nil {
			return err
		}

		if styles == nil {
			return nil
		}

		if err = tx.Where("painter_id = ?", painter.ID).
			Delete(&model.PainterStyle{}).Error; err != nil {
			return err
		}
		for _, style := range styles {
			if err = tx.Create(&model.PainterStyle{
				PainterID: painter.ID,
				Style:     style,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PainterRepoImpl) UpdateRating(ctx context.Context, id uint64, rating float64, reviewCount int) error {
	return s.db.WithContext(ctx).
		Model(&model.Painter{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
			"updated_at":   time.Now(),
		}).Error
}

func (s *PainterRepoImpl) IncrFavoriteCount(ctx context.Context, id uint64, delta int) error {
	return s.db.WithContext(ctx).
		Model(&model.Painter{}).
		Where("id = ?", id).
		Update("favorite_count", gorm.Expr("favorite_count + ?", delta)).Error
}

func (s *PainterRepoImpl) AddPortfolioImage(ctx context.Context, image *model.PortfolioImage) error {
	return s.db.WithContext(ctx).Create(image).Error
}

func (s *PainterRepoImpl) DeletePortfolioImage(ctx context.Context, painterID, imageID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND painter_id = ?", imageID, painterID).
		Delete(&model.PortfolioImage{})
	return result.RowsAffected, result.Error
}

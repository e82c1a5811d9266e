package repository

import (
	"Atelier/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type GalleryRepo interface {
	CreatePost(ctx context.Context, post *model.GalleryPost) error
	GetPostById(ctx context.Context, id uint64) (*model.GalleryPost, error)
	ListPosts(ctx context.Context, style string, offset, limit int) ([]*model.GalleryPost, int64, error)
	ListPostsByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.GalleryPost, int64, error)
	DeletePost(ctx context.Context, id, userID uint64) (int64, error)
	UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error

	CreateLike(ctx context.Context, like *model.GalleryLike) error
	LikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	DeleteLike(ctx context.Context, userID, postID uint64) (int64, error)
	CountLikes(ctx context.Context, postID uint64) (int64, error)

	CreateComment(ctx context.Context, comment *model.GalleryComment) error
	GetCommentById(ctx context.Context, id uint64) (*model.GalleryComment, error)
	ListComments(ctx context.Context, postID uint64, offset, limit int) ([]*model.GalleryComment, int64, error)
	DeleteComment(ctx context.Context, id, userID uint64) (int64, error)
	CountComments(ctx context.Context, postID uint64) (int64, error)
}

type GalleryRepoImpl struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) GalleryRepo {
	return &GalleryRepoImpl{db: db}
}

func (s *GalleryRepoImpl) CreatePost(ctx context.Context, post *model.GalleryPost) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *GalleryRepoImpl) GetPostById(ctx context.Context, id uint64) (*model.GalleryPost, error) {
	post := &model.GalleryPost{}
	result := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("is_deleted = 0").
		First(post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

// ListPosts 动态流分页，style 非空时按风格过滤
func (s *GalleryRepoImpl) ListPosts(ctx context.Context, style string, offset, limit int) ([]*model.GalleryPost, int64, error) {
	base := s.db.WithContext(ctx).Model(&model.GalleryPost{}).Where("is_deleted = 0")
	if style != "" {
		base = base.Where("style = ?", style)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("is_deleted = 0")
	if style != "" {
		query = query.Where("style = ?", style)
	}

	posts := make([]*model.GalleryPost, 0)
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (s *GalleryRepoImpl) ListPostsByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.GalleryPost, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.GalleryPost{}).
		Where("user_id = ? AND is_deleted = 0", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*model.GalleryPost, 0)
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = 0", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// DeletePost 软删除，仅作者可删
func (s *GalleryRepoImpl) DeletePost(ctx context.Context, id, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.GalleryPost{}).
		Where("id = ? AND user_id = ? AND is_deleted = 0", id, userID).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

func (s *GalleryRepoImpl) UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error {
	return s.db.WithContext(ctx).
		Model(&model.GalleryPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":    likes,
			"comments_count": comments,
		}).Error
}

func (s *GalleryRepoImpl) CreateLike(ctx context.Context, like *model.GalleryLike) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *GalleryRepoImpl) LikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var like model.GalleryLike
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func (s *GalleryRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.GalleryLike{})
	return result.RowsAffected, result.Error
}

func (s *GalleryRepoImpl) CountLikes(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.GalleryLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *GalleryRepoImpl) CreateComment(ctx context.Context, comment *model.GalleryComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *GalleryRepoImpl) GetCommentById(ctx context.Context, id uint64) (*model.GalleryComment, error) {
	comment := &model.GalleryComment{}
	result := s.db.WithContext(ctx).
		Where("is_deleted = 0").
		First(comment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return comment, nil
}

func (s *GalleryRepoImpl) ListComments(ctx context.Context, postID uint64, offset, limit int) ([]*model.GalleryComment, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.GalleryComment{}).
		Where("post_id = ? AND is_deleted = 0", postID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	comments := make([]*model.GalleryComment, 0)
	err = s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("post_id = ? AND is_deleted = 0", postID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (s *GalleryRepoImpl) DeleteComment(ctx context.Context, id, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.GalleryComment{}).
		Where("id = ? AND user_id = ? AND is_deleted = 0", id, userID).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

func (s *GalleryRepoImpl) CountComments(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.GalleryComment{}).
		Where("post_id = ? AND is_deleted = 0", postID).
		Count(&count).Error
	return count, err
}

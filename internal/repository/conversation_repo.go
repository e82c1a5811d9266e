package repository

import (
	"Atelier/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error)
	GetConversationByPair(ctx context.Context, painterID, studentID uint64) (*model.Conversation, error)
	IsParticipant(ctx context.Context, convID uint64, userID uint64) (bool, error)
	IncrMaxSeq(ctx context.Context, convID uint64, lastMsg string, senderID uint64) (uint64, error)
	ListForUser(ctx context.Context, userID uint64) ([]*model.Conversation, error)
	CountForPainter(ctx context.Context, painterID uint64) (int64, error)
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

func (s *conversationRepoImpl) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	return s.db.WithContext(ctx).Create(conv).Error
}

// GetConversation 根据会话 ID 获取会话
func (s *conversationRepoImpl) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	var conv model.Conversation
	result := s.db.WithContext(ctx).First(&conv, convID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &conv, nil
}

// GetConversationByPair 根据画师/学生对获取会话
func (s *conversationRepoImpl) GetConversationByPair(ctx context.Context, painterID, studentID uint64) (*model.Conversation, error) {
	var conv model.Conversation
	result := s.db.WithContext(ctx).
		Where("painter_id = ? AND student_id = ?", painterID, studentID).
		First(&conv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &conv, nil
}

// IsParticipant 检查用户是否是会话参与者
func (s *conversationRepoImpl) IsParticipant(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ? AND (painter_user_id = ? OR student_id = ?)", convID, userID, userID).
		Count(&count).Error
	return count > 0, err
}

// IncrMaxSeq 核心定序逻辑：利用 MySQL 行锁确保 Seq 绝对递增
func (s *conversationRepoImpl) IncrMaxSeq(ctx context.Context, convID uint64, lastMsg string, senderID uint64) (uint64, error) {
	var maxSeq uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 原子更新序列号与预览信息
		err := tx.Model(&model.Conversation{}).Where("id = ?", convID).
			Updates(map[string]interface{}{
				"max_msg_seq":      gorm.Expr("max_msg_seq + 1"),
				"last_msg_content": lastMsg,
				"last_sender_id":   senderID,
				"last_message_at":  time.Now(),
			}).Error
		if err != nil {
			return err
		}

		// 读取并返回自增后的最新 Seq
		return tx.Model(&model.Conversation{}).Select("max_msg_seq").Where("id = ?", convID).Scan(&maxSeq).Error
	})
	return maxSeq, err
}

// ListForUser 用户参与的会话，按最近消息倒序
func (s *conversationRepoImpl) ListForUser(ctx context.Context, userID uint64) ([]*model.Conversation, error) {
	convs := make([]*model.Conversation, 0)
	err := s.db.WithContext(ctx).
		Where("painter_user_id = ? OR student_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// CountForPainter 画师名下的会话总数
func (s *conversationRepoImpl) CountForPainter(ctx context.Context, painterID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("painter_id = ?", painterID).
		Count(&count).Error
	return count, err
}

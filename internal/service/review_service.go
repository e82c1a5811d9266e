package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strconv"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID, painterID uint64, reviewDTO *dto.ReviewCreateDTO) error
	UpdateReview(ctx context.Context, userID, painterID uint64, reviewDTO *dto.ReviewCreateDTO) error
	DeleteReview(ctx context.Context, userID, painterID uint64) error
	ListByPainter(ctx context.Context, painterID uint64, page, pageSize int) (*dto.PageResult, error)
}

type ReviewServiceImpl struct {
	reviewRepo     repository.ReviewRepo
	painterRepo    repository.PainterRepo
	notifyProducer kafka.NotifyProducer
}

func NewReviewService(
	reviewRepo repository.ReviewRepo,
	painterRepo repository.PainterRepo,
	notifyProducer kafka.NotifyProducer,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:     reviewRepo,
		painterRepo:    painterRepo,
		notifyProducer: notifyProducer,
	}
}

// CreateReview 一个学生对一个画师只能有一条评价，唯一键兜底并发
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, userID, painterID uint64, reviewDTO *dto.ReviewCreateDTO) error {
	painter, err := s.checkPainter(ctx, userID, painterID)
	if err != nil {
		return err
	}

	review := &model.Review{
		PainterID: painterID,
		UserID:    userID,
		Rating:    reviewDTO.Rating,
		Content:   reviewDTO.Content,
	}

	if err = s.reviewRepo.CreateReview(ctx, review); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}

	s.markRatingDirty(ctx, painterID)

	s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
		ReceiverID: painter.UserID,
		SenderID:   userID,
		Type:       consts.NotifyTypeReview,
		Title:      "收到新评价",
		Content:    reviewDTO.Content,
		Link:       "/painters/" + strconv.FormatUint(painterID, 10),
	})
	return nil
}

func (s *ReviewServiceImpl) UpdateReview(ctx context.Context, userID, painterID uint64, reviewDTO *dto.ReviewCreateDTO) error {
	if _, err := s.checkPainter(ctx, userID, painterID); err != nil {
		return err
	}

	existing, err := s.reviewRepo.GetReviewByPair(ctx, painterID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrReviewNotFound
	}

	existing.Rating = reviewDTO.Rating
	existing.Content = reviewDTO.Content
	if err = s.reviewRepo.UpdateReview(ctx, existing); err != nil {
		return err
	}

	s.markRatingDirty(ctx, painterID)
	return nil
}

func (s *ReviewServiceImpl) DeleteReview(ctx context.Context, userID, painterID uint64) error {
	rows, err := s.reviewRepo.DeleteReview(ctx, painterID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReviewNotFound
	}

	s.markRatingDirty(ctx, painterID)
	return nil
}

func (s *ReviewServiceImpl) ListByPainter(ctx context.Context, painterID uint64, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	reviews, total, err := s.reviewRepo.ListByPainter(ctx, painterID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		list = append(list, &dto.ReviewDTO{
			ID:        r.ID,
			PainterID: r.PainterID,
			UserID:    r.UserID,
			Nickname:  r.User.UserDetail.Nickname,
			AvatarURL: minio.GetPublicURL(r.User.UserDetail.AvatarURL),
			Rating:    r.Rating,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *ReviewServiceImpl) checkPainter(ctx context.Context, userID, painterID uint64) (*model.Painter, error) {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	if painter != nil && painter.ID == painterID {
		return nil, ErrReviewSelf
	}

	target, err := s.painterRepo.GetPainterById(ctx, painterID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrPainterNotFound
	}
	if target.Status != consts.PainterStatusApproved {
		return nil, ErrPainterNotApproved
	}
	return target, nil
}

// markRatingDirty 打脏标记，评分由定时任务统一重算
func (s *ReviewServiceImpl) markRatingDirty(ctx context.Context, painterID uint64) {
	if err := redis.SAdd(ctx, consts.PainterRatingDirtyKey, strconv.FormatUint(painterID, 10)); err != nil {
		log.WarnContext(ctx, "mark rating dirty error", "pid", painterID, "err", err)
	}
}

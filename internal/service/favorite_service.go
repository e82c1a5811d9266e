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

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, painterID uint64) error
	RemoveFavorite(ctx context.Context, userID, painterID uint64) error
	IsFavorite(ctx context.Context, userID, painterID uint64) (bool, error)
	ListFavorites(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error)
}

type FavoriteServiceImpl struct {
	favoriteRepo   repository.FavoriteRepo
	painterRepo    repository.PainterRepo
	notifyProducer kafka.NotifyProducer
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepo,
	painterRepo repository.PainterRepo,
	notifyProducer kafka.NotifyProducer,
) FavoriteService {
	return &FavoriteServiceImpl{
		favoriteRepo:   favoriteRepo,
		painterRepo:    painterRepo,
		notifyProducer: notifyProducer,
	}
}

func (s *FavoriteServiceImpl) AddFavorite(ctx context.Context, userID, painterID uint64) error {
	painter, err := s.painterRepo.GetPainterById(ctx, painterID)
	if err != nil {
		return err
	}
	if painter == nil {
		return ErrPainterNotFound
	}
	if painter.Status != consts.PainterStatusApproved {
		return ErrPainterNotApproved
	}
	if painter.UserID == userID {
		return ErrFavoriteSelf
	}

	err = performAction(
		func() error { return nil },
		func() error {
			return s.favoriteRepo.CreateFavorite(ctx, &model.Favorite{
				UserID:    userID,
				PainterID: painterID,
			})
		},
	)
	if err != nil {
		return err
	}

	s.adjustFavoriteCount(ctx, painterID, 1)

	s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
		ReceiverID: painter.UserID,
		SenderID:   userID,
		Type:       consts.NotifyTypeFavorite,
		Title:      "被收藏了",
		Content:    "有学生收藏了你的主页",
		Link:       "/painters/" + strconv.FormatUint(painterID, 10),
	})
	return nil
}

func (s *FavoriteServiceImpl) RemoveFavorite(ctx context.Context, userID, painterID uint64) error {
	err := revokeAction(
		func() error { return nil },
		func() (int64, error) { return s.favoriteRepo.DeleteFavorite(ctx, userID, painterID) },
	)
	if err != nil {
		return err
	}

	s.adjustFavoriteCount(ctx, painterID, -1)
	return nil
}

func (s *FavoriteServiceImpl) IsFavorite(ctx context.Context, userID, painterID uint64) (bool, error) {
	return s.favoriteRepo.Exists(ctx, userID, painterID)
}

func (s *FavoriteServiceImpl) ListFavorites(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	favorites, total, err := s.favoriteRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.FavoriteDTO, 0, len(favorites))
	for _, f := range favorites {
		item := &dto.FavoriteDTO{
			PainterID: f.PainterID,
			CreatedAt: f.CreatedAt,
		}
		painter, err := s.painterRepo.GetPainterById(ctx, f.PainterID)
		if err == nil && painter != nil {
			item.Nickname = painter.User.UserDetail.Nickname
			item.AvatarURL = minio.GetPublicURL(painter.User.UserDetail.AvatarURL)
			item.Level = painter.Level
			item.Rating = painter.Rating
		}
		list = append(list, item)
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// adjustFavoriteCount 同步 MySQL 计数与 Redis 缓存计数
func (s *FavoriteServiceImpl) adjustFavoriteCount(ctx context.Context, painterID uint64, delta int) {
	if err := s.painterRepo.IncrFavoriteCount(ctx, painterID, delta); err != nil {
		log.WarnContext(ctx, "adjust favorite count error", "pid", painterID, "err", err)
	}

	countKey := consts.PainterFavoriteCountKey + strconv.FormatUint(painterID, 10)
	var err error
	if delta > 0 {
		err = redis.Incr(ctx, countKey)
	} else {
		err = redis.Decr(ctx, countKey)
	}
	if err != nil {
		log.WarnContext(ctx, "adjust favorite counter error", "pid", painterID, "err", err)
	}
}

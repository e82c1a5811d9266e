package job

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/logger"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/util"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// PainterRatingJob 定时聚合画师评分
// 评价写入时只打脏标记，这里统一重算平均分并回写 MySQL/Redis/ES
type PainterRatingJob struct {
	reviewRepo    repository.ReviewRepo
	painterRepo   repository.PainterRepo
	painterESRepo es.PainterRepo
}

func NewPainterRatingJob(
	reviewRepo repository.ReviewRepo,
	painterRepo repository.PainterRepo,
	painterESRepo es.PainterRepo,
) *PainterRatingJob {
	return &PainterRatingJob{
		reviewRepo:    reviewRepo,
		painterRepo:   painterRepo,
		painterESRepo: painterESRepo,
	}
}

func (s *PainterRatingJob) Run() {
	traceID := "job-rating-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.PainterRatingDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PainterRatingDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get rating dirty set error", "err", err)
		return
	}

	painterIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert rating set to int slice error", "err", err)
		return
	}

	for _, pid := range painterIDs {
		avg, count, err := s.reviewRepo.AggregateRating(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "aggregate rating error", "pid", pid, "err", err)
			continue
		}

		if err = s.painterRepo.UpdateRating(ctx, pid, avg, count); err != nil {
			log.ErrorContext(ctx, "update painter rating error", "pid", pid, "err", err)
			continue
		}

		ratingKey := consts.PainterRatingKey + strconv.FormatUint(pid, 10)
		if err = redis.SetValue(ctx, ratingKey, strconv.FormatFloat(avg, 'f', 2, 64)); err != nil {
			log.WarnContext(ctx, "cache painter rating error", "pid", pid, "err", err)
		}

		if err = s.painterESRepo.UpdatePainterRating(ctx, pid, avg, count); err != nil {
			log.ErrorContext(ctx, "sync painter rating to es error", "pid", pid, "err", err)
		}
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete rating processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync painter ratings success", "painter_count", len(painterIDs))
}

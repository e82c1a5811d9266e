package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"context"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[[2]uint64]*model.Review // (painterID, userID) -> review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[[2]uint64]*model.Review{}}
}

func (f *fakeReviewRepo) CreateReview(_ context.Context, review *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{review.PainterID, review.UserID}
	if _, ok := f.reviews[key]; ok {
		return &mysql.MySQLError{Number: 1062}
	}
	f.reviews[key] = review
	return nil
}

func (f *fakeReviewRepo) GetReviewByPair(_ context.Context, painterID, userID uint64) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviews[[2]uint64{painterID, userID}], nil
}

func (f *fakeReviewRepo) ListByPainter(context.Context, uint64, int, int) ([]*model.Review, int64, error) {
	return nil, 0, nil
}

func (f *fakeReviewRepo) UpdateReview(_ context.Context, review *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews[[2]uint64{review.PainterID, review.UserID}] = review
	return nil
}

func (f *fakeReviewRepo) DeleteReview(_ context.Context, painterID, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{painterID, userID}
	if _, ok := f.reviews[key]; !ok {
		return 0, nil
	}
	delete(f.reviews, key)
	return 1, nil
}

func (f *fakeReviewRepo) AggregateRating(context.Context, uint64) (float64, int, error) {
	return 0, 0, nil
}

type reviewFixture struct {
	reviewRepo *fakeReviewRepo
	producer   *fakeNotifyProducer
	svc        ReviewService
}

func newReviewFixture() *reviewFixture {
	painterRepo := &fakePainterRepo{painters: map[uint64]*model.Painter{
		1: {ID: 1, UserID: 10, Status: consts.PainterStatusApproved},
		2: {ID: 2, UserID: 11, Status: consts.PainterStatusPending},
	}}
	f := &reviewFixture{
		reviewRepo: newFakeReviewRepo(),
		producer:   &fakeNotifyProducer{},
	}
	f.svc = NewReviewService(f.reviewRepo, painterRepo, f.producer)
	return f
}

func TestCreateReview(t *testing.T) {
	f := newReviewFixture()
	body := &dto.ReviewCreateDTO{Rating: 5, Content: "交稿很快，质量很高"}

	err := f.svc.CreateReview(context.Background(), 20, 1, body)
	require.NoError(t, err)

	evt := f.producer.last()
	require.NotNil(t, evt)
	assert.Equal(t, uint64(10), evt.ReceiverID)
	assert.Equal(t, consts.NotifyTypeReview, evt.Type)

	// 同一学生重复评价同一画师，唯一键冲突归一为重复操作
	err = f.svc.CreateReview(context.Background(), 20, 1, body)
	assert.ErrorIs(t, err, ErrActionDuplicate)
}

func TestCreateReviewGuards(t *testing.T) {
	f := newReviewFixture()
	body := &dto.ReviewCreateDTO{Rating: 4, Content: "不错"}

	// 画师不能评价自己
	err := f.svc.CreateReview(context.Background(), 10, 1, body)
	assert.ErrorIs(t, err, ErrReviewSelf)

	// 未过审画师不可评价
	err = f.svc.CreateReview(context.Background(), 20, 2, body)
	assert.ErrorIs(t, err, ErrPainterNotApproved)

	// 不存在的画师仍按未找到处理
	err = f.svc.CreateReview(context.Background(), 20, 99, body)
	assert.ErrorIs(t, err, ErrPainterNotFound)
}

func TestUpdateReview(t *testing.T) {
	f := newReviewFixture()

	err := f.svc.UpdateReview(context.Background(), 20, 1, &dto.ReviewCreateDTO{Rating: 3, Content: "改"})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.NoError(t, f.svc.CreateReview(context.Background(), 20, 1, &dto.ReviewCreateDTO{Rating: 5, Content: "好"}))
	require.NoError(t, f.svc.UpdateReview(context.Background(), 20, 1, &dto.ReviewCreateDTO{Rating: 3, Content: "一般"}))

	stored, err := f.reviewRepo.GetReviewByPair(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), stored.Rating)
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture()

	err := f.svc.DeleteReview(context.Background(), 20, 1)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.NoError(t, f.svc.CreateReview(context.Background(), 20, 1, &dto.ReviewCreateDTO{Rating: 5, Content: "好"}))
	assert.NoError(t, f.svc.DeleteReview(context.Background(), 20, 1))
}

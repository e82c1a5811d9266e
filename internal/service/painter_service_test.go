package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/util"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoleRepo struct {
	mu      sync.Mutex
	granted map[uint64][]uint64
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{granted: map[uint64][]uint64{}}
}

func (f *fakeRoleRepo) GetRoleByName(context.Context, string) (*model.Role, error) { return nil, nil }

func (f *fakeRoleRepo) GetUserRoles(context.Context, uint64) ([]*model.Role, error) {
	return nil, nil
}

func (f *fakeRoleRepo) AddRoleToUser(_ context.Context, userID uint64, roleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted[userID] = append(f.granted[userID], roleID)
	return nil
}

func (f *fakeRoleRepo) DeleteRoleFromUser(context.Context, uint64, uint64) error { return nil }

type fakePainterES struct {
	mu       sync.Mutex
	indexed  map[uint64]*es.PainterES
	deleted  []uint64
	failure  error
	topCalls int
}

func newFakePainterES() *fakePainterES {
	return &fakePainterES{indexed: map[uint64]*es.PainterES{}}
}

func (f *fakePainterES) SearchPainters(context.Context, string, es.PainterSearchFilter, int, int) ([]*es.PainterES, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return nil, f.failure
	}
	return nil, nil
}

func (f *fakePainterES) GetTopRated(context.Context, int, int) ([]*es.PainterES, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topCalls++
	if f.failure != nil {
		return nil, f.failure
	}
	docs := make([]*es.PainterES, 0, len(f.indexed))
	for _, doc := range f.indexed {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakePainterES) IndexPainter(_ context.Context, painter *es.PainterES, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[painter.ID] = painter
	return nil
}

func (f *fakePainterES) DeletePainter(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePainterES) UpdatePainterRating(context.Context, uint64, float64, int) error {
	return nil
}

type painterFixture struct {
	painterRepo *fakePainterRepo
	roleRepo    *fakeRoleRepo
	convRepo    *fakeConvRepo
	esRepo      *fakePainterES
	producer    *fakeNotifyProducer
	svc         PainterService
}

func newPainterFixture() *painterFixture {
	f := &painterFixture{
		painterRepo: &fakePainterRepo{painters: map[uint64]*model.Painter{
			1: {ID: 1, UserID: 10, Status: consts.PainterStatusPending, Bio: "厚涂与赛璐璐", Level: "junior"},
			2: {ID: 2, UserID: 11, Status: consts.PainterStatusApproved},
		}},
		roleRepo: newFakeRoleRepo(),
		convRepo: newFakeConvRepo(),
		esRepo:   newFakePainterES(),
		producer: &fakeNotifyProducer{},
	}
	f.svc = NewPainterService(f.painterRepo, f.roleRepo, f.convRepo, f.esRepo, f.producer)
	return f
}

func TestModerateApprove(t *testing.T) {
	f := newPainterFixture()

	err := f.svc.Moderate(context.Background(), 1, &dto.PainterModerateDTO{Approve: true})
	require.NoError(t, err)

	assert.Equal(t, consts.PainterStatusApproved, f.painterRepo.painters[1].Status)
	assert.Contains(t, f.roleRepo.granted[10], consts.RolePainterID)
	assert.Contains(t, f.esRepo.indexed, uint64(1))

	evt := f.producer.last()
	require.NotNil(t, evt)
	assert.Equal(t, uint64(10), evt.ReceiverID)
	assert.Equal(t, consts.NotifyTypePainterApproved, evt.Type)
}

func TestModerateReject(t *testing.T) {
	f := newPainterFixture()
	reason := "作品集数量不足"

	err := f.svc.Moderate(context.Background(), 1, &dto.PainterModerateDTO{Approve: false, Reason: &reason})
	require.NoError(t, err)

	assert.Equal(t, consts.PainterStatusRejected, f.painterRepo.painters[1].Status)
	require.NotNil(t, f.painterRepo.rejectReason)
	assert.Equal(t, reason, *f.painterRepo.rejectReason)
	// 驳回不授予角色，也不写搜索索引
	assert.Empty(t, f.roleRepo.granted[10])
	assert.NotContains(t, f.esRepo.indexed, uint64(1))

	evt := f.producer.last()
	require.NotNil(t, evt)
	assert.Equal(t, consts.NotifyTypePainterRejected, evt.Type)
	assert.Contains(t, evt.Content, reason)
}

func TestModerateOnlyPending(t *testing.T) {
	f := newPainterFixture()

	err := f.svc.Moderate(context.Background(), 2, &dto.PainterModerateDTO{Approve: true})
	assert.ErrorIs(t, err, ErrPainterNotPending)

	err = f.svc.Moderate(context.Background(), 99, &dto.PainterModerateDTO{Approve: true})
	assert.ErrorIs(t, err, ErrPainterNotFound)
}

func TestGetPainterDetailVisibility(t *testing.T) {
	f := newPainterFixture()

	// 路人看不到未过审档案
	_, err := f.svc.GetPainterDetail(context.Background(), 1, 999, false)
	assert.ErrorIs(t, err, ErrPainterNotFound)

	// 本人可见
	detail, err := f.svc.GetPainterDetail(context.Background(), 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, consts.PainterStatusPending, detail.Status)

	// 管理员可见
	detail, err = f.svc.GetPainterDetail(context.Background(), 1, 999, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), detail.ID)

	// 过审档案对路人隐藏审核字段
	detail, err = f.svc.GetPainterDetail(context.Background(), 2, 999, false)
	require.NoError(t, err)
	assert.Empty(t, detail.Status)
}

func TestUpdateProfilePriceValidation(t *testing.T) {
	f := newPainterFixture()

	err := f.svc.UpdateProfile(context.Background(), 10, &dto.PainterUpdateDTO{
		PriceMin: util.PtrUint(500),
		PriceMax: util.PtrUint(100),
	})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestApplyStoresProfileFields(t *testing.T) {
	f := newPainterFixture()

	err := f.svc.Apply(context.Background(), 30, &dto.PainterApplyDTO{
		Bio:          "专攻古风立绘",
		Location:     "杭州",
		Availability: "工作日晚间",
		Level:        "senior",
		Styles:       []string{"古风"},
	})
	require.NoError(t, err)

	created := f.painterRepo.created
	require.NotNil(t, created)
	assert.Equal(t, "杭州", created.Location)
	assert.Equal(t, "工作日晚间", created.Availability)
	assert.Equal(t, consts.PainterStatusPending, created.Status)
}

func TestPainterDashboard(t *testing.T) {
	f := newPainterFixture()
	f.painterRepo.painters[2].Rating = 4.5
	f.painterRepo.painters[2].ReviewCount = 3
	f.painterRepo.painters[2].FavoriteCount = 7
	f.convRepo.convs[100] = &model.Conversation{ID: 100, PainterID: 2, PainterUserID: 11, StudentID: 20}
	f.convRepo.convs[101] = &model.Conversation{ID: 101, PainterID: 2, PainterUserID: 11, StudentID: 21}

	stats, err := f.svc.GetDashboard(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Favorites)
	assert.Equal(t, 3, stats.Reviews)
	assert.Equal(t, int64(2), stats.Conversations)
	assert.Equal(t, 4.5, stats.Rating)
	// Redis 不可达时浏览数按 0 兜底
	assert.Equal(t, int64(0), stats.Views)

	_, err = f.svc.GetDashboard(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPainterNotFound)
}

func TestSearchFallsBackToDBListing(t *testing.T) {
	f := newPainterFixture()
	f.esRepo.failure = errors.New("es unavailable")

	list, err := f.svc.Search(context.Background(), &dto.PainterSearchDTO{Keyword: "水彩"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(2), list[0].ID)
}

func TestSearchDefaultListingUsesTopRated(t *testing.T) {
	f := newPainterFixture()
	f.esRepo.indexed[2] = &es.PainterES{ID: 2, UserID: 11, Rating: 4.8}

	list, err := f.svc.Search(context.Background(), &dto.PainterSearchDTO{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(2), list[0].ID)
	assert.Equal(t, 1, f.esRepo.topCalls)
}

func TestSearchIndexFollowsBanLifecycle(t *testing.T) {
	f := newPainterFixture()
	f.esRepo.indexed[2] = &es.PainterES{ID: 2, UserID: 11}

	require.NoError(t, f.svc.DeindexByUser(context.Background(), 11))
	assert.Contains(t, f.esRepo.deleted, uint64(2))
	assert.NotContains(t, f.esRepo.indexed, uint64(2))

	// 解封后过审档案重新进索引
	require.NoError(t, f.svc.ReindexByUser(context.Background(), 11))
	assert.Contains(t, f.esRepo.indexed, uint64(2))

	// 未过审档案解封不进索引
	require.NoError(t, f.svc.ReindexByUser(context.Background(), 10))
	assert.NotContains(t, f.esRepo.indexed, uint64(1))
}

func TestDeletePortfolioImage(t *testing.T) {
	f := newPainterFixture()
	f.painterRepo.painters[1].Portfolio = []model.PortfolioImage{
		{ID: 7, PainterID: 1, URL: "2026/01/01/a.png"},
	}

	err := f.svc.DeletePortfolioImage(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Empty(t, f.painterRepo.painters[1].Portfolio)

	err = f.svc.DeletePortfolioImage(context.Background(), 10, 99)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

package service

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/mongo"
	atelierredis "Atelier/internal/pkg/redis"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Cfg = &config.Config{
		IM: config.IMConfig{
			TypingDebounceMs: 2000,
			TypingExpireMs:   3000,
		},
	}
	// 指向不可达地址：键入信号按约定尽力而为，连不上也不影响主流程
	atelierredis.Rdb = goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	os.Exit(m.Run())
}

type fakeConvRepo struct {
	mu        sync.Mutex
	convs     map[uint64]*model.Conversation
	pairConv  *model.Conversation
	createErr error
	created   *model.Conversation
	seq       uint64
	lastMsg   string
	pairCalls int
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: map[uint64]*model.Conversation{}}
}

func (f *fakeConvRepo) CreateConversation(_ context.Context, conv *model.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	conv.ID = uint64(len(f.convs) + 100)
	f.convs[conv.ID] = conv
	f.created = conv
	return nil
}

func (f *fakeConvRepo) GetConversation(_ context.Context, convID uint64) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.convs[convID], nil
}

func (f *fakeConvRepo) GetConversationByPair(_ context.Context, painterID, studentID uint64) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairCalls++
	// 首查未命中、冲突后回查命中，模拟并发创建竞态
	if f.createErr != nil && f.pairCalls == 1 {
		return nil, nil
	}
	return f.pairConv, nil
}

func (f *fakeConvRepo) IsParticipant(_ context.Context, convID uint64, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[convID]
	if !ok {
		return false, nil
	}
	return conv.PainterUserID == userID || conv.StudentID == userID, nil
}

func (f *fakeConvRepo) IncrMaxSeq(_ context.Context, convID uint64, lastMsg string, senderID uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.lastMsg = lastMsg
	if conv, ok := f.convs[convID]; ok {
		conv.MaxMsgSeq = f.seq
		conv.LastMsgContent = lastMsg
		conv.LastSenderID = senderID
	}
	return f.seq, nil
}

func (f *fakeConvRepo) ListForUser(_ context.Context, userID uint64) ([]*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Conversation
	for _, conv := range f.convs {
		if conv.PainterUserID == userID || conv.StudentID == userID {
			res = append(res, conv)
		}
	}
	return res, nil
}

func (f *fakeConvRepo) CountForPainter(_ context.Context, painterID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, conv := range f.convs {
		if conv.PainterID == painterID {
			n++
		}
	}
	return n, nil
}

type fakePainterRepo struct {
	painters     map[uint64]*model.Painter
	rejectReason *string
	created      *model.Painter
}

func (f *fakePainterRepo) CreatePainter(_ context.Context, painter *model.Painter, _ []string, _ []*model.PortfolioImage) error {
	painter.ID = uint64(len(f.painters) + 1)
	f.painters[painter.ID] = painter
	f.created = painter
	return nil
}

func (f *fakePainterRepo) GetPainterById(_ context.Context, id uint64) (*model.Painter, error) {
	return f.painters[id], nil
}

func (f *fakePainterRepo) GetPainterByUserId(_ context.Context, userID uint64) (*model.Painter, error) {
	for _, p := range f.painters {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePainterRepo) ListByStatus(_ context.Context, status string, _, _ int) ([]*model.Painter, int64, error) {
	var res []*model.Painter
	for _, p := range f.painters {
		if p.Status == status {
			res = append(res, p)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakePainterRepo) UpdateStatus(_ context.Context, id uint64, status string, rejectReason *string) (int64, error) {
	p, ok := f.painters[id]
	if !ok {
		return 0, nil
	}
	p.Status = status
	f.rejectReason = rejectReason
	return 1, nil
}

func (f *fakePainterRepo) UpdateProfile(context.Context, *model.Painter, []string) error {
	return nil
}

func (f *fakePainterRepo) UpdateRating(context.Context, uint64, float64, int) error { return nil }

func (f *fakePainterRepo) IncrFavoriteCount(context.Context, uint64, int) error { return nil }

func (f *fakePainterRepo) AddPortfolioImage(context.Context, *model.PortfolioImage) error { return nil }

func (f *fakePainterRepo) DeletePortfolioImage(_ context.Context, painterID, imageID uint64) (int64, error) {
	p, ok := f.painters[painterID]
	if !ok {
		return 0, nil
	}
	for i, img := range p.Portfolio {
		if img.ID == imageID {
			p.Portfolio = append(p.Portfolio[:i], p.Portfolio[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	saved     []*mongo.Message
	unread    int64
	markHits  int
	lastLimit int
}

func (f *fakeMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeMessageRepo) ListMessages(context.Context, uint64) ([]*mongo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mongo.Message(nil), f.saved...), nil
}

func (f *fakeMessageRepo) SyncMessages(_ context.Context, _ uint64, afterSeq uint64, limit int) ([]*mongo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	var res []*mongo.Message
	for _, m := range f.saved {
		if m.Seq > afterSeq {
			res = append(res, m)
		}
	}
	return res, nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, _ uint64, readerID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markHits++
	var modified int64
	for _, m := range f.saved {
		if m.SenderID != readerID && !m.Read {
			m.Read = true
			modified++
		}
	}
	return modified, nil
}

func (f *fakeMessageRepo) CountUnread(_ context.Context, _ uint64, readerID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.saved {
		if m.SenderID != readerID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeUserService struct{}

func (f *fakeUserService) Register(context.Context, *dto.RegisterDTO) error { return nil }

func (f *fakeUserService) Login(context.Context, *dto.CredentialDTO) (*dto.TokenDTO, error) {
	return nil, nil
}

func (f *fakeUserService) Logout(context.Context, string) error { return nil }

func (f *fakeUserService) GetUserInfo(context.Context, uint64) (*dto.UserDTO, error) {
	return nil, nil
}

func (f *fakeUserService) GetUserSimpleInfoByIds(_ context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	res := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		uid := id
		nickname := "测试用户"
		res = append(res, &dto.UserDTO{UserID: &uid, Nickname: &nickname})
	}
	return res, nil
}

func (f *fakeUserService) UpdateUserInfo(context.Context, uint64, *dto.UserDTO) error { return nil }

func (f *fakeUserService) UpdatePasswordFromOld(context.Context, uint64, *dto.ChangePasswordDTO) error {
	return nil
}

func (f *fakeUserService) UpdateAvatar(context.Context, uint64, string) error { return nil }

func (f *fakeUserService) BanUser(context.Context, uint64, uint64) error { return nil }

func (f *fakeUserService) UnBanUser(context.Context, uint64) error { return nil }

type fakeNotifyProducer struct {
	mu     sync.Mutex
	events []*kafka.NotifyEvent
}

func (f *fakeNotifyProducer) Send(_ context.Context, event *kafka.NotifyEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifyProducer) Close() error { return nil }

func (f *fakeNotifyProducer) last() *kafka.NotifyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

type imFixture struct {
	convRepo    *fakeConvRepo
	painterRepo *fakePainterRepo
	messageRepo *fakeMessageRepo
	producer    *fakeNotifyProducer
	svc         IMService
}

func newIMFixture(t *testing.T) *imFixture {
	t.Helper()
	f := &imFixture{
		convRepo: newFakeConvRepo(),
		painterRepo: &fakePainterRepo{painters: map[uint64]*model.Painter{
			1: {ID: 1, UserID: 10, Status: consts.PainterStatusApproved},
			2: {ID: 2, UserID: 11, Status: consts.PainterStatusPending},
		}},
		messageRepo: &fakeMessageRepo{},
		producer:    &fakeNotifyProducer{},
	}
	f.svc = NewIMService(f.convRepo, f.painterRepo, f.messageRepo, &fakeUserService{}, f.producer)
	t.Cleanup(f.svc.Close)
	return f
}

// 预置一个画师 10 与学生 20 的会话
func (f *imFixture) seedConversation() *model.Conversation {
	conv := &model.Conversation{
		ID:            100,
		PainterID:     1,
		PainterUserID: 10,
		StudentID:     20,
	}
	f.convRepo.convs[conv.ID] = conv
	return conv
}

func TestGetOrCreateConversation(t *testing.T) {
	t.Run("creates new conversation", func(t *testing.T) {
		f := newIMFixture(t)
		conv, err := f.svc.GetOrCreateConversation(context.Background(), 20, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), conv.PainterID)
		assert.Equal(t, uint64(10), conv.PeerID)
		assert.NotNil(t, f.convRepo.created)
	})

	t.Run("reuses existing conversation", func(t *testing.T) {
		f := newIMFixture(t)
		existing := f.seedConversation()
		f.convRepo.pairConv = existing

		conv, err := f.svc.GetOrCreateConversation(context.Background(), 20, 1)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, conv.ConversationID)
		assert.Nil(t, f.convRepo.created)
	})

	t.Run("rejects self conversation", func(t *testing.T) {
		f := newIMFixture(t)
		_, err := f.svc.GetOrCreateConversation(context.Background(), 10, 1)
		assert.ErrorIs(t, err, ErrConversationSelf)
	})

	t.Run("rejects unapproved painter", func(t *testing.T) {
		f := newIMFixture(t)
		_, err := f.svc.GetOrCreateConversation(context.Background(), 20, 2)
		assert.ErrorIs(t, err, ErrPainterNotFound)
	})

	t.Run("recovers from concurrent create", func(t *testing.T) {
		f := newIMFixture(t)
		winner := f.seedConversation()
		f.convRepo.createErr = &mysql.MySQLError{Number: 1062}
		f.convRepo.pairConv = winner

		conv, err := f.svc.GetOrCreateConversation(context.Background(), 20, 1)
		require.NoError(t, err)
		assert.Equal(t, winner.ID, conv.ConversationID)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("rejects empty body", func(t *testing.T) {
		f := newIMFixture(t)
		conv := f.seedConversation()
		_, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
			ConversationID: conv.ID,
		})
		assert.ErrorIs(t, err, ErrMessageEmpty)
	})

	t.Run("rejects non participant", func(t *testing.T) {
		f := newIMFixture(t)
		conv := f.seedConversation()
		_, err := f.svc.SendMessage(context.Background(), 99, &dto.SendMessageReq{
			ConversationID: conv.ID,
			Content:        "你好",
		})
		assert.ErrorIs(t, err, UnauthorizedError)
	})

	t.Run("assigns monotonic sequence", func(t *testing.T) {
		f := newIMFixture(t)
		conv := f.seedConversation()

		for i := 0; i < 3; i++ {
			msg, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
				ConversationID: conv.ID,
				Content:        "第几条",
			})
			require.NoError(t, err)
			assert.Equal(t, uint64(i+1), msg.Seq)
			assert.False(t, msg.Read)
		}
		assert.Len(t, f.messageRepo.saved, 3)
	})

	t.Run("notifies the receiver", func(t *testing.T) {
		f := newIMFixture(t)
		conv := f.seedConversation()

		_, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
			ConversationID: conv.ID,
			Content:        "在吗",
		})
		require.NoError(t, err)

		evt := f.producer.last()
		require.NotNil(t, evt)
		assert.Equal(t, uint64(10), evt.ReceiverID)
		assert.Equal(t, consts.NotifyTypeMessage, evt.Type)
	})

	t.Run("accepts attachment only message", func(t *testing.T) {
		f := newIMFixture(t)
		conv := f.seedConversation()

		msg, err := f.svc.SendMessage(context.Background(), 10, &dto.SendMessageReq{
			ConversationID: conv.ID,
			Attachment: &dto.AttachmentDTO{
				URL:  "2026/08/31/draft.png",
				Name: "draft.png",
			},
		})
		require.NoError(t, err)
		require.NotNil(t, msg.Attachment)
		assert.Equal(t, "[附件] draft.png", f.convRepo.lastMsg)
	})

	t.Run("creates conversation on first message", func(t *testing.T) {
		f := newIMFixture(t)
		msg, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
			PainterID: 1,
			Content:   "想约个稿",
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), msg.Seq)
		require.NotNil(t, f.convRepo.created)
		assert.Equal(t, uint64(20), f.convRepo.created.StudentID)
	})
}

func TestMarkAsRead(t *testing.T) {
	f := newIMFixture(t)
	conv := f.seedConversation()

	for i := 0; i < 2; i++ {
		_, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
			ConversationID: conv.ID,
			Content:        "未读消息",
		})
		require.NoError(t, err)
	}

	modified, err := f.svc.MarkAsRead(context.Background(), 10, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	// 幂等：重复标记不再产生变更
	modified, err = f.svc.MarkAsRead(context.Background(), 10, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)
}

func TestSyncMessages(t *testing.T) {
	f := newIMFixture(t)
	conv := f.seedConversation()

	for i := 0; i < 5; i++ {
		_, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
			ConversationID: conv.ID,
			Content:        "历史",
		})
		require.NoError(t, err)
	}

	msgs, err := f.svc.SyncMessages(context.Background(), 10, conv.ID, 3, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint64(4), msgs[0].Seq)
	assert.Equal(t, uint64(5), msgs[1].Seq)

	_, err = f.svc.SyncMessages(context.Background(), 99, conv.ID, 0, 50)
	assert.ErrorIs(t, err, UnauthorizedError)

	// 非法页长归一，不允许无上限拉取
	_, err = f.svc.SyncMessages(context.Background(), 10, conv.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, f.messageRepo.lastLimit)

	_, err = f.svc.SyncMessages(context.Background(), 10, conv.ID, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 200, f.messageRepo.lastLimit)
}

func TestConversationListUnread(t *testing.T) {
	f := newIMFixture(t)
	conv := f.seedConversation()

	_, err := f.svc.SendMessage(context.Background(), 20, &dto.SendMessageReq{
		ConversationID: conv.ID,
		Content:        "你好",
	})
	require.NoError(t, err)

	list, err := f.svc.GetConversationList(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].UnreadCount)
	assert.Equal(t, uint64(20), list[0].PeerID)
	assert.Equal(t, "测试用户", list[0].PeerNickname)

	// 发送方视角没有未读
	list, err = f.svc.GetConversationList(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(0), list[0].UnreadCount)
}

// 键入信号尽力而为：Redis 不可达时既不 panic 也不影响调用方
func TestTypingFailuresAreSwallowed(t *testing.T) {
	f := newIMFixture(t)
	conv := f.seedConversation()

	assert.NotPanics(t, func() {
		f.svc.SetTyping(context.Background(), 20, conv.ID)
		f.svc.ClearTyping(context.Background(), 20, conv.ID)
	})
}

package service

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// IMService 即时通讯服务接口定义
type IMService interface {
	GetOrCreateConversation(ctx context.Context, studentID, painterID uint64) (*dto.ConversationDTO, error)
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetChatHistory(ctx context.Context, userID uint64, convID uint64) ([]*dto.MessageDTO, error)
	SyncMessages(ctx context.Context, userID uint64, convID uint64, afterSeq uint64, pageSize int) ([]*dto.MessageDTO, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, convID uint64) (int64, error)
	SetTyping(ctx context.Context, userID uint64, convID uint64)
	ClearTyping(ctx context.Context, userID uint64, convID uint64)
	Close()
}

type imServiceImpl struct {
	convRepo       repository.ConversationRepo
	painterRepo    repository.PainterRepo
	messageRepo    mongo.MessageRepo
	userService    UserService
	notifyProducer kafka.NotifyProducer

	retryChan chan *mongo.Message
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

// NewIMService 构造函数：初始化服务并启动异步校准工作池
func NewIMService(
	convRepo repository.ConversationRepo,
	painterRepo repository.PainterRepo,
	messageRepo mongo.MessageRepo,
	userService UserService,
	notifyProducer kafka.NotifyProducer,
) IMService {
	s := &imServiceImpl{
		convRepo:       convRepo,
		painterRepo:    painterRepo,
		messageRepo:    messageRepo,
		userService:    userService,
		notifyProducer: notifyProducer,
		retryChan:      make(chan *mongo.Message, 2048),
		stopChan:       make(chan struct{}),
	}

	workerCount := 5
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.calibrationWorker()
	}

	return s
}

// GetOrCreateConversation 学生对画师发起会话，已存在则复用
// 并发创建依赖 (painter_id, student_id) 唯一索引兜底，冲突后回查
func (s *imServiceImpl) GetOrCreateConversation(ctx context.Context, studentID, painterID uint64) (*dto.ConversationDTO, error) {
	painter, err := s.painterRepo.GetPainterById(ctx, painterID)
	if err != nil {
		return nil, err
	}
	if painter == nil || painter.Status != consts.PainterStatusApproved {
		return nil, ErrPainterNotFound
	}
	if painter.UserID == studentID {
		return nil, ErrConversationSelf
	}

	conv, err := s.convRepo.GetConversationByPair(ctx, painterID, studentID)
	if err != nil {
		return nil, err
	}

	if conv == nil {
		newConv := &model.Conversation{
			PainterID:     painterID,
			PainterUserID: painter.UserID,
			StudentID:     studentID,
			LastMessageAt: time.Now(),
		}
		if err = s.convRepo.CreateConversation(ctx, newConv); err != nil {
			if !isDuplicateError(err) {
				return nil, err
			}
			// 对端并发创建成功，回查复用
			conv, err = s.convRepo.GetConversationByPair(ctx, painterID, studentID)
			if err != nil {
				return nil, err
			}
			if conv == nil {
				return nil, UnExpectedError
			}
		} else {
			conv = newConv
		}
	}

	return s.toConversationDTO(ctx, conv, studentID), nil
}

// SendMessage 发送消息
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	if req.Content == "" && req.Attachment == nil {
		return nil, ErrMessageEmpty
	}

	var conv *model.Conversation
	var err error

	if req.ConversationID == 0 {
		if req.PainterID == 0 {
			return nil, ErrParamInvalid
		}
		convDTO, err := s.GetOrCreateConversation(ctx, senderID, req.PainterID)
		if err != nil {
			return nil, err
		}
		req.ConversationID = convDTO.ConversationID
	}

	conv, err = s.convRepo.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if conv.PainterUserID != senderID && conv.StudentID != senderID {
		return nil, UnauthorizedError
	}

	preview := req.Content
	if preview == "" && req.Attachment != nil {
		preview = "[附件] " + req.Attachment.Name
	}

	// MySQL 原子定序
	newSeq, err := s.convRepo.IncrMaxSeq(ctx, conv.ID, preview, senderID)
	if err != nil {
		return nil, err
	}

	msgModel := &mongo.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
		Seq:            newSeq,
		CreatedAt:      time.Now(),
	}
	if req.Attachment != nil {
		msgModel.Attachment = &mongo.Attachment{
			URL:      req.Attachment.URL,
			MimeType: req.Attachment.MimeType,
			Name:     req.Attachment.Name,
		}
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err = s.messageRepo.SaveMessage(writeCtx, msgModel); err != nil {
		select {
		case s.retryChan <- msgModel:
		default:
		}
	}

	// 发送即清除键入状态
	s.ClearTyping(ctx, senderID, conv.ID)

	msgDTO := s.toMessageDTO(msgModel)
	_ = s.publishToConversation(context.Background(), conv.ID, &dto.MessagePushDTO{
		Type:    consts.EventMessageNew,
		Message: msgDTO,
	})

	receiverID := conv.StudentID
	if senderID == conv.StudentID {
		receiverID = conv.PainterUserID
	}
	s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       consts.NotifyTypeMessage,
		Title:      "收到新消息",
		Content:    preview,
		Link:       "/messages/" + strconv.FormatUint(conv.ID, 10),
	})

	return msgDTO, nil
}

// GetChatHistory 拉取会话全部历史，按序列号升序
func (s *imServiceImpl) GetChatHistory(ctx context.Context, userID uint64, convID uint64) ([]*dto.MessageDTO, error) {
	if err := s.checkParticipant(ctx, convID, userID); err != nil {
		return nil, err
	}

	models, err := s.messageRepo.ListMessages(ctx, convID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

// SyncMessages 增量拉取，用于断线重连后的补偿
func (s *imServiceImpl) SyncMessages(ctx context.Context, userID uint64, convID uint64, afterSeq uint64, pageSize int) ([]*dto.MessageDTO, error) {
	if err := s.checkParticipant(ctx, convID, userID); err != nil {
		return nil, err
	}

	// 非法页长归一，不允许无上限拉取
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	models, err := s.messageRepo.SyncMessages(ctx, convID, afterSeq, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

// GetConversationList 获取会话列表，按最近消息倒序
func (s *imServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	convs, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(convs))
	for _, conv := range convs {
		res = append(res, s.toConversationDTO(ctx, conv, userID))
	}
	return res, nil
}

// MarkAsRead 将对方发来的未读消息批量置为已读，幂等
// 返回本次实际置位的条数，大于零时向对端推送已读回执
func (s *imServiceImpl) MarkAsRead(ctx context.Context, userID uint64, convID uint64) (int64, error) {
	if err := s.checkParticipant(ctx, convID, userID); err != nil {
		return 0, err
	}

	modified, err := s.messageRepo.MarkConversationRead(ctx, convID, userID)
	if err != nil {
		return 0, err
	}

	if modified > 0 {
		go func() {
			receipt := &dto.ReadReceiptDTO{
				Type:           consts.EventReadReceipt,
				ConversationID: convID,
				UserID:         userID,
				ReadCount:      modified,
			}
			pubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.publishToConversation(pubCtx, convID, receipt); err != nil {
				log.Error("Failed to publish read receipt", "err", err)
			}
		}()
	}

	return modified, nil
}

// SetTyping 上报键入状态，尽力而为：任何失败都不影响主流程
func (s *imServiceImpl) SetTyping(ctx context.Context, userID uint64, convID uint64) {
	expire := time.Duration(config.Cfg.IM.TypingExpireMs) * time.Millisecond
	key := typingKey(convID, userID)

	if err := redis.SetWithExpiration(ctx, key, 1, expire); err != nil {
		log.WarnContext(ctx, "set typing error", "convID", convID, "err", err)
		return
	}

	_ = s.publishToConversation(ctx, convID, &dto.TypingEventDTO{
		Type:           consts.EventTyping,
		ConversationID: convID,
		UserID:         userID,
		Typing:         true,
	})
}

// ClearTyping 清除键入状态，键不存在也不算失败
func (s *imServiceImpl) ClearTyping(ctx context.Context, userID uint64, convID uint64) {
	key := typingKey(convID, userID)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "clear typing error", "convID", convID, "err", err)
		return
	}

	_ = s.publishToConversation(ctx, convID, &dto.TypingEventDTO{
		Type:           consts.EventTyping,
		ConversationID: convID,
		UserID:         userID,
		Typing:         false,
	})
}

func (s *imServiceImpl) Close() {
	close(s.stopChan)
	s.wg.Wait()
	log.Info("IMService shut down gracefully")
}

func (s *imServiceImpl) checkParticipant(ctx context.Context, convID, userID uint64) error {
	isParticipant, err := s.convRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return UnauthorizedError
	}
	return nil
}

// publishToConversation 推送到会话频道，双方订阅同一频道自行过滤
func (s *imServiceImpl) publishToConversation(ctx context.Context, convID uint64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	channel := consts.IMConversationKey + strconv.FormatUint(convID, 10)
	return redis.Publish(ctx, channel, data)
}

func (s *imServiceImpl) calibrationWorker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.retryChan:
			backoff := time.Second
			for i := 0; i < 3; i++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := s.messageRepo.SaveMessage(ctx, msg)
				cancel()
				if err == nil {
					break
				}
				time.Sleep(backoff)
				backoff *= 2
			}
		case <-s.stopChan:
			return
		}
	}
}

func (s *imServiceImpl) toConversationDTO(ctx context.Context, conv *model.Conversation, userID uint64) *dto.ConversationDTO {
	peerID := conv.StudentID
	if userID == conv.StudentID {
		peerID = conv.PainterUserID
	}

	d := &dto.ConversationDTO{
		ConversationID: conv.ID,
		PainterID:      conv.PainterID,
		PeerID:         peerID,
		LastMsgContent: conv.LastMsgContent,
		LastSenderID:   conv.LastSenderID,
		LastMessageAt:  conv.LastMessageAt,
	}

	unread, err := s.messageRepo.CountUnread(ctx, conv.ID, userID)
	if err == nil {
		d.UnreadCount = unread
	}

	peers, err := s.userService.GetUserSimpleInfoByIds(ctx, []uint64{peerID})
	if err == nil && len(peers) > 0 {
		if peers[0].Nickname != nil {
			d.PeerNickname = *peers[0].Nickname
		}
		if peers[0].AvatarURL != nil {
			d.PeerAvatarURL = *peers[0].AvatarURL
		}
	}

	return d
}

func (s *imServiceImpl) toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	d := &dto.MessageDTO{
		ID:             m.ID.Hex(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Read:           m.Read,
		Seq:            m.Seq,
		CreatedAt:      m.CreatedAt,
	}
	if m.Attachment != nil {
		d.Attachment = &dto.AttachmentDTO{
			URL:      m.Attachment.URL,
			MimeType: m.Attachment.MimeType,
			Name:     m.Attachment.Name,
		}
	}
	return d
}

func typingKey(convID, userID uint64) string {
	return consts.IMTypingKey + strconv.FormatUint(convID, 10) + ":" + strconv.FormatUint(userID, 10)
}

package handler

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/security"
	"Atelier/internal/pkg/typing"
	"Atelier/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// 客户端上行帧类型
const (
	frameKeystroke  = "KEYSTROKE"   // 输入框有键入
	frameTypingStop = "TYPING_STOP" // 显式停止键入（清空输入框等）
)

type wsClientFrame struct {
	Type           string `json:"type"`
	ConversationID uint64 `json:"conversation_id"`
}

type WsHandler struct {
	imService service.IMService
}

func NewWsHandler(im service.IMService) *WsHandler {
	return &WsHandler{imService: im}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 获取用户参与的所有会话，订阅 Redis 频道
	list, err := s.imService.GetConversationList(context.Background(), userID)
	if err != nil {
		log.Error("获取会话列表失败", "userID", userID, "err", err)
		return
	}

	allowed := make(map[uint64]bool, len(list))
	var channels []string
	for _, conv := range list {
		allowed[conv.ConversationID] = true
		channels = append(channels, consts.IMConversationKey+strconv.FormatUint(conv.ConversationID, 10))
	}

	// 订阅 Redis 总线
	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	debounceWindow := time.Duration(config.Cfg.IM.TypingDebounceMs) * time.Millisecond
	expireWindow := time.Duration(config.Cfg.IM.TypingExpireMs) * time.Millisecond

	stopChan := make(chan struct{})
	sendChan := make(chan []byte, 64)

	// 读循环：处理客户端键入帧，断开时关闭 stopChan
	// 防抖器确保首次键入上报一次，空闲窗口到期自动清除
	go func() {
		debouncers := make(map[uint64]*typing.Debouncer)
		defer func() {
			for _, d := range debouncers {
				d.Stop()
			}
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}

			var frame wsClientFrame
			if err = json.Unmarshal(data, &frame); err != nil {
				continue
			}
			if !allowed[frame.ConversationID] {
				continue
			}

			switch frame.Type {
			case frameKeystroke:
				d, ok := debouncers[frame.ConversationID]
				if !ok {
					convID := frame.ConversationID
					d = typing.NewDebouncer(debounceWindow,
						func() { s.imService.SetTyping(context.Background(), userID, convID) },
						func() { s.imService.ClearTyping(context.Background(), userID, convID) },
					)
					debouncers[convID] = d
				}
				d.Touch()
			case frameTypingStop:
				if d, ok := debouncers[frame.ConversationID]; ok {
					d.Flush()
				}
			}
		}
	}()

	// 对端键入指示的兜底消隐：清除事件丢失时到期自动下发 typing=false
	watchers := make(map[uint64]*typing.Watcher)
	defer func() {
		for _, w := range watchers {
			w.Close()
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			s.watchTypingEvent(watchers, []byte(msg.Payload), userID, expireWindow, sendChan)
			if !writeFrame(conn, []byte(msg.Payload)) {
				log.Error("WS 推送失败", "userID", userID)
				return
			}
		case frame := <-sendChan:
			if !writeFrame(conn, frame) {
				log.Error("WS 推送失败", "userID", userID)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}

// watchTypingEvent 跟踪对端键入事件，驱动消隐计时器
func (s *WsHandler) watchTypingEvent(watchers map[uint64]*typing.Watcher, payload []byte, selfID uint64, expireWindow time.Duration, sendChan chan []byte) {
	var evt struct {
		Type           string `json:"type"`
		ConversationID uint64 `json:"conversation_id"`
		UserID         uint64 `json:"user_id"`
		Typing         bool   `json:"typing"`
	}
	if err := json.Unmarshal(payload, &evt); err != nil {
		return
	}
	if evt.Type != consts.EventTyping || evt.UserID == selfID {
		return
	}

	w, ok := watchers[evt.ConversationID]
	if !ok {
		convID := evt.ConversationID
		w = typing.NewWatcher(expireWindow, nil, func(uid uint64) {
			hide, err := json.Marshal(map[string]interface{}{
				"type":            consts.EventTyping,
				"conversation_id": convID,
				"user_id":         uid,
				"typing":          false,
			})
			if err != nil {
				return
			}
			select {
			case sendChan <- hide:
			default:
			}
		})
		watchers[convID] = w
	}

	if evt.Typing {
		w.Refresh(evt.UserID)
	} else {
		w.Clear(evt.UserID)
	}
}

func writeFrame(conn *websocket.Conn, payload []byte) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload) == nil
}

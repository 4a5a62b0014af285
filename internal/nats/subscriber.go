package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	apperrors "sudooom.mahjong/pkg/errors"
	subjects "sudooom.mahjong/pkg/subjects"
)

// MoveHandler 操作处理器接口
type MoveHandler interface {
	Submit(ctx context.Context, gameID string, seat int, m mahjong.Move) ([]round.Event, error)
}

// MoveRequest 客户端通过 NATS 提交的操作
type MoveRequest struct {
	Seat int          `json:"seat"`
	Move mahjong.Move `json:"move"`
}

// MoveReply 请求-应答模式下的回复, 与 HTTP 响应格式一致
type MoveReply struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    []round.Event `json:"data,omitempty"`
}

// SubscriberConfig Worker Pool 配置
type SubscriberConfig struct {
	WorkerCount int `mapstructure:"worker_count"` // Worker 数量
	BufferSize  int `mapstructure:"buffer_size"`  // 消息缓冲区大小
}

// MoveSubscriber 操作订阅器
type MoveSubscriber struct {
	nc           *nats.Conn
	handler      MoveHandler
	logger       *slog.Logger
	subscription *nats.Subscription
	config       SubscriberConfig
	msgChan      chan *nats.Msg
	wg           sync.WaitGroup
	cancelFunc   context.CancelFunc
}

// NewMoveSubscriber 创建操作订阅器
func NewMoveSubscriber(nc *nats.Conn, handler MoveHandler, config SubscriberConfig) *MoveSubscriber {
	// 设置默认值
	if config.WorkerCount <= 0 {
		config.WorkerCount = 16
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}

	return &MoveSubscriber{
		nc:      nc,
		handler: handler,
		logger:  slog.Default(),
		config:  config,
	}
}

// Start 启动订阅
func (s *MoveSubscriber) Start(ctx context.Context) error {
	s.msgChan = make(chan *nats.Msg, s.config.BufferSize)

	workerCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(workerCtx)
	}

	// 使用队列组, 多个实例只有一个处理同一条操作
	sub, err := s.nc.QueueSubscribe(subjects.SubjectAllMoves, subjects.QueueGroupMahjong, func(msg *nats.Msg) {
		select {
		case s.msgChan <- msg:
		default:
			s.logger.Warn("Move buffer full, dropping message", "bufferSize", s.config.BufferSize, "subject", msg.Subject)
			s.reply(msg, apperrors.ErrTooManyRequest, nil)
		}
	})
	if err != nil {
		cancel()
		return err
	}

	s.subscription = sub
	s.logger.Info("NATS move subscriber started",
		"subject", subjects.SubjectAllMoves,
		"workerCount", s.config.WorkerCount,
		"bufferSize", s.config.BufferSize,
	)
	return nil
}

func (s *MoveSubscriber) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.msgChan:
			if !ok {
				return
			}
			s.handleMove(ctx, msg)
		}
	}
}

func (s *MoveSubscriber) handleMove(ctx context.Context, msg *nats.Msg) {
	gameID, ok := subjects.ParseTableID(msg.Subject)
	if !ok {
		s.reply(msg, apperrors.ErrInvalidParams, nil)
		return
	}

	var req MoveRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Error("Failed to unmarshal move", "subject", msg.Subject, "error", err)
		s.reply(msg, apperrors.ErrInvalidParams.Wrap(err), nil)
		return
	}

	events, err := s.handler.Submit(ctx, gameID, req.Seat, req.Move)
	if err != nil {
		s.logger.Debug("Move rejected", "gameId", gameID, "seat", req.Seat, "move", req.Move.String(), "error", err)
	}
	s.reply(msg, err, events)
}

// reply 请求带有 Reply Subject 时回复处理结果
func (s *MoveSubscriber) reply(msg *nats.Msg, err error, events []round.Event) {
	if msg.Reply == "" {
		return
	}
	r := MoveReply{Code: apperrors.CodeSuccess, Message: "success", Data: events}
	if err != nil {
		r = MoveReply{Code: apperrors.GetCode(err), Message: apperrors.GetMessage(err)}
	}
	data, _ := json.Marshal(r)
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("Failed to reply move", "subject", msg.Subject, "error", err)
	}
}

// Stop 停止订阅
func (s *MoveSubscriber) Stop() error {
	if s.subscription != nil {
		if err := s.subscription.Unsubscribe(); err != nil {
			s.logger.Error("Failed to unsubscribe", "error", err)
		}
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	// 等待所有 worker 完成
	s.wg.Wait()

	s.logger.Info("NATS move subscriber stopped")
	return nil
}

// GetBufferUsage 获取缓冲区使用情况（用于监控）
func (s *MoveSubscriber) GetBufferUsage() (current int, capacity int) {
	if s.msgChan == nil {
		return 0, 0
	}
	return len(s.msgChan), cap(s.msgChan)
}

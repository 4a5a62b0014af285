package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong/round"
	subjects "sudooom.mahjong/pkg/subjects"
)

// EventBatch 一次推送的事件
type EventBatch struct {
	GameID string        `json:"gameId"`
	Seat   *int          `json:"seat,omitempty"` // 座位私有推送时为该座位
	Events []round.Event `json:"events"`
}

// EventPublisher 对局事件发布器
// 公开 Subject 上摸牌与发牌事件的牌面被隐去, 完整事件只发到对应座位的 Subject
type EventPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

var _ game.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布器
func NewEventPublisher(nc *nats.Conn) *EventPublisher {
	return &EventPublisher{
		nc:     nc,
		logger: slog.Default(),
	}
}

// Publish 推送一批事件
func (p *EventPublisher) Publish(ctx context.Context, gameID string, events []round.Event) error {
	if len(events) == 0 {
		return nil
	}
	public, private := SplitEvents(events)

	if err := p.publish(subjects.BuildTableEventsSubject(gameID), EventBatch{GameID: gameID, Events: public}); err != nil {
		return err
	}
	for seat, evs := range private {
		seat := seat
		if err := p.publish(subjects.BuildSeatSubject(gameID, seat), EventBatch{GameID: gameID, Seat: &seat, Events: evs}); err != nil {
			return err
		}
	}

	p.logger.Debug("Published events", "gameId", gameID, "count", len(events))
	return nil
}

func (p *EventPublisher) publish(subject string, batch EventBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		p.logger.Error("Failed to marshal events", "error", err)
		return err
	}
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish events", "subject", subject, "error", err)
		return err
	}
	return nil
}

// SplitEvents 公开事件 (私有事件去掉牌面) 与按座位归类的私有事件
func SplitEvents(events []round.Event) ([]round.Event, map[int][]round.Event) {
	public := make([]round.Event, 0, len(events))
	private := make(map[int][]round.Event)
	for _, e := range events {
		if e.Private() {
			private[e.Seat] = append(private[e.Seat], e)
			e.Tile = nil
		}
		public = append(public, e)
	}
	return public, private
}

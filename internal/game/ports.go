package game

import (
	"context"
	"time"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/model"
	"sudooom.mahjong/internal/task"
)

// EventPublisher 对局事件推送
type EventPublisher interface {
	Publish(ctx context.Context, gameID string, events []round.Event) error
}

// SnapshotStore 牌桌快照存储
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, gameID string) (*Snapshot, error) // 不存在时返回 ErrSnapshotNotFound
	Delete(ctx context.Context, gameID string) error
}

// SnapshotLister 可以按保存时间列举牌桌的存储
type SnapshotLister interface {
	Recent(ctx context.Context, limit int64) ([]string, error)
}

// HandRecorder 一局结束后的记录
type HandRecorder interface {
	RecordHand(ctx context.Context, rec *model.HandRecord) error
}

// Scheduler 延时任务调度
type Scheduler interface {
	Schedule(t *task.Task) error
	Cancel(taskID string) bool
}

// Snapshot 一桌的完整状态
type Snapshot struct {
	GameID    string            `json:"gameId"`
	GameType  mahjong.GameType  `json:"gameType"`
	Seats     []SeatKind        `json:"seats"`
	Session   *round.Session    `json:"session"`
	State     *round.RoundState `json:"state"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

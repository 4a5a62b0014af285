package task

import (
	"context"
	"time"
)

// Func 任务执行函数
type Func func(ctx context.Context) error

// Kind 任务类型
type Kind string

const (
	KindBotMove         Kind = "bot_move"         // 机器人延时出牌
	KindReactionTimeout Kind = "reaction_timeout" // 响应超时自动过
)

// Task 延时任务
// 同一个 ID 只保留最后一次调度, 旧的会被替换
type Task struct {
	ID        string        `json:"id"`
	Target    string        `json:"target"` // 桌号, 同一桌的任务按调度顺序串行执行
	Kind      Kind          `json:"kind"`
	Delay     time.Duration `json:"delay"`
	Fn        Func          `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewTask 创建任务
func NewTask(id, target string, delay time.Duration, fn Func) *Task {
	return &Task{
		ID:        id,
		Target:    target,
		Delay:     delay,
		Fn:        fn,
		CreatedAt: time.Now(),
	}
}

// WithKind 设置任务类型
func (t *Task) WithKind(kind Kind) *Task {
	t.Kind = kind
	return t
}

// Execute 执行任务
func (t *Task) Execute(ctx context.Context) error {
	if t.Fn == nil {
		return nil
	}
	return t.Fn(ctx)
}

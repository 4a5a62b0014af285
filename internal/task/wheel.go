package task

import (
	"sync"
	"time"
)

const (
	// DefaultTick 默认刻度
	DefaultTick = 100 * time.Millisecond
	// DefaultSlotCount 默认槽位数, 与默认刻度合起来覆盖 60 秒
	DefaultSlotCount = 600
)

// TimeWheel 单层时间轮, 超出一圈的延时按一圈减一格处理
type TimeWheel struct {
	slots   []*Slot
	tick    time.Duration
	current int
	index   map[string]int // taskID -> 槽位
	mu      sync.Mutex
	ticker  *time.Ticker
}

// NewTimeWheel 创建时间轮, 非正数参数使用默认值
func NewTimeWheel(slotCount int, tick time.Duration) *TimeWheel {
	if slotCount <= 1 {
		slotCount = DefaultSlotCount
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	tw := &TimeWheel{
		slots: make([]*Slot, slotCount),
		tick:  tick,
		index: make(map[string]int),
	}
	for i := range tw.slots {
		tw.slots[i] = NewSlot()
	}
	return tw
}

// Ticks 延时折算成的格数, 至少 1 格
func (tw *TimeWheel) Ticks(delay time.Duration) int {
	n := int((delay + tw.tick - 1) / tw.tick)
	if n < 1 {
		n = 1
	}
	if n > len(tw.slots)-1 {
		n = len(tw.slots) - 1
	}
	return n
}

// AddTask 加入任务; 同 ID 的任务已在轮上时先移除
func (tw *TimeWheel) AddTask(task *Task) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if old, ok := tw.index[task.ID]; ok {
		tw.slots[old].RemoveTask(task.ID)
	}
	target := (tw.current + tw.Ticks(task.Delay)) % len(tw.slots)
	tw.slots[target].AddTask(task)
	tw.index[task.ID] = target
}

// RemoveTask 按 ID 移除任务
func (tw *TimeWheel) RemoveTask(taskID string) bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	slot, ok := tw.index[taskID]
	if !ok {
		return false
	}
	delete(tw.index, taskID)
	return tw.slots[slot].RemoveTask(taskID)
}

// Tick 前进一格并取出到期的任务
func (tw *TimeWheel) Tick() []*Task {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.current = (tw.current + 1) % len(tw.slots)
	tasks := tw.slots[tw.current].GetAndClear()
	for _, t := range tasks {
		delete(tw.index, t.ID)
	}
	return tasks
}

// CurrentSlot 当前槽位
func (tw *TimeWheel) CurrentSlot() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	return tw.current
}

// TotalTaskCount 轮上的任务总数
func (tw *TimeWheel) TotalTaskCount() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	return len(tw.index)
}

// TickDuration 刻度
func (tw *TimeWheel) TickDuration() time.Duration {
	return tw.tick
}

func (tw *TimeWheel) start() <-chan time.Time {
	tw.ticker = time.NewTicker(tw.tick)
	return tw.ticker.C
}

func (tw *TimeWheel) stop() {
	if tw.ticker != nil {
		tw.ticker.Stop()
	}
}

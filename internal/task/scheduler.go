// Package task 桌面定时任务: 机器人延时出牌, 响应超时自动过, 空闲桌清理
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config 调度器参数
type Config struct {
	Workers int           `mapstructure:"workers"`
	Tick    time.Duration `mapstructure:"tick"`
	Slots   int           `mapstructure:"slots"`
}

// Scheduler 时间轮 + 工作协程池
type Scheduler struct {
	wheel      *TimeWheel
	workerPool *WorkerPool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
	running    bool
	runningMu  sync.RWMutex
}

// NewScheduler 创建调度器
func NewScheduler(cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		wheel:      NewTimeWheel(cfg.Slots, cfg.Tick),
		workerPool: NewWorkerPool(cfg.Workers),
		ctx:        ctx,
		cancel:     cancel,
		logger:     slog.Default(),
	}
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return fmt.Errorf("调度器已经在运行中")
	}
	s.running = true

	s.workerPool.Start()
	ticks := s.wheel.start()
	s.wg.Add(1)
	go s.tickLoop(ticks)

	s.logger.Info("任务调度器已启动", "tick", s.wheel.TickDuration())
	return nil
}

func (s *Scheduler) tickLoop(ticks <-chan time.Time) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticks:
			s.onTick()
		}
	}
}

func (s *Scheduler) onTick() {
	tasks := s.wheel.Tick()
	if len(tasks) == 0 {
		return
	}
	s.logger.Debug("时钟触发", "slot", s.wheel.CurrentSlot(), "taskCount", len(tasks))
	s.workerPool.SubmitBatch(tasks)
}

// Stop 停止调度器, 还在轮上的任务不再执行
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	if !s.running {
		s.runningMu.Unlock()
		return
	}
	s.running = false
	s.runningMu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.wheel.stop()
	s.workerPool.Stop()
	s.logger.Info("任务调度器已停止")
}

// Schedule 调度任务; 同 ID 的任务已在轮上时被替换
func (s *Scheduler) Schedule(task *Task) error {
	s.runningMu.RLock()
	defer s.runningMu.RUnlock()

	if !s.running {
		return fmt.Errorf("调度器未运行")
	}
	if task == nil || task.ID == "" {
		return fmt.Errorf("任务ID不能为空")
	}
	s.wheel.AddTask(task)
	s.logger.Debug("添加任务", "taskID", task.ID, "tableID", task.Target, "kind", task.Kind, "delay", task.Delay)
	return nil
}

// Cancel 取消任务, 任务不存在或已出轮时返回 false
func (s *Scheduler) Cancel(taskID string) bool {
	return s.wheel.RemoveTask(taskID)
}

// IsRunning 是否运行中
func (s *Scheduler) IsRunning() bool {
	s.runningMu.RLock()
	defer s.runningMu.RUnlock()

	return s.running
}

// Stats 统计信息
func (s *Scheduler) Stats() map[string]any {
	return map[string]any{
		"running":     s.IsRunning(),
		"currentSlot": s.wheel.CurrentSlot(),
		"taskCount":   s.wheel.TotalTaskCount(),
		"workerCount": s.workerPool.workerCount,
		"tick":        s.wheel.TickDuration().String(),
	}
}

package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// WorkerPool 按 Target 分片的工作协程池, 同一桌的任务总是落在同一个协程上
type WorkerPool struct {
	workerCount int
	queues      []chan *Task
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	logger      *slog.Logger
}

// NewWorkerPool 创建工作协程池
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 8
	}
	ctx, cancel := context.WithCancel(context.Background())
	queues := make([]chan *Task, workerCount)
	for i := range queues {
		queues[i] = make(chan *Task, 64)
	}
	return &WorkerPool{
		workerCount: workerCount,
		queues:      queues,
		ctx:         ctx,
		cancel:      cancel,
		logger:      slog.Default(),
	}
}

// Start 启动工作协程
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("工作协程池已启动", "workerCount", wp.workerCount)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task := <-wp.queues[id]:
			if task != nil {
				wp.executeTask(id, task)
			}
		}
	}
}

func (wp *WorkerPool) executeTask(workerID int, task *Task) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("任务执行 panic",
				"workerID", workerID,
				"taskID", task.ID,
				"tableID", task.Target,
				"panic", r)
		}
	}()

	if err := task.Execute(wp.ctx); err != nil {
		wp.logger.Warn("任务执行失败",
			"taskID", task.ID,
			"tableID", task.Target,
			"kind", task.Kind,
			"error", err)
	}
}

// shard 任务所在的协程
func (wp *WorkerPool) shard(target string) int {
	return int(xxhash.Sum64String(target) % uint64(wp.workerCount))
}

// Submit 提交任务, 队列满时阻塞直到有空位或协程池关闭
func (wp *WorkerPool) Submit(task *Task) {
	q := wp.queues[wp.shard(task.Target)]
	select {
	case q <- task:
		return
	default:
	}
	wp.logger.Warn("任务队列已满, 任务可能延迟执行", "taskID", task.ID, "tableID", task.Target)
	select {
	case q <- task:
	case <-wp.ctx.Done():
	}
}

// SubmitBatch 批量提交
func (wp *WorkerPool) SubmitBatch(tasks []*Task) {
	for _, task := range tasks {
		wp.Submit(task)
	}
}

// Stop 停止工作协程, 队列里未执行的任务被丢弃
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
	wp.logger.Info("工作协程池已停止")
}

package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/model"
)

// BatchSender 批量执行 SQL, *pgxpool.Pool 满足该接口
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// HandBatcherConfig 批量写入配置
type HandBatcherConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`     // 批量大小阈值 (按局计)
	FlushInterval time.Duration `mapstructure:"flush_interval"` // 强制刷新间隔
}

// HandBatcher 对局记录批量写入器
// 一局结束时只入队, 不等数据库写入, 牌桌的推进不被数据库拖慢
type HandBatcher struct {
	db       BatchSender
	config   HandBatcherConfig
	recChan  chan *model.HandRecord
	logger   *slog.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

var _ game.HandRecorder = (*HandBatcher)(nil)

const (
	insertHandSQL = `
		INSERT INTO hands (id, game_id, game_type, hand_no, dealer, round_wind, exhausted, winners, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, hand_no) DO NOTHING
	`
	// 对应的 hands 行因重复局号被忽略时, 座位结果也跳过
	insertPlayerSQL = `
		INSERT INTO hand_players (hand_id, seat, kind, delta, score, won)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM hands WHERE id = $1)
		ON CONFLICT (hand_id, seat) DO NOTHING
	`
)

// NewHandBatcher 创建对局记录批量写入器
func NewHandBatcher(db BatchSender, config HandBatcherConfig) *HandBatcher {
	// 设置默认值
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}

	return &HandBatcher{
		db:       db,
		config:   config,
		recChan:  make(chan *model.HandRecord, config.BatchSize*10),
		logger:   slog.Default(),
		stopChan: make(chan struct{}),
	}
}

// Start 启动批量写入器
func (b *HandBatcher) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.worker(ctx)
	b.logger.Info("HandBatcher started",
		"batchSize", b.config.BatchSize,
		"flushInterval", b.config.FlushInterval,
	)
}

// Stop 停止批量写入器, 刷入剩余记录
func (b *HandBatcher) Stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()
	b.logger.Info("HandBatcher stopped")
}

// RecordHand 异步保存一局记录, 队列满时等待
func (b *HandBatcher) RecordHand(ctx context.Context, rec *model.HandRecord) error {
	select {
	case b.recChan <- rec:
		return nil
	default:
	}

	b.logger.Warn("Hand batch queue full, waiting...", "gameId", rec.GameID)
	select {
	case b.recChan <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker 后台工作协程
func (b *HandBatcher) worker(ctx context.Context) {
	defer b.wg.Done()

	batch := make([]*model.HandRecord, 0, b.config.BatchSize)
	ticker := time.NewTicker(b.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.flush(context.Background(), b.drain(batch))
			return
		case <-b.stopChan:
			b.flush(context.Background(), b.drain(batch))
			return
		case rec := <-b.recChan:
			batch = append(batch, rec)
			if len(batch) >= b.config.BatchSize {
				b.flush(ctx, batch)
				batch = make([]*model.HandRecord, 0, b.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = make([]*model.HandRecord, 0, b.config.BatchSize)
			}
		}
	}
}

// drain 取出队列里剩余的记录
func (b *HandBatcher) drain(batch []*model.HandRecord) []*model.HandRecord {
	for {
		select {
		case rec := <-b.recChan:
			batch = append(batch, rec)
		default:
			return batch
		}
	}
}

// flush 批量写入数据库
func (b *HandBatcher) flush(ctx context.Context, batch []*model.HandRecord) {
	if len(batch) == 0 {
		return
	}

	startTime := time.Now()

	// 使用 pgx.Batch 批量插入
	pgBatch := &pgx.Batch{}
	for _, rec := range batch {
		winners, err := json.Marshal(rec.Winners)
		if err != nil {
			b.logger.Error("Failed to encode winners", "gameId", rec.GameID, "handNo", rec.HandNo, "error", err)
			continue
		}
		pgBatch.Queue(insertHandSQL,
			rec.ID,
			rec.GameID,
			rec.GameType,
			rec.HandNo,
			rec.Dealer,
			rec.RoundWind,
			rec.Exhausted,
			winners,
			rec.FinishedAt,
		)
		for _, p := range rec.Players {
			pgBatch.Queue(insertPlayerSQL, rec.ID, p.Seat, p.Kind, p.Delta, p.Score, p.Won)
		}
	}
	if pgBatch.Len() == 0 {
		return
	}

	br := b.db.SendBatch(ctx, pgBatch)
	defer func() {
		if err := br.Close(); err != nil {
			b.logger.Error("Failed to close batch results", "error", err)
		}
	}()

	// 收集结果
	failed := 0
	for i := 0; i < pgBatch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			failed++
			b.logger.Error("Failed to save hand in batch", "index", i, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	if failed > 0 {
		b.logger.Error("Batch flush completed with errors",
			"hands", len(batch),
			"failed", failed,
			"elapsed", elapsed,
		)
	} else {
		b.logger.Debug("Batch flush completed",
			"hands", len(batch),
			"statements", pgBatch.Len(),
			"elapsed", elapsed,
		)
	}
}

// GetQueueSize 获取当前队列大小（用于监控）
func (b *HandBatcher) GetQueueSize() int {
	return len(b.recChan)
}

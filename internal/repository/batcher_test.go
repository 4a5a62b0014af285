package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSender 记录每次批量执行的语句数
type fakeSender struct {
	mu      sync.Mutex
	batches []int
	failAt  int // 第几条语句失败, 0 为不失败
}

func (s *fakeSender) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b.Len())
	return &fakeResults{failAt: s.failAt}
}

func (s *fakeSender) statements() (batches, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.batches {
		total += n
	}
	return len(s.batches), total
}

type fakeResults struct {
	n      int
	failAt int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	r.n++
	if r.n == r.failAt {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row        { return nil }
func (r *fakeResults) Close() error             { return nil }

func TestHandBatcher_FlushOnSize(t *testing.T) {
	sender := &fakeSender{}
	b := NewHandBatcher(sender, HandBatcherConfig{BatchSize: 2, FlushInterval: time.Hour})
	b.Start(context.Background())

	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		if err := b.RecordHand(ctx, sampleRecord(int64(i), i)); err != nil {
			t.Fatalf("RecordHand failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n, _ := sender.statements(); n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("达到批量大小后应立即写入")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// 一局 1 条 hands + 4 条 hand_players
	if _, total := sender.statements(); total != 10 {
		t.Errorf("期望 10 条语句, 实际 = %d", total)
	}
	b.Stop()
}

func TestHandBatcher_FlushOnStop(t *testing.T) {
	sender := &fakeSender{failAt: 2}
	b := NewHandBatcher(sender, HandBatcherConfig{BatchSize: 100, FlushInterval: time.Hour})
	b.Start(context.Background())

	if err := b.RecordHand(context.Background(), sampleRecord(1, 1)); err != nil {
		t.Fatalf("RecordHand failed: %v", err)
	}
	b.Stop()
	// 重复 Stop 不会 panic
	b.Stop()

	batches, total := sender.statements()
	if batches != 1 || total != 5 {
		t.Errorf("停止时应刷入剩余记录, 实际 batches=%d statements=%d", batches, total)
	}
	if b.GetQueueSize() != 0 {
		t.Errorf("队列应为空, 实际 = %d", b.GetQueueSize())
	}
}

func TestHandBatcher_FlushOnTicker(t *testing.T) {
	sender := &fakeSender{}
	b := NewHandBatcher(sender, HandBatcherConfig{BatchSize: 100, FlushInterval: 20 * time.Millisecond})
	b.Start(context.Background())
	defer b.Stop()

	if err := b.RecordHand(context.Background(), sampleRecord(1, 1)); err != nil {
		t.Fatalf("RecordHand failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n, _ := sender.statements(); n >= 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("定时刷新没有写入")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandBatcher_Postgres(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	b := NewHandBatcher(pool, HandBatcherConfig{BatchSize: 10, FlushInterval: time.Hour})
	b.Start(context.Background())
	ctx := context.Background()
	for i, id := range []int64{201, 202} {
		if err := b.RecordHand(ctx, sampleRecord(id, i+1)); err != nil {
			t.Fatalf("RecordHand failed: %v", err)
		}
	}
	// 重复局号被忽略, 座位结果也不写
	if err := b.RecordHand(ctx, sampleRecord(203, 1)); err != nil {
		t.Fatalf("RecordHand failed: %v", err)
	}
	b.Stop()

	records, err := NewHandRepository(pool).ListByGame(ctx, "g1")
	if err != nil {
		t.Fatalf("ListByGame failed: %v", err)
	}
	if len(records) != 2 || records[0].ID != 201 {
		t.Fatalf("期望 2 条记录, 实际 = %+v", records)
	}
	if len(records[0].Players) != 4 {
		t.Errorf("座位结果不符: %+v", records[0].Players)
	}
}

package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/model"
)

type memPublisher struct {
	mu     sync.Mutex
	events map[string][]round.Event
}

func (p *memPublisher) Publish(_ context.Context, gameID string, events []round.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]round.Event)
	}
	p.events[gameID] = append(p.events[gameID], events...)
	return nil
}

func (p *memPublisher) count(gameID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[gameID])
}

type memStore struct {
	mu    sync.Mutex
	snaps map[string]*Snapshot
	order []string
	saves int
}

func (s *memStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snaps == nil {
		s.snaps = make(map[string]*Snapshot)
	}
	s.snaps[snap.GameID] = snap
	s.order = append(s.order, snap.GameID)
	s.saves++
	return nil
}

// Recent 按保存时间倒序, 去重
func (s *memStore) Recent(_ context.Context, limit int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for i := len(s.order) - 1; i >= 0 && int64(len(ids)) < limit; i-- {
		id := s.order[i]
		if seen[id] || s.snaps[id] == nil {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) Load(_ context.Context, gameID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[gameID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

func (s *memStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, gameID)
	return nil
}

type memRecorder struct {
	mu      sync.Mutex
	records []*model.HandRecord
}

func (r *memRecorder) RecordHand(_ context.Context, rec *model.HandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type testEnv struct {
	svc       *GameService
	manager   *GameManager
	publisher *memPublisher
	store     *memStore
	recorder  *memRecorder
}

// newTestEnv 不带调度器的牌桌服务, 机器人在调用中同步行动
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil, Config{})
}

func newTestEnvWith(t *testing.T, sched Scheduler, cfg Config) *testEnv {
	t.Helper()
	env := &testEnv{
		manager:   NewGameManager(0, time.Hour, time.Hour),
		publisher: &memPublisher{},
		store:     &memStore{},
		recorder:  &memRecorder{},
	}
	t.Cleanup(func() { _ = env.manager.Shutdown(context.Background()) })

	env.svc = NewGameService(Deps{
		Manager:   env.manager,
		Mahjong:   mahjong.NewMahjongService(mahjong.Config{Round: round.DefaultConfig()}, nil),
		Scheduler: sched,
		Publisher: env.publisher,
		Snapshots: env.store,
		Recorder:  env.recorder,
	}, cfg)
	return env
}

func seed(v int64) *int64 {
	return &v
}

package cache

import (
	"testing"
	"time"

	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/evaluator"
	"sudooom.mahjong/internal/game/mahjong/sichuan"
)

func newCache(t *testing.T, ttl time.Duration) *ShantenCache {
	t.Helper()
	c, err := NewShantenCache(Config{MaxCost: 1000, TTL: ttl})
	if err != nil {
		t.Fatalf("NewShantenCache failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestShantenCacheSetGet(t *testing.T) {
	c := newCache(t, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("不存在的键不应命中")
	}
	c.Set("k", 2)
	c.Wait()

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("期望命中 2, 实际 = %d, %v", got, ok)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("期望 hits=1 misses=1, 实际 = %d %d", hits, misses)
	}
}

func TestShantenCacheTTL(t *testing.T) {
	c := newCache(t, 50*time.Millisecond)
	c.Set("k", 1)
	c.Wait()

	if _, ok := c.Get("k"); !ok {
		t.Fatal("过期前应命中")
	}
	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("过期后不应命中")
	}
}

// TestShantenCacheWithEvaluator 评估器使用缓存后结果不变
func TestShantenCacheWithEvaluator(t *testing.T) {
	rules, err := sichuan.New(nil)
	if err != nil {
		t.Fatalf("sichuan.New failed: %v", err)
	}
	c := newCache(t, time.Minute)
	cached := evaluator.New(rules, evaluator.WithCache(c))
	plain := evaluator.New(rules)

	hand := core.MustParseTiles("123m456m789s1p35p")
	want := plain.Shanten(hand, nil)
	if got := cached.Shanten(hand, nil); got != want {
		t.Fatalf("第一次期望 %d, 实际 = %d", want, got)
	}
	c.Wait()
	if got := cached.Shanten(hand, nil); got != want {
		t.Errorf("命中缓存后期望 %d, 实际 = %d", want, got)
	}
	if hits, _ := c.Stats(); hits < 1 {
		t.Errorf("期望至少命中一次, 实际 = %d", hits)
	}
}

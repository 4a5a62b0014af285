// Package cache 进程内缓存
package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Config 缓存参数
type Config struct {
	MaxCost int64         `mapstructure:"max_cost"` // 最多缓存的条目数, 每条成本为 1
	TTL     time.Duration `mapstructure:"ttl"`
}

// ShantenCache 向听数缓存, 供评估器复用同一手牌的计算结果
// 写入是异步的, 刚写入的值可能要稍后才能读到
type ShantenCache struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewShantenCache 创建向听数缓存
func NewShantenCache(cfg Config) (*ShantenCache, error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.MaxCost * 10,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &ShantenCache{cache: c, ttl: cfg.TTL}, nil
}

// Get 读取向听数
func (c *ShantenCache) Get(key string) (int, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		c.misses.Add(1)
		return 0, false
	}
	n, ok := v.(int)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return n, ok
}

// Set 写入向听数, TTL 为 0 时不过期
func (c *ShantenCache) Set(key string, shanten int) {
	if c.ttl > 0 {
		c.cache.SetWithTTL(key, shanten, 1, c.ttl)
		return
	}
	c.cache.Set(key, shanten, 1)
}

// Wait 等待已提交的写入生效
func (c *ShantenCache) Wait() {
	c.cache.Wait()
}

// Stats 命中与未命中次数
func (c *ShantenCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close 关闭缓存
func (c *ShantenCache) Close() {
	c.cache.Close()
}

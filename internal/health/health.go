package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled" // 未配置该依赖
)

// Status 健康状态
type Status struct {
	NATS     string `json:"nats"`
	Redis    string `json:"redis"`
	Database string `json:"database"`
	Games    int    `json:"games"`
}

// Healthy 已配置的依赖都已连接
func (s *Status) Healthy() bool {
	for _, v := range []string{s.NATS, s.Redis, s.Database} {
		if v == StatusDisconnected {
			return false
		}
	}
	return true
}

// Checker 健康检查器, 依赖为 nil 时视为未配置
type Checker struct {
	nc          *nats.Conn
	redisClient *redis.Client
	db          *pgxpool.Pool
	games       func() int
}

// NewChecker 创建健康检查器
func NewChecker(nc *nats.Conn, redisClient *redis.Client, db *pgxpool.Pool) *Checker {
	return &Checker{
		nc:          nc,
		redisClient: redisClient,
		db:          db,
	}
}

// WithGameCount 在状态中附带当前牌桌数
func (h *Checker) WithGameCount(fn func() int) *Checker {
	h.games = fn
	return h
}

// Check 执行健康检查
func (h *Checker) Check(ctx context.Context) *Status {
	status := &Status{
		NATS:     StatusDisabled,
		Redis:    StatusDisabled,
		Database: StatusDisabled,
	}

	// 检查 NATS
	if h.nc != nil {
		status.NATS = connected(h.nc.IsConnected())
	}

	// 检查 Redis
	if h.redisClient != nil {
		redisCtx, redisCancel := context.WithTimeout(ctx, 2*time.Second)
		defer redisCancel()
		status.Redis = connected(h.redisClient.Ping(redisCtx).Err() == nil)
	}

	// 检查 PostgreSQL
	if h.db != nil {
		dbCtx, dbCancel := context.WithTimeout(ctx, 2*time.Second)
		defer dbCancel()
		status.Database = connected(h.db.Ping(dbCtx) == nil)
	}

	if h.games != nil {
		status.Games = h.games()
	}
	return status
}

func connected(ok bool) string {
	if ok {
		return StatusConnected
	}
	return StatusDisconnected
}

// IsHealthy 检查是否健康
func (h *Checker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx).Healthy()
}

// ServeHTTP HTTP 健康检查端点
func (h *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// NewMux 健康检查与运行时监控: /health, /ready, /debug/statsviz/
func NewMux(h *Checker) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	mux.Handle("/health", h)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.IsHealthy(r.Context()) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Not Ready"))
		}
	})
	if err := statsviz.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/cache"
	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/handler"
	"sudooom.mahjong/internal/health"
	mjNats "sudooom.mahjong/internal/nats"
	"sudooom.mahjong/internal/repository"
	"sudooom.mahjong/internal/router"
	"sudooom.mahjong/internal/store"
	"sudooom.mahjong/internal/task"
	"sudooom.mahjong/pkg/snowflake"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动牌桌服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	// 加载配置
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 初始化日志
	logger := newLogger(logFormat, cfg.App.LogLevel, cfg.App.Name)
	slog.SetDefault(logger)

	// 创建上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接 NATS, 未配置时不推送事件
	var natsClient *mjNats.Client
	if cfg.NATS.URL != "" {
		natsClient, err = mjNats.NewClient(cfg.NATS)
		if err != nil {
			return fmt.Errorf("连接 NATS 失败: %w", err)
		}
		defer natsClient.Close()
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	// 连接 Redis, 未配置时不保存快照
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = connectRedis(cfg.Redis)
		defer redisClient.Close()
		logger.Info("Connected to Redis", "host", cfg.Redis.Host)
	}

	// 连接数据库, 未配置时不记录牌局
	var db *pgxpool.Pool
	if cfg.Database.Host != "" {
		db, err = connectDatabase(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("连接数据库失败: %w", err)
		}
		defer db.Close()
		logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)
	}

	// 规则与评估
	shantenCache, err := cache.NewShantenCache(cache.Config{MaxCost: cfg.Cache.MaxCost, TTL: cfg.Cache.TTL})
	if err != nil {
		return err
	}
	defer shantenCache.Close()
	mj := mahjong.NewMahjongService(mahjong.Config{
		Round:     roundConfig(cfg.Game),
		Overrides: cfg.Rules,
	}, shantenCache)

	// 机器人与超时调度
	scheduler := task.NewScheduler(task.Config{
		Workers: cfg.Scheduler.Workers,
		Tick:    cfg.Scheduler.Tick,
		Slots:   cfg.Scheduler.Slots,
	})
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("启动调度器失败: %w", err)
	}
	defer scheduler.Stop()

	ids, err := snowflake.NewNode(cfg.App.NodeID)
	if err != nil {
		return err
	}

	// 初始化服务
	deps := game.Deps{
		Manager:   game.NewGameManager(cfg.Game.MaxGames, cfg.Game.IdleEviction, cfg.Game.EvictInterval),
		Mahjong:   mj,
		Scheduler: scheduler,
		IDs:       ids,
	}
	if natsClient != nil {
		deps.Publisher = mjNats.NewEventPublisher(natsClient.Conn())
	}
	if redisClient != nil {
		deps.Snapshots = store.NewSnapshotStore(redisClient, cfg.Game.SnapshotTTL)
	}
	var batcher *repository.HandBatcher
	var history *handler.HistoryHandler
	if db != nil {
		hands := repository.NewHandRepository(db)
		if err := hands.Migrate(ctx); err != nil {
			return fmt.Errorf("建表失败: %w", err)
		}
		batcher = repository.NewHandBatcher(db, repository.HandBatcherConfig{
			BatchSize:     cfg.Database.BatchSize,
			FlushInterval: cfg.Database.FlushInterval,
		})
		batcher.Start(ctx)
		deps.Recorder = batcher
		history = handler.NewHistoryHandler(hands)
	}
	games := game.NewGameService(deps, gameConfig(cfg.Game))

	// 启动订阅者
	var subscriber *mjNats.MoveSubscriber
	if natsClient != nil {
		subscriber = mjNats.NewMoveSubscriber(natsClient.Conn(), games, mjNats.SubscriberConfig{
			WorkerCount: cfg.NATS.WorkerCount,
			BufferSize:  cfg.NATS.BufferSize,
		})
		if err := subscriber.Start(ctx); err != nil {
			return fmt.Errorf("启动订阅失败: %w", err)
		}
	}

	// 配置热更新: 番数覆盖, 机器人停顿与响应时限, 日志级别
	if err := config.Watch(func(next *config.Config) {
		mj.UpdateOverrides(next.Rules)
		games.UpdateConfig(gameConfig(next.Game))
		logLevel.Set(parseLevel(next.App.LogLevel))
		logger.Info("配置已更新")
	}); err != nil {
		logger.Warn("配置热更新未启用", "error", err)
	}

	// HTTP 服务
	engine := router.SetupRouter(router.Config{
		Mode:           cfg.HTTP.Mode,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, handler.NewAdviceHandler(mj), handler.NewTableHandler(games), history)
	apiServer := &http.Server{Addr: cfg.HTTP.Addr, Handler: engine}
	go runServer(apiServer, "API server", logger)

	// 启动健康检查 HTTP 服务
	checker := health.NewChecker(natsConn(natsClient), redisClient, db).WithGameCount(deps.Manager.Count)
	healthMux, err := health.NewMux(checker)
	if err != nil {
		return err
	}
	healthServer := &http.Server{Addr: cfg.HTTP.HealthAddr, Handler: healthMux}
	go runServer(healthServer, "Health check server", logger)

	logger.Info("Mahjong service started", "name", cfg.App.Name, "addr", cfg.HTTP.Addr)

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
	}
	if subscriber != nil {
		if err := subscriber.Stop(); err != nil {
			logger.Error("Subscriber stop failed", "error", err)
		}
	}
	// 调度器先停, 之后不会再有机器人操作改动牌桌
	scheduler.Stop()
	if err := games.Shutdown(shutdownCtx); err != nil {
		logger.Error("Game shutdown failed", "error", err)
	}
	if batcher != nil {
		batcher.Stop()
	}
	_ = healthServer.Shutdown(shutdownCtx)
	cancel()
	logger.Info("Mahjong service stopped")
	return nil
}

func runServer(server *http.Server, name string, logger *slog.Logger) {
	logger.Info(name+" started", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(name+" failed", "error", err)
	}
}

func natsConn(c *mjNats.Client) *nats.Conn {
	if c == nil {
		return nil
	}
	return c.Conn()
}

func roundConfig(g config.GameConfig) round.Config {
	return round.Config{
		StartingScore:           g.StartingScore,
		ExhaustPayment:          g.ExhaustPayment,
		DiscarderPaysMultiplier: g.DiscarderPaysMultiplier,
	}
}

func gameConfig(g config.GameConfig) game.Config {
	return game.Config{
		BotDelay:        g.BotDelay,
		ReactionTimeout: g.ReactionTimeout,
	}
}

// connectRedis 连接 Redis
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}

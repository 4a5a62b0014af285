package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig                 `mapstructure:"app"`
	HTTP      HTTPConfig                `mapstructure:"http"`
	NATS      NATSConfig                `mapstructure:"nats"`
	Database  DatabaseConfig            `mapstructure:"database"`
	Redis     RedisConfig               `mapstructure:"redis"`
	Game      GameConfig                `mapstructure:"game"`
	Scheduler SchedulerConfig           `mapstructure:"scheduler"`
	Cache     CacheConfig               `mapstructure:"cache"`
	Rules     map[string]map[string]int `mapstructure:"rules"` // 玩法 -> 番型 -> 番数
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	NodeID   int64  `mapstructure:"node_id"` // 雪花ID节点号
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	HealthAddr     string   `mapstructure:"health_addr"`
	Mode           string   `mapstructure:"mode"` // gin 模式: debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	WorkerCount   int           `mapstructure:"worker_count"` // 操作订阅的 Worker 数量
	BufferSize    int           `mapstructure:"buffer_size"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	BatchSize       int           `mapstructure:"batch_size"`     // 对局记录批量写入的条数
	FlushInterval   time.Duration `mapstructure:"flush_interval"` // 对局记录强制刷新间隔
}

// DSN pgx 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.MaxOpenConns)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GameConfig 牌桌与结算参数
type GameConfig struct {
	DefaultRules            string        `mapstructure:"default_rules"`
	StartingScore           int           `mapstructure:"starting_score"`
	ExhaustPayment          int           `mapstructure:"exhaust_payment"`
	DiscarderPaysMultiplier int           `mapstructure:"discarder_multiplier"`
	BotDelay                time.Duration `mapstructure:"bot_delay"`
	ReactionTimeout         time.Duration `mapstructure:"reaction_timeout"`
	SnapshotTTL             time.Duration `mapstructure:"snapshot_ttl"`
	IdleEviction            time.Duration `mapstructure:"idle_eviction"`
	EvictInterval           time.Duration `mapstructure:"evict_interval"`
	MaxGames                int           `mapstructure:"max_games"`
}

type SchedulerConfig struct {
	Workers int           `mapstructure:"workers"`
	Tick    time.Duration `mapstructure:"tick"`
	Slots   int           `mapstructure:"slots"`
}

type CacheConfig struct {
	MaxCost int64         `mapstructure:"max_cost"`
	TTL     time.Duration `mapstructure:"ttl"`
}

var (
	mu      sync.Mutex
	current *viper.Viper
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mahjong")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.node_id", 1)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.health_addr", ":8081")
	v.SetDefault("http.mode", "release")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.worker_count", 16)
	v.SetDefault("nats.buffer_size", 1024)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.batch_size", 50)
	v.SetDefault("database.flush_interval", 5*time.Second)
	v.SetDefault("game.default_rules", "sichuan")
	v.SetDefault("game.starting_score", 25000)
	v.SetDefault("game.exhaust_payment", 1000)
	v.SetDefault("game.discarder_multiplier", 2)
	v.SetDefault("game.bot_delay", 800*time.Millisecond)
	v.SetDefault("game.reaction_timeout", 15*time.Second)
	v.SetDefault("game.snapshot_ttl", 24*time.Hour)
	v.SetDefault("game.idle_eviction", 30*time.Minute)
	v.SetDefault("game.evict_interval", time.Minute)
	v.SetDefault("game.max_games", 10000)
	v.SetDefault("scheduler.workers", 8)
	v.SetDefault("scheduler.tick", 100*time.Millisecond)
	v.SetDefault("scheduler.slots", 600)
	v.SetDefault("cache.max_cost", 1<<20)
	v.SetDefault("cache.ttl", 10*time.Minute)
}

// Load 从指定路径加载配置, 环境变量 MAHJONG_<SECTION>_<KEY> 可以覆盖文件中的值
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("mahjong")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	current = v
	mu.Unlock()
	return cfg, nil
}

// Default 不读文件时的默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := unmarshal(v)
	return cfg
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch 监听最近一次 Load 的配置文件, 变更后回调新的配置
// 解析失败的变更被忽略, 回调收到的总是完整可用的配置
func Watch(fn func(*Config)) error {
	mu.Lock()
	v := current
	mu.Unlock()
	if v == nil {
		return fmt.Errorf("配置尚未加载")
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		cfg, err := unmarshal(v)
		if err != nil {
			return
		}
		fn(cfg)
	})
	v.WatchConfig()
	return nil
}

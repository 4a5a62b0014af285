package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
app:
  name: mahjong-test
  node_id: 7
game:
  default_rules: beijing
  bot_delay: 50ms
  discarder_multiplier: 3
rules:
  sichuan:
    qingyi: 6
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "mahjong-test" || cfg.App.NodeID != 7 {
		t.Errorf("app 期望 mahjong-test/7, 实际 = %+v", cfg.App)
	}
	if cfg.Game.DefaultRules != "beijing" {
		t.Errorf("default_rules 期望 beijing, 实际 = %s", cfg.Game.DefaultRules)
	}
	if cfg.Game.BotDelay != 50*time.Millisecond {
		t.Errorf("bot_delay 期望 50ms, 实际 = %v", cfg.Game.BotDelay)
	}
	if cfg.Game.DiscarderPaysMultiplier != 3 {
		t.Errorf("discarder_multiplier 期望 3, 实际 = %d", cfg.Game.DiscarderPaysMultiplier)
	}
	if cfg.Rules["sichuan"]["qingyi"] != 6 {
		t.Errorf("rules.sichuan.qingyi 期望 6, 实际 = %v", cfg.Rules)
	}

	// 未配置的项取默认值
	if cfg.Game.StartingScore != 25000 {
		t.Errorf("starting_score 期望默认 25000, 实际 = %d", cfg.Game.StartingScore)
	}
	if cfg.Scheduler.Tick != 100*time.Millisecond {
		t.Errorf("scheduler.tick 期望默认 100ms, 实际 = %v", cfg.Scheduler.Tick)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MAHJONG_GAME_MAX_GAMES", "12")
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Game.MaxGames != 12 {
		t.Errorf("max_games 期望环境变量覆盖为 12, 实际 = %d", cfg.Game.MaxGames)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("文件不存在时期望失败")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.HealthAddr != ":8081" {
		t.Errorf("http 默认地址不对: %+v", cfg.HTTP)
	}
	if cfg.Redis.Addr() != ":6379" {
		t.Errorf("redis 默认地址期望 :6379, 实际 = %s", cfg.Redis.Addr())
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, sample)
	if _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	changed := make(chan *Config, 4)
	if err := Watch(func(c *Config) { changed <- c }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	updated := sample + "  beijing:\n    qingyi: 8\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("改写配置文件失败: %v", err)
	}

	// 写文件可能触发多次通知, 中间状态的内容不完整
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Rules["beijing"]["qingyi"] == 8 {
				return
			}
		case <-timeout:
			t.Skip("跳过测试：当前环境没有收到文件变更通知")
		}
	}
}

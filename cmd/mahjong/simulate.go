package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/cache"
	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game/mahjong"
)

var (
	simRules string
	simHands int
	simSeed  int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "四个机器人自动对局, 输出每局结果",
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulate()
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simRules, "rules", "", "game type: beijing, sichuan (default from config)")
	simulateCmd.Flags().IntVar(&simHands, "hands", 0, "max hands to play, 0 plays the whole session")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "shuffle seed, 0 uses current time")
}

func simulate() error {
	cfg, err := loadOrDefault(configFile)
	if err != nil {
		return err
	}
	format := logFormat
	if !rootCmd.PersistentFlags().Changed("logFormat") {
		format = "text"
	}
	logger := newLogger(format, cfg.App.LogLevel, "simulate")
	slog.SetDefault(logger)

	rules := simRules
	if rules == "" {
		rules = cfg.Game.DefaultRules
	}
	gt, err := mahjong.ParseGameType(rules)
	if err != nil {
		return err
	}
	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	shantenCache, err := cache.NewShantenCache(cache.Config{MaxCost: cfg.Cache.MaxCost, TTL: cfg.Cache.TTL})
	if err != nil {
		return err
	}
	defer shantenCache.Close()
	mj := mahjong.NewMahjongService(mahjong.Config{
		Round:     roundConfig(cfg.Game),
		Overrides: cfg.Rules,
	}, shantenCache)

	safe, err := mj.StartGame(gt, seed, nil)
	if err != nil {
		return err
	}

	for played := 1; ; played++ {
		steps, err := mahjong.AutoPlay(safe)
		if err != nil {
			return fmt.Errorf("第 %d 局: %w", played, err)
		}
		summary, err := safe.FinishHand()
		if err != nil {
			return err
		}

		winners := make([]string, 0, len(summary.Winners))
		for _, w := range summary.Winners {
			winners = append(winners, fmt.Sprintf("%d<-%d %d番", w.Seat, w.From, w.Result.Total))
		}
		logger.Info("本局结束",
			"hand", summary.HandNo,
			"wind", summary.RoundWind.String(),
			"dealer", summary.Dealer,
			"steps", steps,
			"exhausted", summary.Exhausted,
			"winners", winners,
			"deltas", summary.Deltas,
			"scores", summary.Scores,
		)

		if safe.IsGameOver() || (simHands > 0 && played >= simHands) {
			break
		}
		if err := safe.StartHand(); err != nil {
			return err
		}
	}

	hits, misses := shantenCache.Stats()
	sess := safe.GetSession()
	logger.Info("模拟结束",
		"rules", gt,
		"seed", seed,
		"hands", len(sess.Hands),
		"scores", sess.Scores,
		"finished", sess.Finished,
		"cacheHits", hits,
		"cacheMisses", misses,
	)
	return nil
}

// loadOrDefault 配置文件不存在时使用默认配置
func loadOrDefault(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

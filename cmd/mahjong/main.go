package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "mahjong",
	Short: "mahjong 麻将规则服务",
	Long:  `mahjong 麻将规则服务: 北京麻将与四川血战到底的对局引擎, 手牌分析与计番`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "configs/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "logFormat", "json", "log format: json, text")
	rootCmd.AddCommand(serveCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("命令执行失败", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logLevel 可以在配置热更新时调整
var logLevel = new(slog.LevelVar)

// newLogger json 格式用于服务, text 格式用 charmbracelet/log 在终端里输出彩色日志
func newLogger(format, level string, prefix string) *slog.Logger {
	logLevel.Set(parseLevel(level))

	if strings.ToLower(format) != "text" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	// 使用 os.Stdout 而不是 os.Stderr, 终端里不会整屏标红
	l := log.New(os.Stdout)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	if lv, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lv)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return slog.New(l)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

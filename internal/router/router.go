package router

import (
	"github.com/gin-gonic/gin"

	"sudooom.mahjong/internal/handler"
	"sudooom.mahjong/internal/middleware"
)

// Config 路由参数
type Config struct {
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SetupRouter 设置路由, historyHandler 为 nil 时不提供对局记录接口
func SetupRouter(cfg Config, adviceHandler *handler.AdviceHandler, tableHandler *handler.TableHandler, historyHandler *handler.HistoryHandler) *gin.Engine {
	// 设置 Gin 模式
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.AllowedOrigins, []string{"GET", "POST", "OPTIONS"}))

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 手牌分析
		v1.POST("/evaluate", adviceHandler.Evaluate)
		v1.POST("/score", adviceHandler.Score)

		// 牌桌接口
		tables := v1.Group("/tables")
		{
			tables.POST("", tableHandler.Create)
			tables.GET("", tableHandler.List)
			tables.GET("/:id", tableHandler.Get)
			tables.POST("/:id/moves", tableHandler.Move)
			if historyHandler != nil {
				tables.GET("/:id/hands", historyHandler.Hands)
			}
		}
	}

	return r
}

package app

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/middleware"
	"codequest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 账号
	router.POST("/signup", c.auth.Signup)
	router.POST("/login", c.auth.Login)

	// 档案与进度：前端不一定携带令牌，携带时必须与邮箱一致
	router.GET("/profile/:email", c.progress.GetProfile)
	router.POST("/progress", middleware.TryAuthMiddleware(cfg), c.progress.SaveProgress)
	router.GET("/leaderboard/:quest", c.progress.Leaderboard)

	router.GET("/catalog/:quest", c.catalog.GetCatalog)
	router.POST("/chat", c.chat.Chat)
}

package handler

import (
	"levelup/middleware"
	"levelup/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

func SetupRouter(engine *usecase.Engine, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.ClientInfoMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware(logger))
	router.Use(middleware.RequestSizeLimiter(middleware.MaxBodyBytes))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.NoStoreMiddleware())
	{
		api.GET("/state", func(c *gin.Context) {
			StateHandler(c, engine)
		})

		session := api.Group("/session")
		{
			session.POST("/check", func(c *gin.Context) {
				CheckSessionHandler(c, engine)
			})
			session.POST("/login", func(c *gin.Context) {
				LoginHandler(c, engine)
			})
			session.POST("/register", func(c *gin.Context) {
				RegisterHandler(c, engine)
			})
			session.POST("/logout", func(c *gin.Context) {
				LogoutHandler(c, engine)
			})
		}

		// View state reads work logged out and return the defaults.
		api.GET("/dashboard", func(c *gin.Context) {
			DashboardHandler(c, engine)
		})
		api.GET("/goals", func(c *gin.Context) {
			GetGoalsHandler(c, engine)
		})
		api.PUT("/goals/draft", func(c *gin.Context) {
			UpdateGoalDraftHandler(c, engine)
		})
		api.GET("/notifications", func(c *gin.Context) {
			GetNotificationsHandler(c, engine)
		})
		api.DELETE("/notifications/:id", func(c *gin.Context) {
			DismissNotificationHandler(c, engine)
		})
		api.GET("/levelup", func(c *gin.Context) {
			LevelUpHandler(c, engine)
		})
		api.POST("/levelup/dismiss", func(c *gin.Context) {
			DismissLevelUpHandler(c, engine)
		})
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(engine.Auth))
	{
		protected.POST("/dashboard/refresh", func(c *gin.Context) {
			RefreshDashboardHandler(c, engine)
		})

		protected.POST("/goals", func(c *gin.Context) {
			CreateGoalHandler(c, engine)
		})
		protected.DELETE("/goals/:id", func(c *gin.Context) {
			DeleteGoalHandler(c, engine)
		})

		quests := protected.Group("/quests")
		{
			quests.POST("/generate", func(c *gin.Context) {
				GenerateQuestHandler(c, engine)
			})
			quests.POST("/:id/complete", func(c *gin.Context) {
				CompleteQuestHandler(c, engine)
			})
			quests.POST("/:id/fail", func(c *gin.Context) {
				FailQuestHandler(c, engine)
			})
		}

		protected.POST("/level/allocate", func(c *gin.Context) {
			AllocatePointHandler(c, engine)
		})
	}

	return router
}

package routes

import (
	"threat-radar/internal/auth"
	"threat-radar/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAllRoutes 注册所有API路由
func RegisterAllRoutes(ginRouter *gin.Engine, controllers *Controllers, jwtManager *auth.JWTManager) {
	// 全局错误处理、安全头和CORS中间件
	ginRouter.Use(middleware.GlobalErrorHandler())
	addSecurityHeaders(ginRouter)
	addCorsMiddleware(ginRouter)

	// 注册API路由
	apiGroup := ginRouter.Group("/api/v1")
	{
		// 认证相关API - 不需要JWT验证
		authGroup := apiGroup.Group("/auth")
		{
			// 检查是否是首次运行
			authGroup.GET("/first-run", controllers.AuthController.CheckFirstRun)

			// 用户登录
			authGroup.POST("/login", controllers.AuthController.Login)

			// 用户退出登录
			authGroup.POST("/logout", controllers.AuthController.Logout)
		}

		// 系统相关API - 不需要JWT验证
		apiGroup.GET("/health", controllers.SystemController.Health)
		apiGroup.GET("/version", controllers.SystemController.Version)

		// 需要JWT验证的API组
		protectedGroup := apiGroup.Group("")
		protectedGroup.Use(auth.JWTAuthMiddleware(jwtManager))
		{
			// 系统配置API
			protectedGroup.GET("/system/config", controllers.SystemController.GetSystemConfig)
			protectedGroup.POST("/system/config", controllers.SystemController.UpdateSystemConfig)

			// 概览API
			protectedGroup.GET("/overview", controllers.OverviewController.GetOverview)

			// 监控API
			protectedGroup.GET("/monitoring/stats", controllers.MonitoringController.GetStats)

			// 雷达视图API
			protectedGroup.GET("/radar/layout", controllers.RadarController.GetLayout)
			protectedGroup.POST("/radar/hittest", controllers.RadarController.HitTest)
			protectedGroup.GET("/radar/hints", controllers.RadarController.GetRenderHints)

			// 关系图视图API
			protectedGroup.GET("/graph", controllers.GraphController.GetGraph)
			protectedGroup.GET("/graph/neighborhood", controllers.GraphController.GetNeighborhood)

			// 图表API
			protectedGroup.GET("/charts/activity", controllers.ChartsController.GetActivity)
			protectedGroup.GET("/charts/assets", controllers.ChartsController.GetAssets)
			protectedGroup.GET("/charts/kpi", controllers.ChartsController.GetKPI)

			// 威胁数据API
			threatsGroup := protectedGroup.Group("/threats")
			{
				// 获取威胁列表
				threatsGroup.GET("", controllers.ThreatsController.ListThreats)

				// 获取归档威胁
				threatsGroup.GET("/archive", controllers.ThreatsController.ListArchived)

				// 获取单个威胁详情
				threatsGroup.GET("/:id", controllers.ThreatsController.GetThreat)
			}

			// 威胁源API
			protectedGroup.POST("/feed/refresh", controllers.ThreatsController.RefreshFeed)
			protectedGroup.GET("/feed/stats", controllers.ThreatsController.GetFeedStats)

			// 报告快照API
			protectedGroup.GET("/reports", controllers.ReportController.ListReports)
			protectedGroup.POST("/reports/render", controllers.ReportController.Render)
			protectedGroup.GET("/reports/task", controllers.ReportController.GetTaskStatus)
		}
	}
}

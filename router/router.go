package router

import (
	"time"

	"budget/api"
	"budget/config"
	_ "budget/docs"
	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录、注册每个 IP 每分钟最多 10 次
const (
	authMaxAttempts = 10
	authWindow      = time.Minute
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *service.Services) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := api.NewAuthHandler(svc.Users, cfg.JWT.ExpireTime)
	billHandler := api.NewBillHandler(svc.Bills, nil)
	incomeHandler := api.NewIncomeHandler(svc.Incomes)
	categoryHandler := api.NewCategoryHandler(svc.Categories)
	goalHandler := api.NewGoalHandler(svc.Goals)
	notificationHandler := api.NewNotificationHandler(svc.Notifications)
	activityHandler := api.NewActivityHandler(svc.Activity)
	dashboardHandler := api.NewDashboardHandler(svc, nil)
	exportHandler := api.NewExportHandler(svc.Dashboard, nil)

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		auth.Use(middleware.LoginRateLimit(authMaxAttempts, authWindow))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			bills := authorized.Group("/bills")
			{
				bills.GET("", billHandler.List)
				bills.POST("", billHandler.Create)
				bills.GET("/:id", billHandler.Get)
				bills.PUT("/:id", billHandler.Update)
				bills.DELETE("/:id", billHandler.Delete)
				bills.POST("/:id/pay", billHandler.MarkPaid)
				bills.POST("/:id/unpay", billHandler.MarkUnpaid)
			}

			incomes := authorized.Group("/incomes")
			{
				incomes.GET("", incomeHandler.List)
				incomes.POST("", incomeHandler.Create)
				incomes.GET("/:id", incomeHandler.Get)
				incomes.PUT("/:id", incomeHandler.Update)
				incomes.DELETE("/:id", incomeHandler.Delete)
			}

			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			goals := authorized.Group("/goals")
			{
				goals.GET("", goalHandler.List)
				goals.POST("", goalHandler.Create)
				goals.PUT("/:id", goalHandler.Update)
				goals.DELETE("/:id", goalHandler.Delete)
				goals.POST("/:id/contribute", goalHandler.Contribute)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.PUT("/read-all", notificationHandler.MarkAllRead)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
			}

			authorized.GET("/activity", activityHandler.List)
			authorized.GET("/dashboard", dashboardHandler.Dashboard)
			authorized.GET("/calendar", dashboardHandler.Calendar)
			authorized.GET("/transactions", dashboardHandler.Transactions)
			authorized.GET("/advice", dashboardHandler.Advice)
			authorized.POST("/reminders", dashboardHandler.Reminders)

			// 导出相关
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

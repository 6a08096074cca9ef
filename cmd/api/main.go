package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/api/routes"
	"threat-radar/internal/auth"
	"threat-radar/internal/config"
	"threat-radar/internal/db"
	"threat-radar/internal/feed"
	"threat-radar/internal/logging"
	"threat-radar/internal/middleware"
	"threat-radar/internal/models"
	"threat-radar/internal/monitoring"
	"threat-radar/internal/redis"
	"threat-radar/internal/report"
	"threat-radar/internal/repository"
	"threat-radar/internal/scheduler"
)

func main() {
	// 解析命令行参数
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 获取配置管理器实例
	configManager := config.GetInstance()

	// 启动配置文件监控
	if err := configManager.StartWatching(); err != nil {
		log.Printf("Failed to start config watching: %v", err)
	} else {
		log.Println("Config watching started")
	}

	// 添加配置变化处理函数
	configManager.AddConfigChangeHandler(func(newConfig *config.Config) {
		logging.DefaultLogger.Info("Config updated, reloading services...")
	})

	// 确保数据目录存在
	if err := os.MkdirAll(cfg.Dirs.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	// 初始化Redis客户端，雷达快照的工作集存储
	redisClient, err := redis.NewClient(cfg.Cache.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// 初始化PostgreSQL，长期归档存储，不可用时降级运行
	if err := db.InitDB(cfg); err != nil {
		logging.DefaultLogger.Warn("Threat archive database unavailable: %v", err)
	}

	// 初始化认证模块
	userManager := auth.NewUserManager(cfg.Dirs.DataDir, redisClient)

	// JWT密钥从环境变量读取，未设置时使用默认值
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		secretKey = "threat-radar-secret-key"
	}
	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		SecretKey:  secretKey,
		ExpireTime: 24 * time.Hour,
	})

	// 初始化监控
	monitor := monitoring.NewMonitor(monitoring.Config{
		Enabled:           cfg.Monitoring.Enabled,
		PrometheusAddress: cfg.Monitoring.PrometheusAddress,
	})
	if cfg.Monitoring.Enabled {
		if err := monitor.Start(); err != nil {
			logging.DefaultLogger.Error("Failed to start monitoring: %v", err)
		}
	}

	// 加载客户档案，威胁与资产匹配的依据
	profile, err := feed.LoadProfile(cfg.Feed.ProfilePath)
	if err != nil {
		log.Fatalf("Failed to load customer profile: %v", err)
	}
	logging.DefaultLogger.Info("Customer profile loaded: customer=%s products=%d", profile.CustomerID, len(profile.Products))

	// 存储层
	threatRepo := repository.NewThreatRepository(redisClient)
	archiveRepo := repository.NewArchiveRepository()

	// 威胁源采集管道
	geoEnricher := feed.NewGeoEnricher(cfg.Feed.GeoIPDatabase)
	defer geoEnricher.Close()

	provider := feed.NewProviderClient(cfg.Feed.Endpoint, cfg.Feed.APIKey, time.Duration(cfg.Feed.TimeoutSeconds)*time.Second)
	collector := feed.NewCollector(provider, profile, threatRepo, geoEnricher)

	// 实例间事件通道，快照刷新后通知其他仪表盘实例
	subscriber := redis.NewSubscriber(redisClient.GetRawClient())
	subscriber.AddHandler("radar:snapshot:refreshed", func(channel, payload string) {
		logging.DefaultLogger.Info("Snapshot refreshed for customer %s", payload)
	})
	if err := subscriber.Start(); err != nil {
		logging.DefaultLogger.Warn("Failed to start redis subscriber: %v", err)
	}
	defer subscriber.Stop()

	// 每次刷新成功后更新摄取统计、写入归档并广播事件
	collector.Subscribe(func(snapshot models.RadarSnapshot) {
		monitor.RecordFeedRefresh(true, snapshot.Meta.TotalThreats)
		if err := redisClient.IncrFeedStats(profile.CustomerID, snapshot.Meta.TotalThreats, 0); err != nil {
			logging.DefaultLogger.Warn("Failed to update feed stats: %v", err)
		}
		if archiveRepo.Enabled() {
			if err := archiveRepo.ArchiveSnapshot(snapshot); err != nil {
				logging.DefaultLogger.Warn("Failed to archive snapshot: %v", err)
			}
		}
		if err := subscriber.Publish("radar:snapshot:refreshed", profile.CustomerID); err != nil {
			logging.DefaultLogger.Warn("Failed to publish refresh event: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 报告渲染器，可选
	var renderer *report.Renderer
	if cfg.Report.Enabled {
		renderer = report.NewRenderer(cfg.Report)
		if err := renderer.Start(); err != nil {
			logging.DefaultLogger.Error("Failed to start report renderer: %v", err)
			renderer = nil
		}
	}

	// 定时任务调度器
	sched := scheduler.NewScheduler()
	sched.Start()
	defer sched.Stop()

	// 启动时先拉一次威胁源，之后按配置的间隔周期刷新
	refreshJob := func() {
		if _, err := collector.Refresh(ctx); err != nil {
			monitor.RecordFeedRefresh(false, 0)
			logging.DefaultLogger.Error("Feed refresh failed: %v", err)
		}
	}
	go refreshJob()
	if err := sched.AddTask("feed_refresh", scheduler.EveryMinutes(cfg.Feed.IntervalMinutes), refreshJob); err != nil {
		logging.DefaultLogger.Error("Failed to schedule feed refresh task: %v", err)
	}

	if renderer != nil && cfg.Report.Schedule != "" {
		// 配置里的schedule是5段cron表达式，调度器需要秒级精度
		schedule := "0 " + cfg.Report.Schedule
		if err := sched.AddTask("report_render", schedule, func() {
			result := renderer.Render()
			monitor.RecordReportRender(result.Success)
		}); err != nil {
			logging.DefaultLogger.Error("Failed to schedule report task: %v", err)
		}
	}

	// 初始化Gin路由
	ginRouter := gin.Default()
	ginRouter.Use(middleware.RequestMetrics(monitor))

	// 创建并注册所有控制器
	controllers := routes.SetupControllers(
		userManager,
		jwtManager,
		threatRepo,
		archiveRepo,
		collector,
		renderer,
		sched,
		redisClient,
		monitor,
		cfg,
		profile.CustomerID,
	)
	routes.RegisterAllRoutes(ginRouter, controllers, jwtManager)

	// 静态资源目录
	ginRouter.Static("/static", cfg.Dirs.StaticDir)

	// 仪表盘前端静态资源，SPA路由统一回退到index.html
	ginRouter.NoRoute(func(c *gin.Context) {
		requested := filepath.Join(cfg.Dirs.AdminStaticDir, filepath.Clean(c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}
		indexPath := filepath.Join(cfg.Dirs.AdminStaticDir, "index.html")
		if _, err := os.Stat(indexPath); err == nil {
			c.File(indexPath)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "File not found",
		})
	})

	// 启动API服务器
	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("API server starting on %s", apiAddr)
	go func() {
		if err := http.ListenAndServe(apiAddr, ginRouter); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// 阻塞主goroutine
	select {}
}

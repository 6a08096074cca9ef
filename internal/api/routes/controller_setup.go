package routes

import (
	"threat-radar/internal/api/controllers"
	"threat-radar/internal/auth"
	"threat-radar/internal/config"
	"threat-radar/internal/feed"
	"threat-radar/internal/monitoring"
	"threat-radar/internal/redis"
	"threat-radar/internal/report"
	"threat-radar/internal/repository"
	"threat-radar/internal/scheduler"
)

// Controllers 包含所有API控制器实例
type Controllers struct {
	AuthController       *controllers.AuthController
	OverviewController   *controllers.OverviewController
	MonitoringController *controllers.MonitoringController
	RadarController      *controllers.RadarController
	GraphController      *controllers.GraphController
	ChartsController     *controllers.ChartsController
	ThreatsController    *controllers.ThreatsController
	ReportController     *controllers.ReportController
	SystemController     *controllers.SystemController
}

// SetupControllers 创建并配置所有控制器实例
func SetupControllers(
	userManager *auth.UserManager,
	jwtManager *auth.JWTManager,
	threatRepo *repository.ThreatRepository,
	archiveRepo *repository.ArchiveRepository,
	collector *feed.Collector,
	renderer *report.Renderer,
	sched *scheduler.Scheduler,
	redisClient *redis.Client,
	monitor *monitoring.Monitor,
	cfg *config.Config,
	customerID string,
) *Controllers {
	return &Controllers{
		AuthController:       controllers.NewAuthController(userManager, jwtManager),
		OverviewController:   controllers.NewOverviewController(threatRepo, monitor, redisClient, customerID),
		MonitoringController: controllers.NewMonitoringController(monitor),
		RadarController:      controllers.NewRadarController(threatRepo, monitor, cfg, customerID),
		GraphController:      controllers.NewGraphController(threatRepo, monitor, cfg, customerID),
		ChartsController:     controllers.NewChartsController(threatRepo, customerID),
		ThreatsController:    controllers.NewThreatsController(threatRepo, archiveRepo, collector, redisClient, customerID),
		ReportController:     controllers.NewReportController(renderer, sched, monitor),
		SystemController:     controllers.NewSystemController(redisClient),
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/charts"
	"threat-radar/internal/models"
	"threat-radar/internal/monitoring"
	"threat-radar/internal/redis"
	"threat-radar/internal/repository"
)

// OverviewController 概览控制器
// 聚合KPI、摄取统计和系统指标，服务仪表盘首屏
type OverviewController struct {
	repo        *repository.ThreatRepository
	monitor     *monitoring.Monitor
	redisClient *redis.Client
	customerID  string
}

// NewOverviewController 创建概览控制器实例
func NewOverviewController(repo *repository.ThreatRepository, monitor *monitoring.Monitor, redisClient *redis.Client, customerID string) *OverviewController {
	return &OverviewController{
		repo:        repo,
		monitor:     monitor,
		redisClient: redisClient,
		customerID:  customerID,
	}
}

// GetOverview 获取概览信息
func (c *OverviewController) GetOverview(ctx *gin.Context) {
	// 概览不做任何过滤，展示快照全量
	filters := models.ThreatFilters{ShowThreats: true, ShowAssets: true}
	threats, err := c.repo.ListThreats(ctx, c.customerID, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return
	}

	kpi := charts.KPI(threats)
	activity := charts.Activity(threats)
	assets := charts.Assets(threats)

	snapshot, _ := c.repo.GetSnapshot(ctx, c.customerID)
	var generatedAt interface{}
	if snapshot != nil {
		generatedAt = snapshot.Meta.GeneratedAt
	}

	feedStats := map[string]string{}
	if c.redisClient != nil {
		if stats, err := c.redisClient.GetFeedStats(c.customerID); err == nil {
			feedStats = stats
		}
	}

	var systemStats map[string]interface{}
	if c.monitor != nil {
		systemStats = c.monitor.GetStats()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"kpi":          kpi,
			"activity":     activity,
			"topAssets":    assets,
			"generatedAt":  generatedAt,
			"feedStats":    feedStats,
			"systemStats":  systemStats,
			"totalThreats": len(threats),
		},
	})
}

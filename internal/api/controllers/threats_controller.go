package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/feed"
	"threat-radar/internal/logging"
	"threat-radar/internal/redis"
	"threat-radar/internal/repository"
)

// ThreatsController 威胁数据控制器
type ThreatsController struct {
	repo        *repository.ThreatRepository
	archive     *repository.ArchiveRepository
	collector   *feed.Collector
	redisClient *redis.Client
	customerID  string
}

// NewThreatsController 创建威胁数据控制器实例
func NewThreatsController(
	repo *repository.ThreatRepository,
	archive *repository.ArchiveRepository,
	collector *feed.Collector,
	redisClient *redis.Client,
	customerID string,
) *ThreatsController {
	return &ThreatsController{
		repo:        repo,
		archive:     archive,
		collector:   collector,
		redisClient: redisClient,
		customerID:  customerID,
	}
}

// ListThreats 获取过滤后的威胁列表，支持分页
func (c *ThreatsController) ListThreats(ctx *gin.Context) {
	filters, err := parseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	threats, err := c.repo.ListThreats(ctx, c.customerID, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	total := len(threats)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"items":    threats[start:end],
			"total":    total,
			"page":     page,
			"pageSize": pageSize,
		},
	})
}

// GetThreat 获取单个威胁详情
func (c *ThreatsController) GetThreat(ctx *gin.Context) {
	threatID := ctx.Param("id")

	threat, err := c.repo.GetThreat(ctx, c.customerID, threatID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threat",
		})
		return
	}
	if threat == nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "Threat not found",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    threat,
	})
}

// RefreshFeed 手动触发一次威胁源刷新
func (c *ThreatsController) RefreshFeed(ctx *gin.Context) {
	if c.collector == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "Feed collector is not available",
		})
		return
	}

	snapshot, err := c.collector.Refresh(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": "Feed refresh failed: " + err.Error(),
		})
		return
	}

	// 记录系统日志
	logging.DefaultLogger.LogAdminAction(
		ctx.GetString("username"),
		ctx.ClientIP(),
		"feed_refresh",
		"feed",
		map[string]interface{}{"total_threats": snapshot.Meta.TotalThreats},
		"success",
		"Feed refreshed manually",
	)

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Feed refreshed successfully",
		"data": gin.H{
			"generated_at":  snapshot.Meta.GeneratedAt,
			"total_threats": snapshot.Meta.TotalThreats,
		},
	})
}

// GetFeedStats 获取威胁源摄取统计
func (c *ThreatsController) GetFeedStats(ctx *gin.Context) {
	if c.redisClient == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Redis client not available",
		})
		return
	}

	stats, err := c.redisClient.GetFeedStats(c.customerID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to get feed stats",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    stats,
	})
}

// ListArchived 获取长期归档中的威胁
// days参数控制回看窗口，默认90天
func (c *ThreatsController) ListArchived(ctx *gin.Context) {
	if c.archive == nil || !c.archive.Enabled() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "Threat archive is not enabled",
		})
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "90"))
	if days < 1 {
		days = 90
	}
	since := time.Now().AddDate(0, 0, -days)

	archived, err := c.archive.ListArchived(c.customerID, since)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to list archived threats",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"items": archived,
			"total": len(archived),
			"since": since,
		},
	})
}

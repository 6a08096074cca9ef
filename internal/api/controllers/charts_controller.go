package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/charts"
	"threat-radar/internal/models"
	"threat-radar/internal/repository"
)

// ChartsController 图表控制器
// 所有图表都基于过滤后的威胁集合计算，与雷达和关系图共享同一份数据
type ChartsController struct {
	repo       *repository.ThreatRepository
	customerID string
}

// NewChartsController 创建图表控制器实例
func NewChartsController(repo *repository.ThreatRepository, customerID string) *ChartsController {
	return &ChartsController{
		repo:       repo,
		customerID: customerID,
	}
}

// listThreats 按查询参数加载过滤后的威胁集合
func (c *ChartsController) listThreats(ctx *gin.Context) ([]*models.Threat, bool) {
	filters, err := parseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return nil, false
	}

	threats, err := c.repo.ListThreats(ctx, c.customerID, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return nil, false
	}
	return threats, true
}

// GetActivity 获取按日聚合的威胁活动趋势
func (c *ChartsController) GetActivity(ctx *gin.Context) {
	threats, ok := c.listThreats(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    charts.Activity(threats),
	})
}

// GetAssets 获取受影响最多的资产排行
func (c *ChartsController) GetAssets(ctx *gin.Context) {
	threats, ok := c.listThreats(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    charts.Assets(threats),
	})
}

// GetKPI 获取威胁概要指标
func (c *ChartsController) GetKPI(ctx *gin.Context) {
	threats, ok := c.listThreats(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    charts.KPI(threats),
	})
}

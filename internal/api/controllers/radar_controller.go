package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/config"
	"threat-radar/internal/models"
	"threat-radar/internal/monitoring"
	"threat-radar/internal/radar"
	"threat-radar/internal/repository"
)

// RadarController 雷达视图控制器
type RadarController struct {
	repo       *repository.ThreatRepository
	monitor    *monitoring.Monitor
	cfg        *config.Config
	customerID string
}

// NewRadarController 创建雷达视图控制器实例
func NewRadarController(repo *repository.ThreatRepository, monitor *monitoring.Monitor, cfg *config.Config, customerID string) *RadarController {
	return &RadarController{
		repo:       repo,
		monitor:    monitor,
		cfg:        cfg,
		customerID: customerID,
	}
}

// radiusModel 根据配置选择半径模型
func (c *RadarController) radiusModel() radar.RadiusModel {
	if c.cfg.Radar.Model == "polar" {
		return radar.PolarModel
	}
	return radar.RingModel
}

// quadrantPolicy 根据查询参数选择象限分类策略，默认按资产关键词
func quadrantPolicy(ctx *gin.Context) radar.QuadrantPolicy {
	if ctx.Query("quadrants") == "stage" {
		return radar.ClassifyByStage
	}
	return nil
}

// layoutPositions 在未按等级过滤的威胁集合上布局，再对已定位的点做等级过滤
// 环模型的碰撞规避依赖完整集合，先过滤再布局会让保留点因邻居消失而移位
func layoutPositions(engine *radar.Engine, threats []*models.Threat, filters models.ThreatFilters, canvasSize float64) []radar.ThreatPosition {
	positions := engine.Layout(threats, canvasSize)
	return radar.FilterBySeverity(positions, filters.Severities)
}

// listForLayout 取用于布局的威胁集合
// 其他过滤条件照常生效，等级过滤被排除，留给layoutPositions在布局后执行
func (c *RadarController) listForLayout(ctx *gin.Context, filters models.ThreatFilters) ([]*models.Threat, error) {
	layoutFilters := filters
	layoutFilters.Severities = nil
	return c.repo.ListThreats(ctx, c.customerID, layoutFilters)
}

// zoomLimits 雷达视图缩放范围
func (c *RadarController) zoomLimits() radar.ZoomLimits {
	limits := radar.ZoomLimits{Min: c.cfg.Radar.ZoomMin, Max: c.cfg.Radar.ZoomMax}
	if limits.Min == 0 && limits.Max == 0 {
		limits = radar.DefaultZoomLimits
	}
	return limits
}

// GetLayout 获取雷达布局
// 等级过滤是布局后的纯子集过滤：保留点的坐标与未过滤布局完全一致
func (c *RadarController) GetLayout(ctx *gin.Context) {
	filters, err := parseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	threats, err := c.listForLayout(ctx, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return
	}

	canvasSize := c.cfg.Radar.CanvasSize
	engine := radar.NewEngine(c.radiusModel(), quadrantPolicy(ctx))

	start := time.Now()
	positions := layoutPositions(engine, threats, filters, canvasSize)
	if c.monitor != nil {
		c.monitor.RecordLayoutDuration(time.Since(start))
	}

	limits := c.zoomLimits()
	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"canvas_size": canvasSize,
			"model":       c.cfg.Radar.Model,
			"zoom_min":    limits.Min,
			"zoom_max":    limits.Max,
			"positions":   positions,
		},
	})
}

// HitTest 命中检测
// 请求携带屏幕坐标和当前视图变换，服务端反演后在画布坐标系比较
func (c *RadarController) HitTest(ctx *gin.Context) {
	var req struct {
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
		Zoom float64 `json:"zoom"`
		PanX float64 `json:"pan_x"`
		PanY float64 `json:"pan_y"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid request",
		})
		return
	}

	filters, err := parseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	threats, err := c.listForLayout(ctx, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return
	}

	canvasSize := c.cfg.Radar.CanvasSize
	engine := radar.NewEngine(c.radiusModel(), quadrantPolicy(ctx))
	positions := layoutPositions(engine, threats, filters, canvasSize)

	transform := radar.NewViewTransform(canvasSize, canvasSize, c.zoomLimits())
	if req.Zoom > 0 {
		transform.SetZoom(req.Zoom)
	}
	transform.Pan(req.PanX, req.PanY)

	hit := radar.HitTest(positions, transform, req.X, req.Y)
	if c.monitor != nil {
		c.monitor.RecordHitTest()
	}

	var data interface{}
	if hit != nil {
		data = hit.Threat
	}
	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    data,
	})
}

// GetRenderHints 获取渲染提示
// new状态的点带脉冲动画标志，选中点高亮
func (c *RadarController) GetRenderHints(ctx *gin.Context) {
	filters, err := parseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	var selected []string
	if raw := ctx.Query("selected"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part != "" {
				selected = append(selected, part)
			}
		}
	}

	threats, err := c.listForLayout(ctx, filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to load threats",
		})
		return
	}

	engine := radar.NewEngine(c.radiusModel(), quadrantPolicy(ctx))
	positions := layoutPositions(engine, threats, filters, c.cfg.Radar.CanvasSize)
	hints := radar.RenderHints(positions, selected)

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"hints":       hints,
			"pulse_phase": radar.PulsePhase(time.Now()),
		},
	})
}

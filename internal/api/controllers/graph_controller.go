package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/config"
	"threat-radar/internal/graph"
	"threat-radar/internal/monitoring"
	"threat-radar/internal/radar"
	"threat-radar/internal/repository"
)

// GraphController 威胁资产关系图控制器
type GraphController struct {
	repo       *repository.ThreatRepository
	monitor    *monitoring.Monitor
	cfg        *config.Config
	customerID string
}

// NewGraphController 创建关系图控制器实例
func NewGraphController(repo *repository.ThreatRepository, monitor *monitoring.Monitor, cfg *config.Config, customerID string) *GraphController {
	return &GraphController{
		repo:       repo,
		monitor:    monitor,
		cfg:        cfg,
		customerID: customerID,
	}
}

// graphNodeView 节点的序列化视图
type graphNodeView struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	Severity string  `json:"severity,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pinned   bool    `json:"pinned"`
}

// graphLinkView 连线的序列化视图
type graphLinkView struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// buildAndRun 构建关系图并运行力导向布局
func (c *GraphController) buildAndRun(ctx *gin.Context) (*graph.Graph, bool) {
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

	g := graph.Build(threats, filters)

	start := time.Now()
	layout := graph.NewLayout(c.cfg.Graph.Width, c.cfg.Graph.Height, nil)
	layout.Run(g)
	if c.monitor != nil {
		c.monitor.RecordSimulationDuration(time.Since(start))
	}

	return g, true
}

// GetGraph 获取力导向布局后的关系图
// 布局是确定性的：同一威胁集合和过滤条件总是得到相同坐标
func (c *GraphController) GetGraph(ctx *gin.Context) {
	g, ok := c.buildAndRun(ctx)
	if !ok {
		return
	}

	nodes := make([]graphNodeView, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, graphNodeView{
			ID:       n.ID,
			Type:     string(n.Type),
			Label:    n.Label,
			Severity: string(n.Severity),
			X:        n.X,
			Y:        n.Y,
			Pinned:   n.Pinned(),
		})
	}

	links := make([]graphLinkView, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, graphLinkView{Source: l.Source, Target: l.Target})
	}

	zoomLimits := radar.ZoomLimits{Min: c.cfg.Graph.ZoomMin, Max: c.cfg.Graph.ZoomMax}
	if zoomLimits.Min == 0 && zoomLimits.Max == 0 {
		zoomLimits = radar.NarrowZoomLimits
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"width":    c.cfg.Graph.Width,
			"height":   c.cfg.Graph.Height,
			"zoom_min": zoomLimits.Min,
			"zoom_max": zoomLimits.Max,
			"nodes":    nodes,
			"links":    links,
		},
	})
}

// GetNeighborhood 获取焦点节点的一跳邻域
// 前端据此对邻域之外的节点做淡出
func (c *GraphController) GetNeighborhood(ctx *gin.Context) {
	focalID := ctx.Query("focus")
	if focalID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "focus parameter is required",
		})
		return
	}

	g, ok := c.buildAndRun(ctx)
	if !ok {
		return
	}

	neighborhood := graph.Neighborhood(g, focalID)
	if neighborhood == nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "Node not found",
		})
		return
	}

	ids := make([]string, 0, len(neighborhood))
	for id := range neighborhood {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"focus":        focalID,
			"neighborhood": ids,
		},
	})
}

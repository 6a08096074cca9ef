package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/monitoring"
	"threat-radar/internal/report"
	"threat-radar/internal/scheduler"
)

// ReportController 报告快照控制器
type ReportController struct {
	renderer *report.Renderer
	sched    *scheduler.Scheduler
	monitor  *monitoring.Monitor
}

// NewReportController 创建报告快照控制器实例
func NewReportController(renderer *report.Renderer, sched *scheduler.Scheduler, monitor *monitoring.Monitor) *ReportController {
	return &ReportController{
		renderer: renderer,
		sched:    sched,
		monitor:  monitor,
	}
}

// Render 同步渲染一次仪表盘报告
func (c *ReportController) Render(ctx *gin.Context) {
	if c.renderer == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "Report renderer is not enabled",
		})
		return
	}

	result := c.renderer.Render()
	if c.monitor != nil {
		c.monitor.RecordReportRender(result.Success)
	}

	if !result.Success {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": result.Error,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Report rendered successfully",
		"data":    result,
	})
}

// ListReports 列出已生成的报告文件
func (c *ReportController) ListReports(ctx *gin.Context) {
	if c.renderer == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "Report renderer is not enabled",
		})
		return
	}

	reports, err := c.renderer.ListReports()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to list reports",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data":    reports,
	})
}

// GetTaskStatus 获取报告定时任务状态
func (c *ReportController) GetTaskStatus(ctx *gin.Context) {
	if c.sched == nil {
		ctx.JSON(http.StatusOK, gin.H{
			"code":    200,
			"message": "success",
			"data": gin.H{
				"scheduled": false,
				"nextRun":   "",
			},
		})
		return
	}

	scheduled, nextRun := c.sched.GetTaskStatus("report_render")
	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "success",
		"data": gin.H{
			"scheduled": scheduled,
			"nextRun":   nextRun,
		},
	})
}

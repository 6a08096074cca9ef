package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/models"
)

// parseFilters 从查询参数解析威胁过滤条件
// 取值在API边界校验，非法值直接报错而不是静默忽略
func parseFilters(ctx *gin.Context) (models.ThreatFilters, error) {
	filters := models.DefaultFilters()

	filters.Query = ctx.Query("q")

	if raw := ctx.Query("severities"); raw != "" {
		filters.Severities = nil
		for _, part := range strings.Split(raw, ",") {
			s := models.Severity(strings.TrimSpace(part))
			if !models.ValidSeverity(s) {
				return filters, fmt.Errorf("invalid severity: %s", part)
			}
			filters.Severities = append(filters.Severities, s)
		}
	}

	if raw := ctx.Query("statuses"); raw != "" {
		filters.Statuses = nil
		for _, part := range strings.Split(raw, ",") {
			s := models.Status(strings.TrimSpace(part))
			if !models.ValidStatus(s) {
				return filters, fmt.Errorf("invalid status: %s", part)
			}
			filters.Statuses = append(filters.Statuses, s)
		}
	}

	if raw := ctx.Query("range"); raw != "" {
		r := models.TimeRange(raw)
		if !models.ValidTimeRange(r) {
			return filters, fmt.Errorf("invalid time range: %s", raw)
		}
		filters.TimeRange = r
	}

	if raw := ctx.Query("assets"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id := strings.TrimSpace(part); id != "" {
				filters.AssetIDs = append(filters.AssetIDs, id)
			}
		}
	}

	if raw := ctx.Query("show_threats"); raw != "" {
		filters.ShowThreats = raw != "false" && raw != "0"
	}
	if raw := ctx.Query("show_assets"); raw != "" {
		filters.ShowAssets = raw != "false" && raw != "0"
	}

	return filters, nil
}

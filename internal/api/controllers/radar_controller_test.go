package controllers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
	"threat-radar/internal/radar"
)

// ringThreats 同一象限内的密集威胁集合，小画布上各环必然相互挤压
func ringThreats(n int) []*models.Threat {
	sevs := []models.Severity{
		models.SeverityCritical,
		models.SeverityHigh,
		models.SeverityMedium,
		models.SeverityLow,
	}
	threats := make([]*models.Threat, 0, n)
	for i := 0; i < n; i++ {
		threats = append(threats, &models.Threat{
			ID:       fmt.Sprintf("radar-%02d", i),
			Severity: sevs[i%4],
			AssetsImpacted: []models.ThreatAsset{
				{ProductID: "prod-okta", ProductName: "Okta SSO"},
			},
		})
	}
	return threats
}

func TestLayoutPositionsSeverityIsPostFilter(t *testing.T) {
	const canvasSize = 520.0
	threats := ringThreats(12)
	engine := radar.NewEngine(radar.RingModel, nil)

	full := engine.Layout(threats, canvasSize)
	fullByID := make(map[string]radar.ThreatPosition, len(full))
	for _, p := range full {
		fullByID[p.ID] = p
	}

	filters := models.DefaultFilters()
	filters.Severities = []models.Severity{models.SeverityHigh}
	retained := layoutPositions(engine, threats, filters, canvasSize)
	require.Len(t, retained, 3)

	// 保留点的坐标与未过滤布局完全一致
	for _, p := range retained {
		assert.Equal(t, models.SeverityHigh, p.Threat.Severity)
		assert.Equal(t, fullByID[p.ID].X, p.X, "x coordinate changed for %s", p.ID)
		assert.Equal(t, fullByID[p.ID].Y, p.Y, "y coordinate changed for %s", p.ID)
	}

	// 对照：先过滤再布局会因碰撞规避的邻居集合不同而移位
	var subset []*models.Threat
	for _, th := range threats {
		if th.Severity == models.SeverityHigh {
			subset = append(subset, th)
		}
	}
	prefiltered := engine.Layout(subset, canvasSize)
	moved := 0
	for _, p := range prefiltered {
		if p.X != fullByID[p.ID].X || p.Y != fullByID[p.ID].Y {
			moved++
		}
	}
	assert.Greater(t, moved, 0, "expected the pre-filtered layout to shift at least one point")
}

func TestLayoutPositionsNoSeverityFilter(t *testing.T) {
	threats := ringThreats(8)
	engine := radar.NewEngine(radar.RingModel, nil)

	positions := layoutPositions(engine, threats, models.DefaultFilters(), 2000)
	assert.Len(t, positions, len(threats))
}

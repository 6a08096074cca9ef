package radar

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
)

func makeRingThreats(n int, severity models.Severity) []*models.Threat {
	threats := make([]*models.Threat, 0, n)
	for i := 0; i < n; i++ {
		threats = append(threats, &models.Threat{
			ID:       fmt.Sprintf("threat-%03d", i),
			Severity: severity,
		})
	}
	return threats
}

func distance(a, b ThreatPosition) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func TestLayout_ZeroCanvasIsNoop(t *testing.T) {
	engine := NewEngine(RingModel, nil)
	assert.Nil(t, engine.Layout(makeRingThreats(5, models.SeverityHigh), 0))
	assert.Nil(t, engine.Layout(nil, 2000))
}

func TestLayout_Deterministic(t *testing.T) {
	engine := NewEngine(RingModel, nil)
	threats := makeRingThreats(50, models.SeverityLow)

	first := engine.Layout(threats, 2000)
	second := engine.Layout(threats, 2000)
	require.Len(t, first, 50)
	require.Len(t, second, 50)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].X, second[i].X)
		assert.Equal(t, first[i].Y, second[i].Y)
	}
}

func TestLayout_CollisionAvoidanceSeparatesSparseRing(t *testing.T) {
	// 同一环上的少量点经过碰撞规避后两两间距不低于最小间距
	engine := NewEngine(RingModel, nil)
	positions := engine.Layout(makeRingThreats(12, models.SeverityLow), 2000)
	require.Len(t, positions, 12)

	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			assert.GreaterOrEqual(t, distance(positions[i], positions[j]), minSeparation,
				"%s vs %s", positions[i].ID, positions[j].ID)
		}
	}
}

func TestLayout_BoundedEffortOnDenseRing(t *testing.T) {
	// 密集环上的碰撞规避有界：所有点都被放置，残余碰撞保持在小范围内
	engine := NewEngine(RingModel, nil)
	positions := engine.Layout(makeRingThreats(50, models.SeverityLow), 4000)
	require.Len(t, positions, 50)

	violations := 0
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if distance(positions[i], positions[j]) < minSeparation {
				violations++
			}
		}
	}
	assert.LessOrEqual(t, violations, 20)
}

func TestLayout_SeverityDeterminesRing(t *testing.T) {
	engine := NewEngine(RingModel, nil)
	threats := []*models.Threat{
		{ID: "crit-1", Severity: models.SeverityCritical},
		{ID: "low-1", Severity: models.SeverityLow},
	}
	positions := engine.Layout(threats, 2000)
	require.Len(t, positions, 2)

	center := 1000.0
	critDist := math.Hypot(positions[0].X-center, positions[0].Y-center)
	lowDist := math.Hypot(positions[1].X-center, positions[1].Y-center)
	assert.Less(t, critDist, lowDist)
}

func TestLayout_PolarFieldsTakePrecedence(t *testing.T) {
	// 携带预计算极坐标的威胁跳过环模型，theta=0/radius=1落在最大半径的正右侧
	theta := 0.0
	radius := 1.0
	threats := []*models.Threat{{
		ID:         "polar-1",
		Severity:   models.SeverityCritical,
		ThetaDeg:   &theta,
		RadiusNorm: &radius,
	}}

	engine := NewEngine(RingModel, nil)
	positions := engine.Layout(threats, 2000)
	require.Len(t, positions, 1)

	maxRadius := 2000 * canvasUsage / 2
	assert.InDelta(t, 1000+maxRadius, positions[0].X, 1e-9)
	assert.InDelta(t, 1000.0, positions[0].Y, 1e-9)
}

func TestLayout_PolarModelFallsBackToHashAngle(t *testing.T) {
	// 极坐标视图里缺少极坐标字段的威胁退化为哈希角度，布局仍然确定
	engine := NewEngine(PolarModel, nil)
	threats := []*models.Threat{{ID: "no-polar", Severity: models.SeverityHigh, PrioritizationScore: 0.7}}

	first := engine.Layout(threats, 2000)
	second := engine.Layout(threats, 2000)
	require.Len(t, first, 1)
	assert.Equal(t, first[0].X, second[0].X)
	assert.Equal(t, first[0].Y, second[0].Y)

	// 1 - prioritization = 0.3 的归一化半径
	maxRadius := 2000 * canvasUsage / 2
	dist := math.Hypot(first[0].X-1000, first[0].Y-1000)
	assert.InDelta(t, 0.3*maxRadius, dist, 1e-9)
}

func TestFilterBySeverity_PureSubset(t *testing.T) {
	engine := NewEngine(RingModel, nil)
	threats := makeRingThreats(20, models.SeverityLow)
	threats[3].Severity = models.SeverityCritical
	threats[7].Severity = models.SeverityCritical
	threats[11].Severity = models.SeverityHigh

	full := engine.Layout(threats, 2000)
	filtered := FilterBySeverity(full, []models.Severity{models.SeverityCritical})
	require.Len(t, filtered, 2)

	// 过滤保留原布局坐标，从不触发重新定位
	byID := make(map[string]ThreatPosition, len(full))
	for _, p := range full {
		byID[p.ID] = p
	}
	for _, p := range filtered {
		orig := byID[p.ID]
		assert.Equal(t, orig.X, p.X)
		assert.Equal(t, orig.Y, p.Y)
	}
}

func TestFilterBySeverity_EmptyFilterKeepsAll(t *testing.T) {
	engine := NewEngine(RingModel, nil)
	full := engine.Layout(makeRingThreats(5, models.SeverityMedium), 2000)
	assert.Len(t, FilterBySeverity(full, nil), 5)
}

package radar

import (
	"math"

	"threat-radar/internal/models"
)

const (
	// severityRings 严重度环数，critical=1最靠近圆心
	severityRings = 4
	// canvasUsage 画布利用率，留出15%边距
	canvasUsage = 0.85
	// minSeparation 点间最小间距（像素）
	minSeparation = 60.0
	// collisionRotate 碰撞时的角度步进
	collisionRotate = 30.0
	// maxCollisionAttempts 碰撞规避尝试上限，超出后无条件接受最终位置
	maxCollisionAttempts = 10
)

// ThreatPosition 威胁在画布上的位置
// 每次布局重新计算，从不持久化
type ThreatPosition struct {
	ID     string         `json:"id"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Threat *models.Threat `json:"threat"`
}

// RadiusModel 半径推导模型
type RadiusModel int

const (
	// RingModel 环模型：severityRank决定半径，象限分类加哈希抖动决定角度
	RingModel RadiusModel = iota
	// PolarModel 极坐标模型：直接使用威胁携带的theta_deg/radius_norm
	PolarModel
)

// QuadrantPolicy 象限分类策略函数
type QuadrantPolicy func(*models.Threat) Quadrant

// Engine 雷达布局引擎
// 每个视图固定一种半径模型；携带预计算极坐标的威胁始终优先走极坐标路径。
type Engine struct {
	model    RadiusModel
	classify QuadrantPolicy
}

// NewEngine 创建雷达布局引擎
// policy为nil时使用关键词策略
func NewEngine(model RadiusModel, policy QuadrantPolicy) *Engine {
	if policy == nil {
		policy = ClassifyByKeyword
	}
	return &Engine{model: model, classify: policy}
}

// severityRank 严重度环号，critical=1..low=4，未知等级落在最外环
func severityRank(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return 1
	case models.SeverityHigh:
		return 2
	case models.SeverityMedium:
		return 3
	default:
		return 4
	}
}

// Layout 将威胁列表转换为画布坐标
// canvasSize为0时跳过布局（卸载/零尺寸画布的无操作防护）
func (e *Engine) Layout(threats []*models.Threat, canvasSize float64) []ThreatPosition {
	if canvasSize <= 0 || len(threats) == 0 {
		return nil
	}

	center := canvasSize / 2
	maxRadius := canvasSize * canvasUsage / 2
	ringStep := maxRadius / severityRings

	positions := make([]ThreatPosition, 0, len(threats))
	for _, t := range threats {
		var x, y float64
		if t.HasPolar() {
			// 极坐标模型优先：跳过分类和碰撞规避
			x, y = polarToCanvas(*t.ThetaDeg, *t.RadiusNorm, center, maxRadius)
		} else if e.model == PolarModel {
			// 极坐标视图里缺少极坐标字段的威胁退化为哈希角度
			theta := float64(StableHash(t.ID, 360))
			radius := 1.0 - t.PrioritizationScore
			if radius <= 0 {
				radius = float64(severityRank(t.Severity)) / severityRings
			}
			x, y = polarToCanvas(theta, radius, center, maxRadius)
		} else {
			x, y = e.placeOnRing(t, positions, center, ringStep)
		}
		positions = append(positions, ThreatPosition{ID: t.ID, X: x, Y: y, Threat: t})
	}

	return positions
}

// placeOnRing 环模型定位加碰撞规避
// 候选角度与已放置点距离不足60px时顺时针旋转30°重试，
// 最多10次，最后一次无条件接受（有界开销，不保证完全无碰撞）。
func (e *Engine) placeOnRing(t *models.Threat, placed []ThreatPosition, center, ringStep float64) (float64, float64) {
	radius := float64(severityRank(t.Severity)) * ringStep
	quadMin, _ := e.classify(t).AngleRange()
	angle := quadMin + float64(StableHash(t.ID, 90))

	var x, y float64
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		x, y = polarDegToXY(angle, radius, center)
		if !collides(x, y, placed) {
			return x, y
		}
		angle += collisionRotate
	}
	return x, y
}

// collides 判断候选点与任何已放置点的距离是否小于最小间距
func collides(x, y float64, placed []ThreatPosition) bool {
	for i := range placed {
		dx := x - placed[i].X
		dy := y - placed[i].Y
		if math.Sqrt(dx*dx+dy*dy) < minSeparation {
			return true
		}
	}
	return false
}

// polarToCanvas 归一化极坐标 → 画布坐标
func polarToCanvas(thetaDeg, radiusNorm float64, center, maxRadius float64) (float64, float64) {
	if radiusNorm < 0 {
		radiusNorm = 0
	}
	if radiusNorm > 1 {
		radiusNorm = 1
	}
	return polarDegToXY(thetaDeg, radiusNorm*maxRadius, center)
}

// polarDegToXY 极坐标（度）转直角坐标，画布Y轴向下
func polarDegToXY(thetaDeg, radius, center float64) (float64, float64) {
	rad := thetaDeg * math.Pi / 180.0
	return center + radius*math.Cos(rad), center - radius*math.Sin(rad)
}

// FilterBySeverity 对已定位点集做纯子集过滤
// 保留点的(x,y)与未过滤布局完全一致，过滤永远不触发重新定位
func FilterBySeverity(positions []ThreatPosition, severities []models.Severity) []ThreatPosition {
	if len(severities) == 0 {
		return positions
	}
	allowed := make(map[models.Severity]bool, len(severities))
	for _, s := range severities {
		allowed[s] = true
	}
	filtered := make([]ThreatPosition, 0, len(positions))
	for _, p := range positions {
		if p.Threat != nil && allowed[p.Threat.Severity] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

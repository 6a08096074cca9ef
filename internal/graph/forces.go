package graph

import (
	"math"
)

// 力模拟默认参数
const (
	defaultLinkDistance    = 100.0
	defaultChargeStrength  = -500.0
	defaultCollisionRadius = 40.0
	defaultVelocityDecay   = 0.6
	defaultAlphaDecay      = 0.0228
	alphaMin               = 0.001
)

// ForceEngine 力模拟引擎
// Step推进一个tick；实现必须是确定性的，相同输入产生相同输出
type ForceEngine interface {
	Step(nodes []*Node, links []Link)
}

// Simulator 默认力模拟引擎
// 连接力（目标距离100）、多体排斥（-500）、向心力和碰撞力的组合，
// 每tick按alpha衰减降温直至收敛。
type Simulator struct {
	LinkDistance    float64
	ChargeStrength  float64
	CollisionRadius float64
	VelocityDecay   float64
	CenterX         float64
	CenterY         float64

	alpha float64
}

// NewSimulator 创建默认参数的力模拟引擎
func NewSimulator(centerX, centerY float64) *Simulator {
	return &Simulator{
		LinkDistance:    defaultLinkDistance,
		ChargeStrength:  defaultChargeStrength,
		CollisionRadius: defaultCollisionRadius,
		VelocityDecay:   defaultVelocityDecay,
		CenterX:         centerX,
		CenterY:         centerY,
		alpha:           1.0,
	}
}

// Reset 重置降温进度，布局重跑前调用
func (s *Simulator) Reset() {
	s.alpha = 1.0
}

// Step 推进一个模拟tick
func (s *Simulator) Step(nodes []*Node, links []Link) {
	if len(nodes) == 0 {
		return
	}
	if s.alpha < alphaMin {
		return
	}
	s.alpha += (alphaMin - s.alpha) * defaultAlphaDecay

	index := make(map[string]*Node, len(nodes))
	degree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}
	for _, l := range links {
		degree[l.Source]++
		degree[l.Target]++
	}

	s.applyLinks(index, degree, links)
	s.applyCharge(nodes)
	s.applyCenter(nodes)

	// 积分：速度衰减后落到坐标，钉住的节点强制回到钉点
	for _, n := range nodes {
		if n.Pinned() {
			n.X = *n.FX
			n.Y = *n.FY
			n.VX = 0
			n.VY = 0
			continue
		}
		n.VX *= s.VelocityDecay
		n.VY *= s.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}

	s.applyCollision(nodes)
}

// applyLinks 弹簧力把相连节点拉向目标距离
// 按两端度数分配位移，度数高的一端移动得更少
func (s *Simulator) applyLinks(index map[string]*Node, degree map[string]int, links []Link) {
	for _, l := range links {
		source := index[l.Source]
		target := index[l.Target]
		if source == nil || target == nil {
			continue
		}

		dx := target.X + target.VX - source.X - source.VX
		dy := target.Y + target.VY - source.Y - source.VY
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			dx, dy, dist = 1e-6, 0, 1e-6
		}

		strength := 1.0 / float64(min(degree[l.Source], degree[l.Target]))
		push := (dist - s.LinkDistance) / dist * s.alpha * strength
		bias := float64(degree[l.Source]) / float64(degree[l.Source]+degree[l.Target])

		target.VX -= dx * push * bias
		target.VY -= dy * push * bias
		source.VX += dx * push * (1 - bias)
		source.VY += dy * push * (1 - bias)
	}
}

// applyCharge 多体排斥，逐对计算
// 节点数量由过滤器约束在小规模，O(n²)扫描可以接受
func (s *Simulator) applyCharge(nodes []*Node) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq == 0 {
				dx, distSq = 1e-6, 1e-12
			}

			force := s.ChargeStrength * s.alpha / distSq
			a.VX += dx * force
			a.VY += dy * force
			b.VX -= dx * force
			b.VY -= dy * force
		}
	}
}

// applyCenter 向心力，把质心平移回画布中心
func (s *Simulator) applyCenter(nodes []*Node) {
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	dx := sx/float64(len(nodes)) - s.CenterX
	dy := sy/float64(len(nodes)) - s.CenterY
	for _, n := range nodes {
		if n.Pinned() {
			continue
		}
		n.X -= dx
		n.Y -= dy
	}
}

// applyCollision 碰撞力，把重叠的节点对沿连线方向推开
func (s *Simulator) applyCollision(nodes []*Node) {
	minDist := s.CollisionRadius * 2
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= minDist {
				continue
			}
			if dist == 0 {
				dx, dist = 1e-6, 1e-6
			}

			overlap := (minDist - dist) / dist / 2
			if a.Pinned() && b.Pinned() {
				continue
			}
			if a.Pinned() {
				b.X += dx * overlap * 2
				b.Y += dy * overlap * 2
			} else if b.Pinned() {
				a.X -= dx * overlap * 2
				a.Y -= dy * overlap * 2
			} else {
				a.X -= dx * overlap
				a.Y -= dy * overlap
				b.X += dx * overlap
				b.Y += dy * overlap
			}
		}
	}
}

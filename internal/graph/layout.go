package graph

import (
	"math"
)

const (
	// simulationTicks 同步模拟tick数，跑完即停
	simulationTicks = 300
	// seedPadding 圆形播种相对画布的边距
	seedPadding = 50.0
)

// Layout 关系图布局器
// 模拟是同步有界的：播种、固定tick数、钉住。相同输入重复执行
// 产生完全相同的坐标，没有任何随机源。
type Layout struct {
	engine ForceEngine
	width  float64
	height float64
}

// NewLayout 创建关系图布局器
// engine为nil时使用默认力模拟引擎
func NewLayout(width, height float64, engine ForceEngine) *Layout {
	if engine == nil {
		engine = NewSimulator(width/2, height/2)
	}
	return &Layout{engine: engine, width: width, height: height}
}

// Run 执行完整布局
// 节点先按列表序均匀播种在圆周上，再同步推进固定tick数，
// 最后钉住所有节点。画布尺寸为0时跳过。
func (l *Layout) Run(g *Graph) {
	if g == nil || len(g.Nodes) == 0 || l.width <= 0 || l.height <= 0 {
		return
	}

	l.seed(g.Nodes)
	if s, ok := l.engine.(*Simulator); ok {
		s.Reset()
	}
	for tick := 0; tick < simulationTicks; tick++ {
		l.engine.Step(g.Nodes, g.Links)
	}
	for _, n := range g.Nodes {
		n.Pin()
	}
}

// seed 圆形播种，角度 = i/n × 2π
func (l *Layout) seed(nodes []*Node) {
	centerX := l.width / 2
	centerY := l.height / 2
	radius := math.Min(centerX, centerY) - seedPadding
	if radius < 1 {
		radius = 1
	}

	angleStep := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := float64(i) * angleStep
		n.X = centerX + radius*math.Cos(angle)
		n.Y = centerY + radius*math.Sin(angle)
		n.VX = 0
		n.VY = 0
		n.Unpin()
	}
}

// Drag 拖拽手势期间把节点钉到光标位置
// 钉点跟随光标移动，其余节点保持钉住不动
func (l *Layout) Drag(g *Graph, id string, x, y float64) {
	node := g.NodeByID(id)
	if node == nil {
		return
	}
	node.X = x
	node.Y = y
	node.Pin()
}

// EndDrag 拖拽结束，节点在释放位置重新钉住
func (l *Layout) EndDrag(g *Graph, id string) {
	node := g.NodeByID(id)
	if node == nil {
		return
	}
	node.Pin()
}

// Neighborhood 一阶邻域高亮
// 返回焦点节点及其直接相连节点的id集合，调用方据此对其余元素降透明度
func Neighborhood(g *Graph, focalID string) map[string]bool {
	if g.NodeByID(focalID) == nil {
		return nil
	}

	highlighted := map[string]bool{focalID: true}
	for _, l := range g.Links {
		if l.Source == focalID {
			highlighted[l.Target] = true
		}
		if l.Target == focalID {
			highlighted[l.Source] = true
		}
	}
	return highlighted
}

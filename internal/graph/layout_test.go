package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
)

func TestLayout_Deterministic(t *testing.T) {
	layout := NewLayout(1200, 800, nil)

	first := Build(sampleThreats(), models.DefaultFilters())
	second := Build(sampleThreats(), models.DefaultFilters())
	layout.Run(first)
	layout.Run(second)

	require.Equal(t, len(first.Nodes), len(second.Nodes))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].ID, second.Nodes[i].ID)
		assert.Equal(t, first.Nodes[i].X, second.Nodes[i].X)
		assert.Equal(t, first.Nodes[i].Y, second.Nodes[i].Y)
	}
}

func TestLayout_AllNodesPinnedAfterRun(t *testing.T) {
	layout := NewLayout(1200, 800, nil)
	g := Build(sampleThreats(), models.DefaultFilters())
	layout.Run(g)

	for _, n := range g.Nodes {
		assert.True(t, n.Pinned(), "node %s", n.ID)
		assert.Equal(t, n.X, *n.FX)
		assert.Equal(t, n.Y, *n.FY)
	}
}

func TestLayout_CoordinatesFinite(t *testing.T) {
	layout := NewLayout(1200, 800, nil)
	g := Build(sampleThreats(), models.DefaultFilters())
	layout.Run(g)

	for _, n := range g.Nodes {
		assert.False(t, math.IsNaN(n.X) || math.IsInf(n.X, 0), "node %s x", n.ID)
		assert.False(t, math.IsNaN(n.Y) || math.IsInf(n.Y, 0), "node %s y", n.ID)
	}
}

func TestLayout_NodesSeparatedAndCentered(t *testing.T) {
	layout := NewLayout(1200, 800, nil)
	g := Build(sampleThreats(), models.DefaultFilters())
	layout.Run(g)

	// 碰撞力收敛后任意两节点的间距不低于碰撞直径
	for i := 0; i < len(g.Nodes); i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			dist := math.Hypot(g.Nodes[i].X-g.Nodes[j].X, g.Nodes[i].Y-g.Nodes[j].Y)
			assert.GreaterOrEqual(t, dist, 2*defaultCollisionRadius-1,
				"%s vs %s", g.Nodes[i].ID, g.Nodes[j].ID)
		}
	}

	// 向心力把质心保持在画布中心
	var cx, cy float64
	for _, n := range g.Nodes {
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(g.Nodes))
	cy /= float64(len(g.Nodes))
	assert.InDelta(t, 600.0, cx, 1.0)
	assert.InDelta(t, 400.0, cy, 1.0)
}

func TestLayout_ZeroCanvasIsNoop(t *testing.T) {
	layout := NewLayout(0, 0, nil)
	g := Build(sampleThreats(), models.DefaultFilters())
	assert.NotPanics(t, func() { layout.Run(g) })
	assert.NotPanics(t, func() { layout.Run(nil) })
}

func TestLayout_DragMovesAndRepins(t *testing.T) {
	layout := NewLayout(1200, 800, nil)
	g := Build(sampleThreats(), models.DefaultFilters())
	layout.Run(g)

	layout.Drag(g, "t1", 50, 60)
	node := g.NodeByID("t1")
	assert.Equal(t, 50.0, node.X)
	assert.Equal(t, 60.0, node.Y)

	layout.EndDrag(g, "t1")
	require.True(t, node.Pinned())
	assert.Equal(t, 50.0, *node.FX)
	assert.Equal(t, 60.0, *node.FY)

	// 未知id的拖拽静默忽略
	assert.NotPanics(t, func() { layout.Drag(g, "missing", 0, 0) })
}

func TestNeighborhood_FirstOrder(t *testing.T) {
	g := Build(sampleThreats(), models.DefaultFilters())

	// a1连着t1和t2
	highlighted := Neighborhood(g, "a1")
	assert.Equal(t, map[string]bool{"a1": true, "t1": true, "t2": true}, highlighted)

	// t2只连a1，a2不在邻域内
	highlighted = Neighborhood(g, "t2")
	assert.True(t, highlighted["t2"])
	assert.True(t, highlighted["a1"])
	assert.False(t, highlighted["a2"])

	assert.Nil(t, Neighborhood(g, "missing"))
}

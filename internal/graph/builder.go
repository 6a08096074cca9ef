package graph

import (
	"threat-radar/internal/models"
)

// NodeType 节点类型
type NodeType string

const (
	NodeThreat NodeType = "threat"
	NodeAsset  NodeType = "asset"
)

// Node 关系图节点
// FX/FY非nil表示该节点被钉住，力模拟不再移动它
type Node struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Label    string          `json:"label"`
	Severity models.Severity `json:"severity,omitempty"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	VX       float64         `json:"-"`
	VY       float64         `json:"-"`
	FX       *float64        `json:"fx,omitempty"`
	FY       *float64        `json:"fy,omitempty"`
}

// Pinned 节点是否被钉住
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Pin 在当前坐标钉住节点
func (n *Node) Pin() {
	x, y := n.X, n.Y
	n.FX = &x
	n.FY = &y
	n.VX = 0
	n.VY = 0
}

// Unpin 解除钉住
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Link 威胁到资产的二部图边
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph 二部关系图
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Links []Link  `json:"links"`

	index map[string]*Node
}

// NodeByID 按id查找节点
func (g *Graph) NodeByID(id string) *Node {
	return g.index[id]
}

// Build 从威胁列表构建二部图
// 每个纳入的威胁一个节点，每个去重后的资产product_id一个节点；
// 只有两端类型都显示时才生成边，绝不产生威胁-威胁或资产-资产边。
func Build(threats []*models.Threat, filters models.ThreatFilters) *Graph {
	g := &Graph{index: make(map[string]*Node)}
	seenLinks := make(map[Link]bool)

	for _, t := range threats {
		if !filters.AllowSeverity(t.Severity) {
			continue
		}

		if filters.ShowThreats {
			node := &Node{
				ID:       t.ID,
				Type:     NodeThreat,
				Label:    t.ThreatName,
				Severity: t.Severity,
			}
			if node.Label == "" {
				node.Label = t.Title
			}
			g.Nodes = append(g.Nodes, node)
			g.index[node.ID] = node
		}

		for _, asset := range t.AssetsImpacted {
			if asset.ProductID == "" {
				continue
			}
			if filters.ShowAssets {
				if _, seen := g.index[asset.ProductID]; !seen {
					label := asset.ProductName
					if label == "" {
						label = "Unknown Asset"
					}
					node := &Node{ID: asset.ProductID, Type: NodeAsset, Label: label}
					g.Nodes = append(g.Nodes, node)
					g.index[node.ID] = node
				}
			}
			if filters.ShowThreats && filters.ShowAssets {
				// assets_impacted里重复出现的product_id只产生一条边
				link := Link{Source: t.ID, Target: asset.ProductID}
				if !seenLinks[link] {
					seenLinks[link] = true
					g.Links = append(g.Links, link)
				}
			}
		}
	}

	return g
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
)

func sampleThreats() []*models.Threat {
	return []*models.Threat{
		{
			ID:         "t1",
			ThreatName: "Ransomware Alpha",
			Severity:   models.SeverityCritical,
			AssetsImpacted: []models.ThreatAsset{
				{ProductID: "a1", ProductName: "Mail Gateway"},
				{ProductID: "a2", ProductName: "Core Database"},
			},
		},
		{
			ID:         "t2",
			ThreatName: "Phishing Beta",
			Severity:   models.SeverityLow,
			AssetsImpacted: []models.ThreatAsset{
				{ProductID: "a1", ProductName: "Mail Gateway"},
			},
		},
	}
}

func TestBuild_BipartiteStructure(t *testing.T) {
	g := Build(sampleThreats(), models.DefaultFilters())

	// 2个威胁节点 + 2个去重后的资产节点
	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Links, 3)

	types := map[string]NodeType{}
	for _, n := range g.Nodes {
		types[n.ID] = n.Type
	}
	assert.Equal(t, NodeThreat, types["t1"])
	assert.Equal(t, NodeThreat, types["t2"])
	assert.Equal(t, NodeAsset, types["a1"])
	assert.Equal(t, NodeAsset, types["a2"])

	// 每条边两端都必须存在且类型不同
	for _, l := range g.Links {
		source := g.NodeByID(l.Source)
		target := g.NodeByID(l.Target)
		require.NotNil(t, source)
		require.NotNil(t, target)
		assert.Equal(t, NodeThreat, source.Type)
		assert.Equal(t, NodeAsset, target.Type)
	}
}

func TestBuild_SharedAssetDeduplicated(t *testing.T) {
	g := Build(sampleThreats(), models.DefaultFilters())

	count := 0
	for _, n := range g.Nodes {
		if n.ID == "a1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuild_NoLinksWhenOneSideHidden(t *testing.T) {
	filters := models.DefaultFilters()
	filters.ShowAssets = false

	g := Build(sampleThreats(), filters)
	assert.Empty(t, g.Links)
	for _, n := range g.Nodes {
		assert.Equal(t, NodeThreat, n.Type)
	}

	filters = models.DefaultFilters()
	filters.ShowThreats = false
	g = Build(sampleThreats(), filters)
	assert.Empty(t, g.Links)
	for _, n := range g.Nodes {
		assert.Equal(t, NodeAsset, n.Type)
	}
}

func TestBuild_SeverityFilterExcludesThreatAndItsLinks(t *testing.T) {
	filters := models.DefaultFilters()
	filters.Severities = []models.Severity{models.SeverityCritical}

	g := Build(sampleThreats(), filters)
	assert.Nil(t, g.NodeByID("t2"))
	for _, l := range g.Links {
		assert.NotEqual(t, "t2", l.Source)
	}
}

func TestBuild_DuplicateAssetEntriesProduceOneLink(t *testing.T) {
	threats := []*models.Threat{{
		ID:         "t1",
		ThreatName: "Double Listed Threat",
		Severity:   models.SeverityHigh,
		AssetsImpacted: []models.ThreatAsset{
			{ProductID: "a1", ProductName: "Mail Gateway"},
			{ProductID: "a1", ProductName: "Mail Gateway"},
			{ProductID: "a2", ProductName: "Core Database"},
		},
	}}

	g := Build(threats, models.DefaultFilters())
	require.Len(t, g.Links, 2)
	assert.Equal(t, Link{Source: "t1", Target: "a1"}, g.Links[0])
	assert.Equal(t, Link{Source: "t1", Target: "a2"}, g.Links[1])
}

func TestBuild_MissingAssetNameDegrades(t *testing.T) {
	threats := []*models.Threat{{
		ID:             "t1",
		ThreatName:     "Unnamed Asset Threat",
		Severity:       models.SeverityHigh,
		AssetsImpacted: []models.ThreatAsset{{ProductID: "a9"}},
	}}

	g := Build(threats, models.DefaultFilters())
	node := g.NodeByID("a9")
	require.NotNil(t, node)
	assert.Equal(t, "Unknown Asset", node.Label)
}

func TestBuild_EmptyInput(t *testing.T) {
	g := Build(nil, models.DefaultFilters())
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
	assert.Nil(t, g.NodeByID("missing"))
}

package charts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
)

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func TestActivity_GroupsByDayAndSeverity(t *testing.T) {
	threats := []*models.Threat{
		{ID: "t1", Severity: models.SeverityCritical, FirstSeen: day("2026-08-20")},
		{ID: "t2", Severity: models.SeverityHigh, FirstSeen: day("2026-08-20")},
		{ID: "t3", Severity: models.SeverityHigh, FirstSeen: day("2026-08-22")},
		{ID: "t4", Severity: models.SeverityLow, FirstSeen: day("2026-08-18")},
		{ID: "t5", Severity: models.SeverityMedium}, // 零值日期跳过
	}

	data := Activity(threats)
	require.Len(t, data, 3)

	// 按日期升序
	assert.Equal(t, "2026-08-18", data[0].Date)
	assert.Equal(t, "2026-08-20", data[1].Date)
	assert.Equal(t, "2026-08-22", data[2].Date)

	assert.Equal(t, 1, data[0].Low)
	assert.Equal(t, 1, data[1].Critical)
	assert.Equal(t, 1, data[1].High)
	assert.Equal(t, 0, data[1].Low)
	assert.Equal(t, 1, data[2].High)
}

func TestActivity_Empty(t *testing.T) {
	assert.Empty(t, Activity(nil))
	assert.Empty(t, Activity([]*models.Threat{{ID: "t1"}}))
}

func TestAssets_CountsAndOrdering(t *testing.T) {
	threats := []*models.Threat{
		{ID: "t1", AssetsImpacted: []models.ThreatAsset{
			{ProductID: "a1", ProductName: "Mail Gateway"},
			{ProductID: "a2", ProductName: "Core Database"},
		}},
		{ID: "t2", AssetsImpacted: []models.ThreatAsset{
			{ProductID: "a1", ProductName: "Mail Gateway"},
		}},
		{ID: "t3", AssetsImpacted: []models.ThreatAsset{
			{ProductID: "a3", ProductName: ""}, // 缺名资产不计入榜单
		}},
	}

	data := Assets(threats)
	require.Len(t, data, 2)
	assert.Equal(t, models.AssetImpact{Asset: "Mail Gateway", Count: 2}, data[0])
	assert.Equal(t, models.AssetImpact{Asset: "Core Database", Count: 1}, data[1])
}

func TestAssets_TruncatedToTop20(t *testing.T) {
	threats := make([]*models.Threat, 0, 30)
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("Asset %02d", i)
		threats = append(threats, &models.Threat{
			ID:             fmt.Sprintf("t%d", i),
			AssetsImpacted: []models.ThreatAsset{{ProductID: name, ProductName: name}},
		})
	}
	assert.Len(t, Assets(threats), 20)
}

func TestAssets_TiesBrokenByName(t *testing.T) {
	threats := []*models.Threat{
		{ID: "t1", AssetsImpacted: []models.ThreatAsset{{ProductID: "b", ProductName: "Bravo"}}},
		{ID: "t2", AssetsImpacted: []models.ThreatAsset{{ProductID: "a", ProductName: "Alpha"}}},
	}

	data := Assets(threats)
	require.Len(t, data, 2)
	assert.Equal(t, "Alpha", data[0].Asset)
	assert.Equal(t, "Bravo", data[1].Asset)
}

func TestKPI_Summary(t *testing.T) {
	threats := []*models.Threat{
		{ID: "t1", Severity: models.SeverityCritical, Status: models.StatusNew,
			AssetsImpacted: []models.ThreatAsset{{ProductID: "a1"}}},
		{ID: "t2", Severity: models.SeverityHigh, Status: models.StatusActive,
			AssetsImpacted: []models.ThreatAsset{{ProductID: "a1"}, {ProductID: "a2"}}},
		{ID: "t3", Severity: models.SeverityLow, Status: models.StatusMitigated},
	}

	summary := KPI(threats)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 1, summary.High)
	assert.Equal(t, 1, summary.Low)
	assert.Equal(t, 1, summary.New)
	assert.Equal(t, 1, summary.Active)
	assert.Equal(t, 1, summary.Mitigated)
	assert.Equal(t, 2, summary.AssetsCount)
}

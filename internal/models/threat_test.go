package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleThreat() *Threat {
	return &Threat{
		ID:         "t-1",
		ThreatName: "Okta credential stuffing",
		Title:      "Credential stuffing wave against identity providers",
		Severity:   SeverityCritical,
		Status:     StatusActive,
		Summary:    "Large scale login abuse observed.",
		FirstSeen:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		AssetsImpacted: []ThreatAsset{
			{ProductID: "prod-okta", ProductName: "Okta"},
		},
	}
}

func TestFiltersMatchDefaults(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	filters := DefaultFilters()

	assert.True(t, filters.Match(sampleThreat(), now))

	// 默认时间范围是最近7天
	old := sampleThreat()
	old.FirstSeen = now.AddDate(0, 0, -10)
	assert.False(t, filters.Match(old, now))
}

func TestFiltersMatchSeverityAndStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	filters := DefaultFilters()
	filters.Severities = []Severity{SeverityLow}

	assert.False(t, filters.Match(sampleThreat(), now))

	filters.Severities = nil
	filters.Statuses = []Status{StatusMitigated}
	assert.False(t, filters.Match(sampleThreat(), now))
}

func TestFiltersMatchAssetAndQuery(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	filters := DefaultFilters()

	filters.AssetIDs = []string{"prod-okta"}
	assert.True(t, filters.Match(sampleThreat(), now))

	filters.AssetIDs = []string{"prod-other"}
	assert.False(t, filters.Match(sampleThreat(), now))

	// 查询匹配不区分大小写，覆盖名称、标题和摘要
	filters = DefaultFilters()
	filters.Query = "LOGIN ABUSE"
	assert.True(t, filters.Match(sampleThreat(), now))

	filters.Query = "ransomware"
	assert.False(t, filters.Match(sampleThreat(), now))
}

func TestFiltersMatchZeroFirstSeen(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	filters := DefaultFilters()

	// 缺失首见时间的威胁不会被时间范围过滤掉
	noDate := sampleThreat()
	noDate.FirstSeen = time.Time{}
	assert.True(t, filters.Match(noDate, now))
}

func TestPrimaryAssetNameFallback(t *testing.T) {
	threat := sampleThreat()
	assert.Equal(t, "Okta", threat.PrimaryAssetName())

	threat.AssetsImpacted = nil
	assert.Equal(t, "Unknown Asset", threat.PrimaryAssetName())
}

func TestHasPolar(t *testing.T) {
	threat := sampleThreat()
	assert.False(t, threat.HasPolar())

	theta, radius := 45.0, 0.3
	threat.ThetaDeg = &theta
	assert.False(t, threat.HasPolar())

	threat.RadiusNorm = &radius
	assert.True(t, threat.HasPolar())
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidSeverity(SeverityMedium))
	assert.False(t, ValidSeverity("extreme"))
	assert.True(t, ValidStatus(StatusNew))
	assert.False(t, ValidStatus("archived"))
	assert.True(t, ValidTimeRange(TimeRangeLast24h))
	assert.False(t, ValidTimeRange("last_year"))
}

func TestCutoffTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-24*time.Hour), TimeRangeLast24h.CutoffTime(now))
	assert.Equal(t, now.AddDate(0, 0, -7), TimeRangeLast7d.CutoffTime(now))
	assert.Equal(t, now.AddDate(0, 0, -30), TimeRangeLast30d.CutoffTime(now))
}

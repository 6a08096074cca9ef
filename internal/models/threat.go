package models

import (
	"strings"
	"time"
)

// Severity 威胁等级
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status 威胁状态
type Status string

const (
	StatusNew       Status = "new"
	StatusActive    Status = "active"
	StatusMitigated Status = "mitigated"
)

// TimeRange 时间范围过滤器
type TimeRange string

const (
	TimeRangeLast24h TimeRange = "last_24h"
	TimeRangeLast7d  TimeRange = "last_7d"
	TimeRangeLast30d TimeRange = "last_30d"
)

// ThreatAsset 威胁影响的资产
type ThreatAsset struct {
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	OwningTeam          string `json:"owning_team"`
	BusinessCriticality string `json:"business_criticality"` // low, medium, high, mission_critical
	IsCrownJewel        bool   `json:"is_crown_jewel"`
	InternetFacing      bool   `json:"internet_facing"`
	DataSensitivity     string `json:"data_sensitivity"` // low, medium, high
}

// Threat 威胁记录
// id在多次渲染之间保持稳定，是哈希种子和前端key，不可变更
type Threat struct {
	ID         string   `json:"id" gorm:"primaryKey"`
	ThreatName string   `json:"threat_name"`
	Title      string   `json:"title"`
	Severity   Severity `json:"severity"`
	Status     Status   `json:"status"`

	// 优先级评分，由feed评分管道计算
	SeverityScore       float64 `json:"severity_score"`
	RelevanceScore      float64 `json:"relevance_score"`
	PrioritizationScore float64 `json:"prioritization_score"`
	PrioritizationBand  string  `json:"prioritization_band"`

	// 预计算极坐标，存在时雷达布局直接使用
	PrimarySurface string   `json:"primary_surface,omitempty"`
	ThetaDeg       *float64 `json:"theta_deg,omitempty"`
	RadiusNorm     *float64 `json:"radius_norm,omitempty"`

	AssetsImpacted  []ThreatAsset `json:"assets_impacted" gorm:"serializer:json"`
	CVEIDs          []string      `json:"cve_ids" gorm:"serializer:json"`
	MitreTactics    []string      `json:"mitre_tactics" gorm:"serializer:json"`
	MitreTechniques []string      `json:"mitre_techniques" gorm:"serializer:json"`

	Source     string    `json:"source"`
	SourceLink string    `json:"source_link"`
	Summary    string    `json:"summary"`
	FirstSeen  time.Time `json:"first_seen"`
	LastUpdate time.Time `json:"last_updated"`

	RelevanceReasons          []string `json:"relevance_reasons" gorm:"serializer:json"`
	IndustriesAffected        []string `json:"industries_affected" gorm:"serializer:json"`
	RegionsCountriesTargeted  []string `json:"regions_or_countries_targeted" gorm:"serializer:json"`
}

// PrimaryAssetName 返回第一个受影响资产的名称
// 没有资产时返回"Unknown Asset"，布局引擎据此降级而不报错
func (t *Threat) PrimaryAssetName() string {
	if len(t.AssetsImpacted) == 0 || t.AssetsImpacted[0].ProductName == "" {
		return "Unknown Asset"
	}
	return t.AssetsImpacted[0].ProductName
}

// HasPolar 判断威胁是否携带预计算极坐标
func (t *Threat) HasPolar() bool {
	return t.ThetaDeg != nil && t.RadiusNorm != nil
}

// ThreatFilters 威胁过滤条件
// 封闭的显式结构体，在API边界校验后再进入核心
type ThreatFilters struct {
	Query       string      `json:"query"`
	Severities  []Severity  `json:"severities"`
	Statuses    []Status    `json:"statuses"`
	TimeRange   TimeRange   `json:"time_range"`
	AssetIDs    []string    `json:"asset_ids"`
	ShowThreats bool        `json:"show_threats"`
	ShowAssets  bool        `json:"show_assets"`
}

// DefaultFilters 创建默认过滤条件
func DefaultFilters() ThreatFilters {
	return ThreatFilters{
		TimeRange:   TimeRangeLast7d,
		ShowThreats: true,
		ShowAssets:  true,
	}
}

// AllowSeverity 判断威胁等级是否通过过滤
// 空列表表示不过滤
func (f *ThreatFilters) AllowSeverity(s Severity) bool {
	if len(f.Severities) == 0 {
		return true
	}
	for _, allowed := range f.Severities {
		if allowed == s {
			return true
		}
	}
	return false
}

// AllowStatus 判断威胁状态是否通过过滤
func (f *ThreatFilters) AllowStatus(s Status) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, allowed := range f.Statuses {
		if allowed == s {
			return true
		}
	}
	return false
}

// Match 判断威胁是否通过全部过滤条件
// 过滤只做子集筛选，绝不改动威胁本身
func (f *ThreatFilters) Match(t *Threat, now time.Time) bool {
	if !f.AllowSeverity(t.Severity) || !f.AllowStatus(t.Status) {
		return false
	}

	if f.TimeRange != "" && !t.FirstSeen.IsZero() && t.FirstSeen.Before(f.TimeRange.CutoffTime(now)) {
		return false
	}

	if len(f.AssetIDs) > 0 {
		found := false
		for _, asset := range t.AssetsImpacted {
			for _, id := range f.AssetIDs {
				if asset.ProductID == id {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}

	if f.Query != "" {
		query := strings.ToLower(f.Query)
		haystack := strings.ToLower(t.ThreatName + "\n" + t.Title + "\n" + t.Summary)
		if !strings.Contains(haystack, query) {
			return false
		}
	}
	return true
}

// ValidSeverity 校验威胁等级取值
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ValidStatus 校验威胁状态取值
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusActive, StatusMitigated:
		return true
	}
	return false
}

// ValidTimeRange 校验时间范围取值
func ValidTimeRange(r TimeRange) bool {
	switch r {
	case TimeRangeLast24h, TimeRangeLast7d, TimeRangeLast30d:
		return true
	}
	return false
}

// CutoffTime 返回时间范围对应的起始时间
func (r TimeRange) CutoffTime(now time.Time) time.Time {
	switch r {
	case TimeRangeLast24h:
		return now.Add(-24 * time.Hour)
	case TimeRangeLast30d:
		return now.AddDate(0, 0, -30)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// RadarMeta 雷达快照元信息
type RadarMeta struct {
	GeneratedAt  time.Time `json:"generated_at"`
	CustomerID   string    `json:"customer_id"`
	TotalThreats int       `json:"total_threats"`
}

// RadarSnapshot 雷达快照，整体替换式刷新
type RadarSnapshot struct {
	Meta    RadarMeta `json:"meta"`
	Threats []Threat  `json:"points"`
}

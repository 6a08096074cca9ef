package charts

import (
	"sort"

	"threat-radar/internal/models"
)

// maxAssetEntries 资产榜单上限
const maxAssetEntries = 20

// Activity 按天聚合各等级威胁数量
// first_seen为零值的威胁跳过，输出按日期升序
func Activity(threats []*models.Threat) []models.ActivityDataPoint {
	byDate := make(map[string]*models.ActivityDataPoint)

	for _, t := range threats {
		if t.FirstSeen.IsZero() {
			continue
		}
		day := t.FirstSeen.Format("2006-01-02")
		point, ok := byDate[day]
		if !ok {
			point = &models.ActivityDataPoint{Date: day}
			byDate[day] = point
		}
		switch t.Severity {
		case models.SeverityCritical:
			point.Critical++
		case models.SeverityHigh:
			point.High++
		case models.SeverityMedium:
			point.Medium++
		default:
			point.Low++
		}
	}

	data := make([]models.ActivityDataPoint, 0, len(byDate))
	for _, point := range byDate {
		data = append(data, *point)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Date < data[j].Date })
	return data
}

// Assets 资产受威胁计数榜单
// 按计数降序，同计数按资产名升序保证输出稳定，截断到前20
func Assets(threats []*models.Threat) []models.AssetImpact {
	counts := make(map[string]int)
	for _, t := range threats {
		for _, asset := range t.AssetsImpacted {
			if asset.ProductName == "" {
				continue
			}
			counts[asset.ProductName]++
		}
	}

	data := make([]models.AssetImpact, 0, len(counts))
	for name, count := range counts {
		data = append(data, models.AssetImpact{Asset: name, Count: count})
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Count != data[j].Count {
			return data[i].Count > data[j].Count
		}
		return data[i].Asset < data[j].Asset
	})

	if len(data) > maxAssetEntries {
		data = data[:maxAssetEntries]
	}
	return data
}

// KPI 仪表盘顶部汇总
func KPI(threats []*models.Threat) models.KPISummary {
	summary := models.KPISummary{Total: len(threats)}
	assets := make(map[string]bool)

	for _, t := range threats {
		switch t.Severity {
		case models.SeverityCritical:
			summary.Critical++
		case models.SeverityHigh:
			summary.High++
		case models.SeverityMedium:
			summary.Medium++
		default:
			summary.Low++
		}
		switch t.Status {
		case models.StatusNew:
			summary.New++
		case models.StatusActive:
			summary.Active++
		case models.StatusMitigated:
			summary.Mitigated++
		}
		for _, asset := range t.AssetsImpacted {
			if asset.ProductID != "" {
				assets[asset.ProductID] = true
			}
		}
	}

	summary.AssetsCount = len(assets)
	return summary
}

package feed

import (
	"math"
	"sort"
	"time"

	"threat-radar/internal/models"
	"threat-radar/internal/radar"
)

// 12个归属团队切片的中心角，切片宽30°
var surfaceThetaBase = map[string]float64{
	"Identity / Access":               0,
	"Endpoint / Email":                30,
	"Web Apps / API":                  60,
	"Supply Chain / Dependencies":     90,
	"Cloud / Infra / K8s":             120,
	"Data / Exfiltration / Insider":   150,
	"Network / Edge / OT":             180,
	"Legal / Regulatory / Geo-Political": 210,
	"Third-Party / Vendor Risk":       240,
	"Gov / State-Actor Activity":      270,
	"Fraud / Payments / Abuse":        300,
	"Emerging / Unknown":              330,
}

// SurfaceUnknown 无法匹配任何资产时的兜底切片
const SurfaceUnknown = "Emerging / Unknown"

const (
	sliceWidth  = 30.0
	sliceMargin = 4.0
	// assetRelevanceCap 资产贡献上限，避免多资产威胁吃满相关性
	assetRelevanceCap = 0.8
	// newThreatWindow first_seen在此窗口内的威胁标记为new
	newThreatWindow = 24 * time.Hour
)

// SeverityScore 等级分
func SeverityScore(s models.Severity) float64 {
	switch s {
	case models.SeverityCritical:
		return 1.0
	case models.SeverityHigh:
		return 0.75
	case models.SeverityMedium:
		return 0.5
	default:
		return 0.25
	}
}

// RelevanceScore 基于受影响资产的相关性启发式
// 每个资产：暴露在公网+0.25，业务关键性高+0.25，数据敏感度高+0.20，
// 皇冠资产+0.10；资产总和封顶0.8，最终值夹取到[0,1]。
func RelevanceScore(assets []models.ThreatAsset) (float64, []string) {
	var sum float64
	var reasons []string

	for _, asset := range assets {
		if asset.InternetFacing {
			sum += 0.25
			reasons = append(reasons, asset.ProductName+" is internet facing")
		}
		if asset.BusinessCriticality == "high" || asset.BusinessCriticality == "mission_critical" {
			sum += 0.25
			reasons = append(reasons, asset.ProductName+" is business critical")
		}
		if asset.DataSensitivity == "high" {
			sum += 0.20
			reasons = append(reasons, asset.ProductName+" holds sensitive data")
		}
		if asset.IsCrownJewel {
			sum += 0.10
			reasons = append(reasons, asset.ProductName+" is a crown jewel")
		}
	}

	if sum > assetRelevanceCap {
		sum = assetRelevanceCap
	}
	return clamp(sum, 0, 1), reasons
}

// PrioritizationBand 优先级分段
func PrioritizationBand(score float64) string {
	switch {
	case score >= 0.8:
		return "critical"
	case score >= 0.6:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// criticalityRank 业务关键性排序值，越大越重要
func criticalityRank(c string) int {
	switch c {
	case "mission_critical":
		return 3
	case "high":
		return 2
	case "medium":
		return 1
	default:
		return 0
	}
}

// PrimarySurface 选择主攻击面
// 取业务关键性最高的受影响资产的归属团队，同级时公网暴露优先，
// 再相同时取列表里的第一个；无资产或团队不在切片表里时落入兜底切片。
func PrimarySurface(assets []models.ThreatAsset) string {
	var best *models.ThreatAsset
	for i := range assets {
		a := &assets[i]
		if best == nil {
			best = a
			continue
		}
		br, ar := criticalityRank(best.BusinessCriticality), criticalityRank(a.BusinessCriticality)
		if ar > br || (ar == br && a.InternetFacing && !best.InternetFacing) {
			best = a
		}
	}

	if best == nil {
		return SurfaceUnknown
	}
	if _, ok := surfaceThetaBase[best.OwningTeam]; !ok {
		return SurfaceUnknown
	}
	return best.OwningTeam
}

// clampThetaToSlice 把角度夹取到切片内，距切片边缘至少保留4°
func clampThetaToSlice(theta float64, surface string) float64 {
	base, ok := surfaceThetaBase[surface]
	if !ok {
		base = surfaceThetaBase[SurfaceUnknown]
	}
	return clamp(theta, base-sliceWidth/2+sliceMargin, base+sliceWidth/2-sliceMargin)
}

// smallJitter 基于id的确定性微抖动，范围[-maxDeg, +maxDeg]
func smallJitter(key string, maxDeg float64) float64 {
	n := float64(radar.StableHash(key, 65536)) / 65535.0
	return (n - 0.5) * 2 * maxDeg
}

// Score 完整评分管道，就地填充威胁的评分和极坐标字段
func Score(t *models.Threat, now time.Time) {
	t.SeverityScore = SeverityScore(t.Severity)
	relevance, reasons := RelevanceScore(t.AssetsImpacted)
	t.RelevanceScore = relevance
	t.RelevanceReasons = reasons

	t.PrioritizationScore = clamp(0.6*t.SeverityScore+0.4*t.RelevanceScore, 0, 1)
	t.PrioritizationBand = PrioritizationBand(t.PrioritizationScore)

	radius := 1.0 - t.PrioritizationScore
	t.RadiusNorm = &radius

	t.PrimarySurface = PrimarySurface(t.AssetsImpacted)
	theta := clampThetaToSlice(surfaceThetaBase[t.PrimarySurface]+smallJitter(t.ID, 5.0), t.PrimarySurface)
	t.ThetaDeg = &theta

	if t.Status != models.StatusMitigated {
		if !t.FirstSeen.IsZero() && now.Sub(t.FirstSeen) <= newThreatWindow {
			t.Status = models.StatusNew
		} else {
			t.Status = models.StatusActive
		}
	}
}

// ResolveCollisions 切片内冲突消解
// 同一(切片, 1%半径桶)里的多个点按角度排序后以0.8°间隔展开，
// 再叠加±0.3°的id抖动并夹回切片，保证重复执行结果一致。
func ResolveCollisions(threats []*models.Threat) {
	type bucketKey struct {
		surface string
		radius  int
	}

	buckets := make(map[bucketKey][]*models.Threat)
	order := make([]bucketKey, 0)
	for _, t := range threats {
		if !t.HasPolar() {
			continue
		}
		key := bucketKey{surface: t.PrimarySurface, radius: int(math.Round(*t.RadiusNorm * 100))}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], t)
	}

	const spreadDeg = 0.8
	for _, key := range order {
		group := buckets[key]
		if len(group) <= 1 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return *group[i].ThetaDeg < *group[j].ThetaDeg })

		var center float64
		for _, t := range group {
			center += *t.ThetaDeg
		}
		center /= float64(len(group))

		start := center - spreadDeg*float64(len(group)-1)/2
		for i, t := range group {
			desired := start + float64(i)*spreadDeg + smallJitter(t.ID, 0.3)
			theta := clampThetaToSlice(desired, t.PrimarySurface)
			t.ThetaDeg = &theta
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

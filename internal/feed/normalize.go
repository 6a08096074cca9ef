package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"threat-radar/internal/models"
)

// RawItem 外部威胁源返回的原始条目
// 字段形状不可信，所有访问都经过宽松归一化
type RawItem map[string]any

// DecodeItems 把响应体归一化成条目列表
// 接受三种形状：裸数组、{"items": [...]}包装对象、单个对象
func DecodeItems(body []byte) ([]RawItem, error) {
	var asList []RawItem
	if err := json.Unmarshal(body, &asList); err == nil {
		return asList, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(body, &asObject); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	if items, ok := asObject["items"]; ok {
		var list []RawItem
		if err := json.Unmarshal(items, &list); err != nil {
			return nil, fmt.Errorf("failed to parse items array: %w", err)
		}
		return list, nil
	}

	var single RawItem
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("failed to parse threat item: %w", err)
	}
	return []RawItem{single}, nil
}

// looseDateFormats 宽松日期解析尝试的格式，依次匹配
var looseDateFormats = []string{
	"2006-01-02",
	"01-02-2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

// ParseDateLoose 多格式日期解析
// 空值、"NA"和全部格式失配时返回零值和false，调用方决定跳过还是兜底
func ParseDateLoose(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "NA" {
		return time.Time{}, false
	}
	// ISO时间戳只取日期部分
	if len(value) > 10 {
		value = value[:10]
	}
	for _, format := range looseDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeSeverity 等级归一化
// 无法识别的值落到low，绝不报错
func NormalizeSeverity(value string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical", "crit":
		return models.SeverityCritical
	case "high", "h":
		return models.SeverityHigh
	case "medium", "med", "moderate":
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// stringField 读取字符串字段，"NA"视为缺失
func (r RawItem) stringField(key string) string {
	value, ok := r[key].(string)
	if !ok || value == "NA" {
		return ""
	}
	return strings.TrimSpace(value)
}

// stringList 读取字符串列表字段
// 接受单个字符串或混合数组，过滤"NA"和空串
func (r RawItem) stringList(key string) []string {
	raw, ok := r[key]
	if !ok {
		return nil
	}

	var values []string
	appendValue := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && v != "NA" {
			values = append(values, v)
		}
	}

	switch typed := raw.(type) {
	case string:
		appendValue(typed)
	case []any:
		for _, entry := range typed {
			if s, ok := entry.(string); ok {
				appendValue(s)
			}
		}
	}
	return values
}

// productTexts 收集条目里所有可用于资产匹配的产品文本
func (r RawItem) productTexts() []string {
	texts := r.stringList("affected_products")
	for _, key := range []string{"product_exploited", "software_exploited"} {
		if v := r.stringField(key); v != "" {
			texts = append(texts, v)
		}
	}
	return texts
}

// threatIDNamespace 威胁id的uuid命名空间，保证同一条目重复摄取得到同一id
var threatIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ToThreat 把原始条目转换成威胁记录
// 日期解析失败时用当前时间兜底；资产匹配结果为空不报错，
// 评分和布局管道各自降级。
func (r RawItem) ToThreat(profile *CustomerProfile, now time.Time) *models.Threat {
	name := r.stringField("threat_name")
	if name == "" {
		name = r.stringField("title")
	}
	published := r.stringField("date_published")

	firstSeen, ok := ParseDateLoose(published)
	if !ok {
		firstSeen = now
	}

	t := &models.Threat{
		ID:                       uuid.NewSHA1(threatIDNamespace, []byte(name+"|"+published)).String(),
		ThreatName:               name,
		Title:                    r.stringField("title"),
		Severity:                 NormalizeSeverity(r.stringField("threat_severity")),
		Summary:                  r.stringField("summary"),
		Source:                   r.stringField("source"),
		SourceLink:               r.stringField("source_link"),
		FirstSeen:                firstSeen,
		LastUpdate:               firstSeen,
		CVEIDs:                   r.stringList("cve_ids"),
		MitreTactics:             r.stringList("mitre_tactics"),
		MitreTechniques:          r.stringList("mitre_techniques"),
		IndustriesAffected:       r.stringList("industries_affected"),
		RegionsCountriesTargeted: r.stringList("regions_or_countries_targeted"),
	}
	if t.Summary == "" {
		t.Summary = r.stringField("description")
	}

	if profile != nil {
		t.AssetsImpacted = profile.MatchAssets(r, t)
	}
	return t
}

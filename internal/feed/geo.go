package feed

import (
	"net"

	"github.com/oschwald/geoip2-golang"

	"threat-radar/internal/logging"
	"threat-radar/internal/models"
)

// GeoEnricher 指标IP地理增强
// 用本地GeoLite2库把威胁条目携带的指标IP解析成国家代码，
// 补进regions_or_countries_targeted。数据库缺失时进入降级模式，
// 增强静默跳过，摄取永不因此失败。
type GeoEnricher struct {
	reader *geoip2.Reader
}

// NewGeoEnricher 创建地理增强器
// 数据库打开失败只告警，返回的增强器处于降级模式
func NewGeoEnricher(dbPath string) *GeoEnricher {
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		logging.DefaultLogger.Warn("GeoIP database unavailable, geo enrichment disabled: %v", err)
		return &GeoEnricher{}
	}
	return &GeoEnricher{reader: reader}
}

// Close 释放数据库句柄
func (g *GeoEnricher) Close() {
	if g.reader != nil {
		g.reader.Close()
	}
}

// Enrich 解析条目的指标IP并合并国家代码
func (g *GeoEnricher) Enrich(t *models.Threat, item RawItem) {
	if g.reader == nil {
		return
	}

	seen := make(map[string]bool, len(t.RegionsCountriesTargeted))
	for _, code := range t.RegionsCountriesTargeted {
		seen[code] = true
	}

	for _, raw := range item.stringList("indicator_ips") {
		ip := net.ParseIP(raw)
		if ip == nil {
			continue
		}
		record, err := g.reader.Country(ip)
		if err != nil {
			continue
		}
		code := record.Country.IsoCode
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		t.RegionsCountriesTargeted = append(t.RegionsCountriesTargeted, code)
	}
}

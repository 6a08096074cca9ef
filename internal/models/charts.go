package models

// ActivityDataPoint 单日各等级威胁数量
type ActivityDataPoint struct {
	Date     string `json:"date"` // ISO日期 YYYY-MM-DD
	Critical int    `json:"Critical"`
	High     int    `json:"High"`
	Medium   int    `json:"Medium"`
	Low      int    `json:"Low"`
}

// AssetImpact 资产威胁计数条目
type AssetImpact struct {
	Asset string `json:"asset"`
	Count int    `json:"count"`
}

// KPISummary 仪表盘KPI汇总
type KPISummary struct {
	Total       int `json:"total"`
	Critical    int `json:"critical"`
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
	New         int `json:"new"`
	Active      int `json:"active"`
	Mitigated   int `json:"mitigated"`
	AssetsCount int `json:"assets_count"`
}

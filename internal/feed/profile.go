package feed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"threat-radar/internal/models"
)

// CustomerProduct 客户环境里被监控的产品/资产
type CustomerProduct struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	Vendor              string `json:"vendor" yaml:"vendor"`
	Technology          string `json:"technology" yaml:"technology"`
	OwningTeam          string `json:"owning_team" yaml:"owning_team"`
	InternetFacing      bool   `json:"internet_facing" yaml:"internet_facing"`
	BusinessCriticality string `json:"business_criticality" yaml:"business_criticality"`
	DataSensitivity     string `json:"data_sensitivity" yaml:"data_sensitivity"`
}

// CustomerProfile 客户档案，威胁与资产匹配的依据
type CustomerProfile struct {
	CustomerID         string            `json:"customer_id" yaml:"customer_id"`
	Name               string            `json:"name" yaml:"name"`
	Industry           string            `json:"industry" yaml:"industry"`
	CrownJewelProducts []string          `json:"crown_jewel_products" yaml:"crown_jewel_products"`
	Products           []CustomerProduct `json:"products" yaml:"products"`
}

// LoadProfile 从YAML文件加载客户档案
func LoadProfile(path string) (*CustomerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer profile: %w", err)
	}

	var profile CustomerProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse customer profile: %w", err)
	}
	if profile.CustomerID == "" {
		return nil, fmt.Errorf("customer profile is missing customer_id")
	}
	return &profile, nil
}

// isCrownJewel 判断产品id是否在皇冠资产列表里
func (p *CustomerProfile) isCrownJewel(productID string) bool {
	for _, id := range p.CrownJewelProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// MatchAssets 把威胁条目匹配到客户产品
// 产品名、厂商或技术栈出现在威胁文本或受影响产品列表里即视为命中，
// 匹配不区分大小写；无命中返回空列表，不报错。
func (p *CustomerProfile) MatchAssets(item RawItem, t *models.Threat) []models.ThreatAsset {
	haystack := strings.ToLower(strings.Join(append(
		item.productTexts(),
		t.ThreatName, t.Title, t.Summary,
	), "\n"))

	var matched []models.ThreatAsset
	for _, product := range p.Products {
		if !productMentioned(haystack, product) {
			continue
		}
		matched = append(matched, models.ThreatAsset{
			ProductID:           product.ID,
			ProductName:         product.Name,
			OwningTeam:          product.OwningTeam,
			BusinessCriticality: product.BusinessCriticality,
			IsCrownJewel:        p.isCrownJewel(product.ID),
			InternetFacing:      product.InternetFacing,
			DataSensitivity:     product.DataSensitivity,
		})
	}
	return matched
}

// productMentioned 产品的任一标识文本出现在威胁文本里即命中
func productMentioned(haystack string, product CustomerProduct) bool {
	for _, needle := range []string{product.Name, product.Vendor, product.Technology} {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if len(needle) >= 3 && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

package radar

import (
	"strings"

	"threat-radar/internal/models"
)

// Quadrant 雷达象限，每个象限占90°角度区间
type Quadrant int

const (
	// 关键词策略：按资产域划分
	QuadrantIdentityAccess Quadrant = iota // 身份/访问
	QuadrantEndpointEmail                  // 终端/邮件
	QuadrantCloudSaaS                      // 云/SaaS
	QuadrantNetworkEdge                    // 网络/边缘
)

const (
	// 攻击阶段策略：{pre,post} × {protect,detect_respond}的笛卡尔积
	QuadrantPreProtect Quadrant = iota
	QuadrantPreDetect
	QuadrantPostProtect
	QuadrantPostDetect
)

const quadrantCount = 4

// AngleRange 返回象限的角度区间[min, max)，单位度
func (q Quadrant) AngleRange() (float64, float64) {
	min := float64(int(q)%quadrantCount) * 90.0
	return min, min + 90.0
}

// quadrantKeywords 关键词策略的有序关键词集
// 顺序固定，首个匹配即胜出，绝不按匹配数量取多
var quadrantKeywords = []struct {
	quadrant Quadrant
	words    []string
}{
	{QuadrantIdentityAccess, []string{"identity", "iam", "sso", "ldap", "active directory", "okta", "auth", "credential"}},
	{QuadrantEndpointEmail, []string{"endpoint", "email", "outlook", "exchange", "workstation", "laptop", "edr", "office"}},
	{QuadrantCloudSaaS, []string{"cloud", "saas", "aws", "azure", "gcp", "kubernetes", "k8s", "s3", "salesforce"}},
	{QuadrantNetworkEdge, []string{"network", "edge", "vpn", "firewall", "router", "gateway", "dns", "proxy"}},
}

// ClassifyByKeyword 关键词策略分类
// 将首个受影响资产名称小写后，依固定顺序匹配各象限的关键词集；
// 均不命中时退化为稳定哈希mod 4，保证分布均匀且可复现。
func ClassifyByKeyword(t *models.Threat) Quadrant {
	name := strings.ToLower(t.PrimaryAssetName())
	for _, set := range quadrantKeywords {
		for _, word := range set.words {
			if strings.Contains(name, word) {
				return set.quadrant
			}
		}
	}
	return Quadrant(StableHash(t.ID, quadrantCount))
}

// preCompromiseTactics 前渗透阶段的MITRE战术关键词
// 固定列表，首个匹配胜出
var preCompromiseTactics = []string{
	"reconnaissance",
	"resource development",
	"initial access",
}

// postCompromiseTactics 后渗透阶段的MITRE战术关键词
var postCompromiseTactics = []string{
	"execution",
	"persistence",
	"privilege escalation",
	"defense evasion",
	"credential access",
	"discovery",
	"lateral movement",
	"collection",
	"command and control",
	"exfiltration",
	"impact",
}

// isPostCompromise 根据MITRE战术判断威胁处于前渗透还是后渗透阶段
// 战术列表为空或全部无法识别时，按前渗透处理
func isPostCompromise(tactics []string) bool {
	for _, tactic := range tactics {
		lower := strings.ToLower(tactic)
		for _, pre := range preCompromiseTactics {
			if strings.Contains(lower, pre) {
				return false
			}
		}
		for _, post := range postCompromiseTactics {
			if strings.Contains(lower, post) {
				return true
			}
		}
	}
	return false
}

// ClassifyByStage 攻击阶段策略分类
// 纵轴：MITRE战术判定前/后渗透阶段。
// 横轴：已缓解状态归入防护侧；new/active按id哈希做约40/60的确定性划分，
// 保证状态分布倾斜时四个象限仍都有数据。
func ClassifyByStage(t *models.Threat) Quadrant {
	post := isPostCompromise(t.MitreTactics)

	protect := false
	if t.Status == models.StatusMitigated {
		protect = true
	} else {
		protect = StableHash(t.ID, 100) < 40
	}

	switch {
	case !post && protect:
		return QuadrantPreProtect
	case !post && !protect:
		return QuadrantPreDetect
	case post && protect:
		return QuadrantPostProtect
	default:
		return QuadrantPostDetect
	}
}

package radar

import (
	"math"
)

// pickRadius 命中检测拾取半径（画布像素）
const pickRadius = 8.0

// HitTest 屏幕坐标命中检测
// 先用当前视图变换把屏幕坐标反演到画布空间，再线性扫描点集，
// 返回拾取半径内的第一个点。列表序优先而非最近距离优先，
// 重叠点总是命中先放置的那一个——已知限制。
// 空点集返回nil表示未命中，不报错。
func HitTest(positions []ThreatPosition, transform *ViewTransform, screenX, screenY float64) *ThreatPosition {
	if len(positions) == 0 {
		return nil
	}

	x, y := screenX, screenY
	if transform != nil {
		x, y = transform.Invert(screenX, screenY)
	}

	for i := range positions {
		dx := x - positions[i].X
		dy := y - positions[i].Y
		if math.Sqrt(dx*dx+dy*dy) <= pickRadius {
			return &positions[i]
		}
	}
	return nil
}

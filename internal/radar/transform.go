package radar

// ZoomLimits 缩放范围
type ZoomLimits struct {
	Min float64
	Max float64
}

// DefaultZoomLimits 雷达视图默认缩放范围
var DefaultZoomLimits = ZoomLimits{Min: 0.5, Max: 3.0}

// NarrowZoomLimits 关系图视图使用的窄缩放范围
var NarrowZoomLimits = ZoomLimits{Min: 0.8, Max: 1.2}

// ViewTransform 视图变换状态
// 缩放与平移相互正交，都通过同一个仿射变换生效：
// 先平移到画布中心、缩放、再平移回来，最后叠加平移偏移。
type ViewTransform struct {
	Zoom   float64    `json:"zoom"`
	PanX   float64    `json:"pan_x"`
	PanY   float64    `json:"pan_y"`
	Width  float64    `json:"-"`
	Height float64    `json:"-"`
	Limits ZoomLimits `json:"-"`
}

// NewViewTransform 创建初始视图变换
func NewViewTransform(width, height float64, limits ZoomLimits) *ViewTransform {
	return &ViewTransform{
		Zoom:   1.0,
		Width:  width,
		Height: height,
		Limits: limits,
	}
}

// Apply 画布坐标 → 屏幕坐标
func (v *ViewTransform) Apply(x, y float64) (float64, float64) {
	cx := v.Width / 2
	cy := v.Height / 2
	sx := (x-cx)*v.Zoom + cx + v.PanX
	sy := (y-cy)*v.Zoom + cy + v.PanY
	return sx, sy
}

// Invert 屏幕坐标 → 画布坐标，命中检测前必须先反演
func (v *ViewTransform) Invert(sx, sy float64) (float64, float64) {
	if v.Zoom == 0 {
		return sx, sy
	}
	cx := v.Width / 2
	cy := v.Height / 2
	x := (sx-v.PanX-cx)/v.Zoom + cx
	y := (sy-v.PanY-cy)/v.Zoom + cy
	return x, y
}

// SetZoom 设置缩放值并夹取到允许范围
func (v *ViewTransform) SetZoom(zoom float64) {
	limits := v.Limits
	if limits.Min == 0 && limits.Max == 0 {
		limits = DefaultZoomLimits
	}
	if zoom < limits.Min {
		zoom = limits.Min
	}
	if zoom > limits.Max {
		zoom = limits.Max
	}
	v.Zoom = zoom
}

// ZoomBy 按滚轮增量调整缩放
func (v *ViewTransform) ZoomBy(delta float64) {
	v.SetZoom(v.Zoom + delta)
}

// Pan 叠加平移偏移
func (v *ViewTransform) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Reset 恢复到初始视图
func (v *ViewTransform) Reset() {
	v.Zoom = 1.0
	v.PanX = 0
	v.PanY = 0
}

package radar

import (
	"math"
	"time"
)

// InteractionState 交互状态机的状态
type InteractionState int

const (
	StateIdle InteractionState = iota
	StatePanning
	StateHovering
)

// dragDeadzone 拖拽死区（像素）
// 位移未超出死区的pointerUp被重新解释为点击
const dragDeadzone = 3.0

// InteractionCallbacks 交互意图回调
// 状态机只向上报告意图，从不自己修改过滤或选中状态
type InteractionCallbacks struct {
	OnThreatClick func(id string, multiSelect bool)
	OnHover       func(id string)
	OnHoverClear  func()
}

// Interaction 平移/缩放/悬停状态机
// 所有可变状态由单一持有者串行驱动，不存在并发写入者
type Interaction struct {
	state     InteractionState
	transform *ViewTransform
	callbacks InteractionCallbacks

	// 拖拽基线：按下时记录的起点和平移偏移
	dragStartX   float64
	dragStartY   float64
	basePanX     float64
	basePanY     float64
	moved        bool
	hoverID      string
}

// NewInteraction 创建交互状态机
func NewInteraction(transform *ViewTransform, callbacks InteractionCallbacks) *Interaction {
	return &Interaction{
		state:     StateIdle,
		transform: transform,
		callbacks: callbacks,
	}
}

// State 返回当前状态
func (i *Interaction) State() InteractionState {
	return i.state
}

// PointerDown 指针按下
// 带修饰键或落在空白处时进入Panning，记录拖拽基线
func (i *Interaction) PointerDown(x, y float64) {
	i.state = StatePanning
	i.dragStartX = x
	i.dragStartY = y
	i.basePanX = i.transform.PanX
	i.basePanY = i.transform.PanY
	i.moved = false
}

// PointerMove 指针移动
// Panning状态下按光标相对起点的增量更新平移偏移；
// 无按键移动时通过命中检测更新悬停目标。
func (i *Interaction) PointerMove(x, y float64, positions []ThreatPosition) {
	switch i.state {
	case StatePanning:
		dx := x - i.dragStartX
		dy := y - i.dragStartY
		if !i.moved {
			if math.Sqrt(dx*dx+dy*dy) <= dragDeadzone {
				// 死区内的抖动既不平移也不破坏点击语义
				return
			}
			i.moved = true
		}
		i.transform.PanX = i.basePanX + dx
		i.transform.PanY = i.basePanY + dy
	default:
		hit := HitTest(positions, i.transform, x, y)
		if hit != nil {
			i.state = StateHovering
			if hit.ID != i.hoverID {
				i.hoverID = hit.ID
				if i.callbacks.OnHover != nil {
					i.callbacks.OnHover(hit.ID)
				}
			}
		} else if i.hoverID != "" {
			i.clearHover()
		} else {
			i.state = StateIdle
		}
	}
}

// PointerUp 指针抬起
// moved标志未置位时整个手势被重新解释为点击并派发命中检测；
// 已置位时手势作为纯平移消费，不触发选中副作用。
func (i *Interaction) PointerUp(x, y float64, multiSelect bool, positions []ThreatPosition) {
	if i.state != StatePanning {
		return
	}
	i.state = StateIdle

	if i.moved {
		return
	}

	if hit := HitTest(positions, i.transform, x, y); hit != nil && i.callbacks.OnThreatClick != nil {
		i.callbacks.OnThreatClick(hit.ID, multiSelect)
	}
}

// PointerLeave 指针离开画布，清除悬停
func (i *Interaction) PointerLeave() {
	i.clearHover()
	if i.state == StateHovering {
		i.state = StateIdle
	}
}

// Wheel 滚轮缩放，与平移正交
func (i *Interaction) Wheel(delta float64) {
	i.transform.ZoomBy(delta)
}

func (i *Interaction) clearHover() {
	if i.hoverID != "" {
		i.hoverID = ""
		if i.callbacks.OnHoverClear != nil {
			i.callbacks.OnHoverClear()
		}
	}
	i.state = StateIdle
}

// HoverID 返回当前悬停目标
func (i *Interaction) HoverID() string {
	return i.hoverID
}

// PulsePhase 选中环的脉冲相位
// 半径与透明度按墙钟时间的正弦调制，每帧重绘
func PulsePhase(now time.Time) float64 {
	seconds := float64(now.UnixNano()) / float64(time.Second)
	return (math.Sin(seconds*2*math.Pi/1.5) + 1) / 2
}

// RenderHint 单点渲染提示
type RenderHint struct {
	ID       string  `json:"id"`
	Selected bool    `json:"selected"`
	Dimmed   bool    `json:"dimmed"`
	Alpha    float64 `json:"alpha"`
}

// RenderHints 计算每个点的渲染提示
// 存在选中时，非选中元素降低透明度而不是隐藏
func RenderHints(positions []ThreatPosition, selectedIDs []string) []RenderHint {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	hints := make([]RenderHint, len(positions))
	for idx, p := range positions {
		hint := RenderHint{ID: p.ID, Alpha: 1.0}
		if len(selected) > 0 {
			if selected[p.ID] {
				hint.Selected = true
			} else {
				hint.Dimmed = true
				hint.Alpha = 0.25
			}
		}
		hints[idx] = hint
	}
	return hints
}

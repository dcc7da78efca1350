// Package element 电路元件模型。
//
// 元件种类是封闭集合，加盖与状态更新按 types.ElementType 分派到各种类的实现。
package element

import (
	"fmt"

	"circuit/history"
	"circuit/mna"
	"circuit/types"
)

// Element 电路元件
type Element struct {
	ID       types.ElementID   // 元件编号
	Type     types.ElementType // 元件类型
	Value    float64           // 元件值(Ω/F/H/V)，接地元件不使用
	Pins     []types.Point     // 引脚偏移(元件局部坐标)
	Rotation int               // 旋转象限 0-3
	Position types.Point       // 元件位置

	Nodes     types.PinList // 引脚对应节点，-1为未连接
	Connected []bool        // 引脚是否与其他端点相连

	PrevVoltage float64 // 上一步端电压(伴随模型状态)
	PrevCurrent float64 // 上一步支路电流(伴随模型状态)
	Voltage     float64 // 最近一步端电压
	Current     float64 // 最近一步支路电流

	History *history.Buffer // 电压电流历史
}

// New 创建元件，引脚使用元件类型的默认布局
func New(id types.ElementID, t types.ElementType, value float64, pos types.Point, rotation, historyCap int) *Element {
	pins := t.DefaultPins()
	e := &Element{
		ID:        id,
		Type:      t,
		Value:     value,
		Pins:      pins,
		Rotation:  rotation,
		Position:  pos,
		Nodes:     make(types.PinList, len(pins)),
		Connected: make([]bool, len(pins)),
		History:   history.NewBuffer(historyCap),
	}
	for i := range e.Nodes {
		e.Nodes[i] = types.UnconnectedNodeID
	}
	return e
}

// SetPins 替换引脚偏移，节点分配重置为未连接
func (e *Element) SetPins(pins []types.Point) error {
	if len(pins) != e.Type.GetPostCount() {
		return fmt.Errorf("%s 需要 %d 个引脚, 实际 %d", e.Type, e.Type.GetPostCount(), len(pins))
	}
	e.Pins = append([]types.Point(nil), pins...)
	e.Nodes = make(types.PinList, len(pins))
	e.Connected = make([]bool, len(pins))
	for i := range e.Nodes {
		e.Nodes[i] = types.UnconnectedNodeID
	}
	return nil
}

// Terminals 引脚的绝对坐标
func (e *Element) Terminals() []types.Point {
	out := make([]types.Point, len(e.Pins))
	for i, p := range e.Pins {
		out[i] = e.Position.Add(p.Rotate(e.Rotation))
	}
	return out
}

// Node 获取引脚节点，越界返回未连接
func (e *Element) Node(pin types.PinID) types.NodeID {
	if pin < 0 || pin >= len(e.Nodes) {
		return types.UnconnectedNodeID
	}
	return e.Nodes[pin]
}

// IsDisconnected 任一引脚未连接
func (e *Element) IsDisconnected() bool {
	if len(e.Nodes) == 0 {
		return true
	}
	for _, n := range e.Nodes {
		if n == types.UnconnectedNodeID {
			return true
		}
	}
	return false
}

// IsVoltageSource 是否需要电压源辅助方程
func (e *Element) IsVoltageSource() bool {
	return e.Type == types.TypeVoltageSource && !e.IsDisconnected()
}

// IsGround 是否为接地元件
func (e *Element) IsGround() bool { return e.Type == types.TypeGround }

// Stamp 向MNA方程加盖，vs为电压源编号(非电压源忽略)。未连接的元件不加盖。
func (e *Element) Stamp(m mna.Stamper, vs types.VoltageID) {
	if e.IsDisconnected() {
		return
	}
	switch e.Type {
	case types.TypeResistor:
		stampResistor(e, m)
	case types.TypeCapacitor:
		stampCapacitor(e, m)
	case types.TypeInductor:
		stampInductor(e, m)
	case types.TypeVoltageSource:
		stampVoltageSource(e, m, vs)
	case types.TypeGround:
	}
}

// State 一步求解后元件的新状态，提交前不修改元件
type State struct {
	Voltage     float64 // 端电压
	Current     float64 // 支路电流
	PrevVoltage float64 // 新的伴随模型电压
	PrevCurrent float64 // 新的伴随模型电流
}

// Evaluate 根据求解结果计算元件的新状态
func (e *Element) Evaluate(s mna.Solution, vs types.VoltageID) State {
	hold := State{PrevVoltage: e.PrevVoltage, PrevCurrent: e.PrevCurrent}
	if e.IsDisconnected() || e.IsGround() {
		return hold
	}
	v := s.GetNodeVoltage(e.Nodes[0]) - s.GetNodeVoltage(e.Nodes[1])
	switch e.Type {
	case types.TypeResistor:
		return evalResistor(e, v)
	case types.TypeCapacitor:
		return evalCapacitor(e, v)
	case types.TypeInductor:
		return evalInductor(e, v)
	case types.TypeVoltageSource:
		return evalVoltageSource(e, v, s.GetVoltageSourceCurrent(vs))
	}
	return hold
}

// Commit 提交新状态并记录历史，t为本步的仿真时间
func (e *Element) Commit(st State, t float64) {
	e.Voltage, e.Current = st.Voltage, st.Current
	e.PrevVoltage, e.PrevCurrent = st.PrevVoltage, st.PrevCurrent
	e.History.Append(st.Voltage, st.Current, t)
}

// Reset 清除伴随模型状态和历史
func (e *Element) Reset() {
	e.PrevVoltage, e.PrevCurrent = 0, 0
	e.Voltage, e.Current = 0, 0
	e.History.Reset()
}

func (e *Element) String() string {
	return fmt.Sprintf("%s#%d(%g%s) %v", e.Type, e.ID, e.Value, e.Type.Unit(), e.Nodes)
}

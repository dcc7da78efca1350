package element

import (
	"circuit/mna"
	"circuit/types"
)

// stampVoltageSource 电压源加盖，正极为第一个引脚
func stampVoltageSource(e *Element, m mna.Stamper, vs types.VoltageID) {
	m.StampVoltageSource(e.Nodes[0], e.Nodes[1], vs, e.Value)
}

// evalVoltageSource 电流取辅助未知量，方向为由正极流入电源
func evalVoltageSource(e *Element, v, i float64) State {
	return State{
		Voltage:     v,
		Current:     i,
		PrevVoltage: e.Value,
		PrevCurrent: e.PrevCurrent,
	}
}

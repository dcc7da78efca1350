package element

import (
	"circuit/mna"
	"circuit/types"
)

// 电容后向欧拉伴随模型: 电导 g=C/Δt 并联电流源 g·V(n-1)
//
//	I(n) = g·V(n) - g·V(n-1)

// stampCapacitor 电容加盖，伴随电流源由n2流入n1
func stampCapacitor(e *Element, m mna.Stamper) {
	g := e.Value / types.TimeStep
	m.StampAdmittance(e.Nodes[0], e.Nodes[1], g)
	m.StampCurrentSource(e.Nodes[1], e.Nodes[0], g*e.PrevVoltage)
}

// evalCapacitor I=C·(V-V(n-1))/Δt
func evalCapacitor(e *Element, v float64) State {
	return State{
		Voltage:     v,
		Current:     e.Value * (v - e.PrevVoltage) / types.TimeStep,
		PrevVoltage: v,
		PrevCurrent: e.PrevCurrent,
	}
}

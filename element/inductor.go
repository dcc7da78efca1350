package element

import (
	"circuit/mna"
	"circuit/types"
)

// 电感后向欧拉伴随模型: 电导 g=Δt/L 并联电流源 I(n-1)
//
//	I(n) = I(n-1) + g·V(n)

// stampInductor 电感加盖，伴随电流源由n1流向n2
func stampInductor(e *Element, m mna.Stamper) {
	g := types.TimeStep / e.Value
	m.StampAdmittance(e.Nodes[0], e.Nodes[1], g)
	m.StampCurrentSource(e.Nodes[0], e.Nodes[1], e.PrevCurrent)
}

// evalInductor I=I(n-1)+(Δt/L)·V
func evalInductor(e *Element, v float64) State {
	i := e.PrevCurrent + types.TimeStep/e.Value*v
	return State{
		Voltage:     v,
		Current:     i,
		PrevVoltage: v,
		PrevCurrent: i,
	}
}

package element

import "circuit/mna"

// stampResistor 电阻加盖: g=1/R
func stampResistor(e *Element, m mna.Stamper) {
	m.StampImpedance(e.Nodes[0], e.Nodes[1], e.Value)
}

// evalResistor 欧姆定律 I=V·g，g与加盖时的电导一致
func evalResistor(e *Element, v float64) State {
	return State{
		Voltage:     v,
		Current:     v * mna.Conductance(e.Value),
		PrevVoltage: e.PrevVoltage,
		PrevCurrent: e.PrevCurrent,
	}
}

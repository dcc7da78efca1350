package mna

import "circuit/types"

// NodeID 电路节点编号，0为地节点，-1为未连接
type NodeID = types.NodeID

// VoltageID 电压源支路编号，用于在MNA方程中定位其对应的电流未知量
type VoltageID = types.VoltageID

// Stamper 定义了元件向MNA方程（Ax=Z）加盖所需的操作。
// 所有操作都是累加的，地节点和未连接节点相关的行列将被忽略。
type Stamper interface {
	// StampImpedance 为阻抗元件（如电阻）添加MNA加盖。
	// 数学模型: G=1/r，在矩阵A的对角元(n1,n1)和(n2,n2)加上G，非对角元(n1,n2)和(n2,n1)减去G。
	//   n1: 元件的第一个节点ID。
	//   n2: 元件的第二个节点ID。
	//   r:  阻值（欧姆），必须大于0。
	StampImpedance(n1, n2 NodeID, r float64)

	// StampAdmittance 为电导元件添加MNA加盖，直接将其电导值g贡献到MNA矩阵A中。
	//   n1: 元件的第一个节点ID。
	//   n2: 元件的第二个节点ID。
	//   g:  电导值。
	StampAdmittance(n1, n2 NodeID, g float64)

	// StampCurrentSource 为独立电流源添加MNA加盖。
	// 数学模型: 电流从n1流向n2，在向量Z的n1位置减去i，n2位置加上i。
	//   n1: 电流源的流出节点ID。
	//   n2: 电流源的流入节点ID。
	//   i:  电流值（安培），正方向为n1→n2。
	StampCurrentSource(n1, n2 NodeID, i float64)

	// StampVoltageSource 为独立电压源添加MNA加盖。
	// 数学模型: 引入电流I(vs)作为新变量，建立约束 V(n1)-V(n2)=v。
	//   n1: 电压源的正极节点ID。
	//   n2: 电压源的负极节点ID。
	//   vs: 电压源的唯一ID。
	//   v:  电压值（伏特）。
	StampVoltageSource(n1, n2 NodeID, vs VoltageID, v float64)
}

// Solution 定义了从求解结果中读取节点电压和电压源电流的操作。
type Solution interface {
	// GetNodeVoltage 获取指定节点的电压。地节点或未连接节点返回0。
	GetNodeVoltage(n NodeID) float64

	// GetVoltageSourceCurrent 获取流经指定电压源的电流。无效ID返回0。
	GetVoltageSourceCurrent(vs VoltageID) float64
}

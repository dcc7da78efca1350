package simulation

import (
	"circuit/element"
	"circuit/mna"
	"circuit/types"
)

// GetNum 根据元件的节点分配计算节点数量与电压源数量
//
//	nodesNum: 最大节点编号(节点编号连续)
//	vsNum: 两端都已连接的电压源数量
func GetNum(elements []*element.Element) (nodesNum, vsNum int) {
	for _, e := range elements {
		for _, n := range e.Nodes {
			nodesNum = max(nodesNum, n)
		}
		if e.IsVoltageSource() {
			vsNum++
		}
	}
	return nodesNum, vsNum
}

// Assemble 构建本步的MNA方程
//
// 返回方程以及每个元件对应的电压源编号(非电压源为-1)，电压源按元件顺序编号。
func Assemble(elements []*element.Element, nodesNum, vsNum int) (*mna.MNA, []types.VoltageID) {
	m := mna.NewMNA(nodesNum, vsNum)
	m.LoadGmin(types.GMin)
	vsIDs := make([]types.VoltageID, len(elements))
	vs := 0
	for i, e := range elements {
		vsIDs[i] = -1
		if e.IsVoltageSource() {
			vsIDs[i] = vs
			vs++
		}
		e.Stamp(m, vsIDs[i])
	}
	return m, vsIDs
}

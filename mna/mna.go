// Package mna 改进节点分析法(Modified Nodal Analysis)方程的组装与求解。
//
// 节点编号n(n>=1)对应方程的第n-1行/列，地节点(0)和未连接节点(-1)不占用方程；
// 第vs个电压源的电流未知量位于第 NodesNum+vs 行/列。
package mna

import (
	"fmt"

	"circuit/maths"
	"circuit/types"

	"gonum.org/v1/gonum/mat"
)

// MNA 结构体包含了求解电路所需的核心矩阵和向量，每个仿真步重新构建。
type MNA struct {
	A                 *mat.Dense    // 求解矩阵A，0维系统为nil
	Z                 *mat.VecDense // 已知向量Z
	X                 *mat.VecDense // 未知向量X (解)
	NodesNum          int           // 电路节点数量（不含地节点）
	VoltageSourcesNum int           // 独立电压源的总数量
}

// NewMNA 创建一个MNA求解器实例。
//
//	nodesNum: 电路节点数量（不含地节点）。
//	vsNum: 独立电压源的总数量。
//	返回:一个新的 MNA 实例，矩阵与向量均为零。
func NewMNA(nodesNum, vsNum int) *MNA {
	m := &MNA{
		Z:                 &mat.VecDense{},
		X:                 &mat.VecDense{},
		NodesNum:          nodesNum,
		VoltageSourcesNum: vsNum,
	}
	if n := m.Size(); n > 0 {
		m.A = mat.NewDense(n, n, nil)
		m.Z = mat.NewVecDense(n, nil)
		m.X = mat.NewVecDense(n, nil)
	}
	return m
}

// Size 方程总数量
func (m *MNA) Size() int { return m.NodesNum + m.VoltageSourcesNum }

// row 节点编号转换为方程行号，地节点与未连接节点返回-1
func (m *MNA) row(n NodeID) int {
	if n <= types.GndNodeID || n > m.NodesNum {
		return -1
	}
	return n - 1
}

// vsRow 电压源编号转换为方程行号，无效编号返回-1
func (m *MNA) vsRow(vs VoltageID) int {
	if vs < 0 || vs >= m.VoltageSourcesNum {
		return -1
	}
	return m.NodesNum + vs
}

// increment 矩阵A按行列号累加
func (m *MNA) increment(i, j int, value float64) {
	if i < 0 || j < 0 {
		return
	}
	m.A.Set(i, j, m.A.At(i, j)+value)
}

// ------------------------------ MNA矩阵操作 ------------------------------

// StampMatrix 将一个值加到节点i、j对应的矩阵元素上。地节点索引将被忽略。
func (m *MNA) StampMatrix(i, j NodeID, value float64) {
	m.increment(m.row(i), m.row(j), value)
}

// StampRightSide 将一个值加到节点i对应的向量Z元素上。地节点索引将被忽略。
func (m *MNA) StampRightSide(i NodeID, value float64) {
	if r := m.row(i); r >= 0 {
		m.Z.SetVec(r, m.Z.AtVec(r)+value)
	}
}

// LoadGmin 在每个非地节点的对角元上加入最小电导，保证悬空节点可解
func (m *MNA) LoadGmin(gmin float64) {
	for i := range m.NodesNum {
		m.increment(i, i, gmin)
	}
}

// ------------------------------ 无源元件加盖 ------------------------------

// Conductance 阻抗对应的电导，z 不大于 types.MinImpedance 时按下限计算
func Conductance(z float64) float64 {
	if z <= types.MinImpedance {
		return 1 / types.MinImpedance
	}
	return 1 / z
}

// StampImpedance 为阻抗元件添加MNA加盖。内部通过计算电导 y=Conductance(z) 并调用 StampAdmittance 来实现。
func (m *MNA) StampImpedance(n1, n2 NodeID, z float64) {
	m.StampAdmittance(n1, n2, Conductance(z))
}

// StampAdmittance 为导纳元件添加MNA加盖，通过修改矩阵A的四个相关元素来反映其对电路的贡献。
func (m *MNA) StampAdmittance(n1, n2 NodeID, y float64) {
	m.StampMatrix(n1, n1, y)
	m.StampMatrix(n2, n2, y)
	m.StampMatrix(n1, n2, -y)
	m.StampMatrix(n2, n1, -y)
}

// ------------------------------ 独立源加盖 ------------------------------

// StampCurrentSource 为独立电流源添加MNA加盖。它通过在向量Z的相应位置上加/减电流值来修改节点方程。
func (m *MNA) StampCurrentSource(n1, n2 NodeID, i float64) {
	m.StampRightSide(n1, -i)
	m.StampRightSide(n2, i)
}

// StampVoltageSource 为独立电压源添加MNA加盖。该操作会引入一个新的电流未知量，并修改矩阵A和向量Z以建立电压约束方程。
func (m *MNA) StampVoltageSource(n1, n2 NodeID, vs VoltageID, v float64) {
	aux := m.vsRow(vs)
	if aux < 0 {
		return
	}
	r1, r2 := m.row(n1), m.row(n2)
	// KCL方程: I(vs) 对 n1/n2 节点的贡献
	m.increment(r1, aux, 1)
	m.increment(r2, aux, -1)
	// 电压源约束方程: V(n1) - V(n2) = v
	m.increment(aux, r1, 1)
	m.increment(aux, r2, -1)
	m.Z.SetVec(aux, v)
}

// ------------------------------ 求解与结果 ------------------------------

// Solve 求解 Ax=Z，结果写入X
func (m *MNA) Solve() error {
	x, err := maths.Solve(m.A, m.Z)
	if err != nil {
		return err
	}
	m.X = x
	return nil
}

// GetNodeVoltage 从解向量X中获取指定节点的电压。
func (m *MNA) GetNodeVoltage(n NodeID) float64 {
	if r := m.row(n); r >= 0 && r < m.X.Len() {
		return m.X.AtVec(r)
	}
	return 0 // 地节点或无效节点返回0
}

// GetVoltageSourceCurrent 从解向量X中获取流经指定电压源的电流。
func (m *MNA) GetVoltageSourceCurrent(vs VoltageID) float64 {
	if r := m.vsRow(vs); r >= 0 && r < m.X.Len() {
		return m.X.AtVec(r)
	}
	return 0 // 无效ID返回0
}

// Voltages 按节点编号索引的电压列表，下标0为地节点
func (m *MNA) Voltages() []float64 {
	v := make([]float64, m.NodesNum+1)
	for n := 1; n <= m.NodesNum; n++ {
		v[n] = m.GetNodeVoltage(n)
	}
	return v
}

// Unknowns 解向量X的拷贝
func (m *MNA) Unknowns() []float64 {
	if m.X.Len() == 0 {
		return nil
	}
	return append([]float64(nil), m.X.RawVector().Data...)
}

// String 返回MNA求解器内部状态（矩阵A, 向量Z, X）的字符串表示。
func (m *MNA) String() string {
	if m.A == nil {
		return "MNA Matrix (rows=0, cols=0)"
	}
	return fmt.Sprintf("MNA Matrix (rows=%d, cols=%d):\n%v\nZ Vector:\n%v\nX Vector:\n%v",
		m.Size(), m.Size(), mat.Formatted(m.A), mat.Formatted(m.Z), mat.Formatted(m.X))
}

package types

// NodeID 电气节点编号
type NodeID = int

// VoltageID 电压源支路编号
type VoltageID = int

// PinID 引脚编号
type PinID = int

// PinList 引脚对应的节点列表
type PinList []NodeID

// ElementID 元件编号
type ElementID = int

// WireID 连线编号
type WireID = int

// Wire 连线，两个端点之间为零电阻连接
type Wire struct {
	ID WireID // 连线编号
	A  Point  // 端点A
	B  Point  // 端点B
}

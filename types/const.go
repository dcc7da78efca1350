package types

// 节点编号常量定义
const (
	GndNodeID         NodeID = 0  // 接地节点
	UnconnectedNodeID NodeID = -1 // 引脚未连接
)

// 仿真参数常量定义
const (
	TimeStep               = 1e-3  // 固定仿真步长(秒)
	GMin                   = 1e-9  // 节点最小对地电导
	PivotTolerance         = 1e-12 // 主元最小绝对值
	MinImpedance           = 1e-9  // 阻抗下限，更小的阻抗按此值计算电导
	CoincidenceTolerance   = 1e-3  // 端点重合判定容差(网格单位)
	DefaultHistoryCapacity = 10000 // 历史记录默认容量
)

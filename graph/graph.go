// Package graph 根据原理图几何关系求解电气节点。
//
// 连线端点与元件引脚都是端点，坐标重合(两轴差值均小于 types.CoincidenceTolerance)
// 的端点以及同一连线的两个端点属于同一个电气节点。
package graph

import (
	"cmp"
	"slices"

	"circuit/element"
	"circuit/types"
)

// Member 节点上的元件引脚
type Member struct {
	Element types.ElementID `json:"element"` // 元件编号
	Pin     types.PinID     `json:"pin"`     // 引脚编号
}

// Graph 一次节点求解的结果
type Graph struct {
	NumNodes          int                       // 电路节点数量(不含地节点)
	NumVoltageSources int                       // 独立电压源数量
	NodeList          map[types.NodeID][]Member // 节点连接的元件引脚
	classes           [][]Member                // 引脚连通划分
}

// terminal 端点
type terminal struct {
	point types.Point
	ele   int         // 元件下标，连线端点为-1
	pin   types.PinID // 引脚编号
}

// Resolve 求解节点，结果写回每个元件的 Nodes 与 Connected
//
// 算法步骤:
//  1. 收集所有元件引脚和连线端点
//  2. 两两比较坐标，重合的端点合并；每条连线的两个端点合并
//  3. 集合大小大于1的端点才算已连接
//  4. 含接地元件引脚的集合为节点0，其余被已连接引脚触及的集合按发现顺序编号1..N
func Resolve(wires []types.Wire, elements []*element.Element) *Graph {
	// 1. 收集端点
	var terms []terminal
	start := make([]int, len(elements))
	for i, e := range elements {
		start[i] = len(terms)
		for pin, p := range e.Terminals() {
			terms = append(terms, terminal{point: p, ele: i, pin: pin})
		}
	}
	wireStart := len(terms)
	for _, w := range wires {
		terms = append(terms, terminal{point: w.A, ele: -1}, terminal{point: w.B, ele: -1})
	}

	// 2. 合并
	ds := NewDisjointSet(len(terms))
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if terms[i].point.Coincident(terms[j].point) {
				ds.Union(i, j)
			}
		}
	}
	for k := range wires {
		a := wireStart + 2*k
		ds.Union(a, a+1)
	}

	// 3. 接地集合
	ground := map[int]bool{}
	for i, e := range elements {
		if !e.IsGround() {
			continue
		}
		for pin := range e.Pins {
			if idx := start[i] + pin; ds.Size(idx) > 1 {
				ground[ds.Find(idx)] = true
			}
		}
	}

	// 4. 节点编号
	graph := &Graph{NodeList: map[types.NodeID][]Member{}}
	ids := map[int]types.NodeID{}
	byRoot := map[int][]Member{}
	for i, e := range elements {
		for pin := range e.Pins {
			idx := start[i] + pin
			root := ds.Find(idx)
			m := Member{Element: e.ID, Pin: pin}
			byRoot[root] = append(byRoot[root], m)
			connected := ds.Size(idx) > 1
			e.Connected[pin] = connected
			if !connected {
				e.Nodes[pin] = types.UnconnectedNodeID
				continue
			}
			id, ok := ids[root]
			if !ok {
				if ground[root] {
					id = types.GndNodeID
				} else {
					graph.NumNodes++
					id = graph.NumNodes
				}
				ids[root] = id
			}
			e.Nodes[pin] = id
			graph.NodeList[id] = append(graph.NodeList[id], m)
		}
	}
	for _, e := range elements {
		if e.IsVoltageSource() {
			graph.NumVoltageSources++
		}
	}

	// 连通划分规范化
	for _, class := range byRoot {
		slices.SortFunc(class, compareMember)
		graph.classes = append(graph.classes, class)
	}
	slices.SortFunc(graph.classes, func(a, b []Member) int {
		return slices.CompareFunc(a, b, compareMember)
	})
	return graph
}

// Classes 元件引脚的连通划分，与输入顺序无关
func (g *Graph) Classes() [][]Member {
	out := make([][]Member, len(g.classes))
	for i, c := range g.classes {
		out[i] = slices.Clone(c)
	}
	return out
}

// Members 指定节点上的元件引脚
func (g *Graph) Members(n types.NodeID) []Member { return g.NodeList[n] }

func compareMember(a, b Member) int {
	if c := cmp.Compare(a.Element, b.Element); c != 0 {
		return c
	}
	return cmp.Compare(a.Pin, b.Pin)
}

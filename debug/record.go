// Package debug 仿真结果的记录与可视化输出。
package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"circuit"
	"circuit/graph"
	"circuit/history"
	"circuit/simulation"
	"circuit/types"
	"circuit/utils"
)

// ElementRecord 元件记录
type ElementRecord struct {
	ID        types.ElementID  `json:"id"`
	Type      string           `json:"type"`
	Label     string           `json:"label"`
	Value     float64          `json:"value"`
	Nodes     types.PinList    `json:"nodes"`
	Connected []bool           `json:"connected"`
	History   []history.Sample `json:"history"`
}

// Record 记录历史状态
type Record struct {
	Nodes    [][]graph.Member `json:"nodes"`    // 按节点编号索引的连接信息，下标0为地
	Elements []ElementRecord  `json:"elements"` // 元件列表
	Time     []float64        `json:"time"`     // 逐步记录的时间列
	Voltage  [][]float64      `json:"voltage"`  // 逐步记录的节点电压列
}

// NewRecord 根据电路最近一次节点求解结果初始化记录
func NewRecord(c *circuit.Circuit) *Record {
	rec := &Record{}
	if g := c.Graph(); g != nil {
		rec.Nodes = make([][]graph.Member, g.NumNodes+1)
		for id := range rec.Nodes {
			rec.Nodes[id] = g.Members(id)
		}
	}
	rec.Snapshot(c)
	return rec
}

// Snapshot 从元件历史更新元件记录
func (rec *Record) Snapshot(c *circuit.Circuit) {
	elements := c.Elements()
	rec.Elements = make([]ElementRecord, len(elements))
	for i, e := range elements {
		rec.Elements[i] = ElementRecord{
			ID:        e.ID,
			Type:      e.Type.String(),
			Label:     Label(e.Type, e.ID, e.Value),
			Value:     e.Value,
			Nodes:     slices.Clone(e.Nodes),
			Connected: slices.Clone(e.Connected),
			History:   e.History.Samples(),
		}
	}
}

// Update 记录一步的节点电压
func (rec *Record) Update(res *simulation.Result) {
	rec.Time = append(rec.Time, res.Time)
	rec.Voltage = append(rec.Voltage, slices.Clone(res.Voltages))
}

// Render 格式和输出内容
func (rec *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(rec) }

// Label 元件显示名称
func Label(t types.ElementType, id types.ElementID, value float64) string {
	if t == types.TypeGround {
		return fmt.Sprintf("%s(%d)", t, id)
	}
	return fmt.Sprintf("%s(%d) %s", t, id, utils.FormatValue(value, t.Unit()))
}

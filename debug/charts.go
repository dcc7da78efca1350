package debug

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

// legend 右侧纵向滚动图例
var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "10",
	Top:    "20",
	Bottom: "20",
}

// newLine 创建时间曲线图
func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(legend),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "t(s)",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(c.graph(), c.elementLine(true), c.elementLine(false))
	if len(c.Time) > 0 {
		page.AddCharts(c.nodeLine())
	}
	return page.Render(w)
}

// graph 元件与节点的连接网络图
func (c *Charts) graph() *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路节点信息",
			Subtitle: "电路连接节点网络图",
		}),
		charts.WithLegendOpts(legend),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.3,
		}),
	)
	names := make(map[int]string, len(c.Elements))
	graphNodes := make([]opts.GraphNode, 0, len(c.Elements)+len(c.Nodes))
	for _, e := range c.Elements {
		names[e.ID] = e.Label
		graphNodes = append(graphNodes, opts.GraphNode{
			Name:     e.Label,
			Category: 0,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		})
	}
	graphLink := make([]opts.GraphLink, 0)
	for id, members := range c.Nodes {
		name := fmt.Sprintf("Node(%d)", id)
		node := opts.GraphNode{
			Name:     name,
			Category: 1,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		}
		if id == 0 {
			name = "Gnd"
			node.Name = name
			node.ItemStyle = &opts.ItemStyle{Color: "#000000de"}
		}
		graphNodes = append(graphNodes, node)
		for _, m := range members {
			graphLink = append(graphLink, opts.GraphLink{
				Source: names[m.Element],
				Target: name,
				Value:  float32(m.Pin),
			})
		}
	}
	graph.AddSeries("电路列表", graphNodes, graphLink,
		charts.WithGraphChartOpts(opts.GraphChart{
			Categories: []*opts.GraphCategory{
				{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
				{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
			},
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 80},
			EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
			FocusNodeAdjacency: opts.Bool(true),
		}))
	return graph
}

// elementLine 元件端电压或支路电流曲线
func (c *Charts) elementLine(voltage bool) *charts.Line {
	line := newLine("电流曲线", "元件支路电流随时间变化曲线")
	if voltage {
		line = newLine("电压曲线", "元件端电压随时间变化曲线")
	}
	var times []float64
	for _, e := range c.Elements {
		if len(e.History) > len(times) {
			times = times[:0]
			for _, s := range e.History {
				times = append(times, s.Time)
			}
		}
	}
	line.SetXAxis(times)
	for _, e := range c.Elements {
		items := make([]opts.LineData, len(e.History))
		for i, s := range e.History {
			if voltage {
				items[i].Value = s.Voltage
			} else {
				items[i].Value = s.Current
			}
		}
		line.AddSeries(e.Label, items)
	}
	return line
}

// nodeLine 逐步记录的节点电压曲线
func (c *Charts) nodeLine() *charts.Line {
	line := newLine("节点电压", "电路节点电压随时间变化曲线")
	line.SetXAxis(c.Time)
	nodes := 0
	for _, v := range c.Voltage {
		nodes = max(nodes, len(v))
	}
	for n := 1; n < nodes; n++ {
		items := make([]opts.LineData, len(c.Voltage))
		for i, v := range c.Voltage {
			if n < len(v) {
				items[i].Value = v[n]
			}
		}
		line.AddSeries(fmt.Sprintf("Node(%d)", n), items)
	}
	return line
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

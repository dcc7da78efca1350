package config

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"circuit/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.DefaultHistoryCapacity, cfg.Simulation.HistoryCapacity)
	assert.Equal(t, 1.0, cfg.EndTime())
	assert.Nil(t, cfg.Metrics())
}

func TestLoadRC(t *testing.T) {
	cfg, err := Load("testdata/rc.yaml")
	require.NoError(t, err)

	assert.Equal(t, time.Millisecond, cfg.Simulation.Period)
	assert.InDelta(t, 0.05, cfg.EndTime(), 1e-15)
	assert.Equal(t, 2000, cfg.Simulation.HistoryCapacity)
	assert.Equal(t, ":9090", cfg.Output.Metrics)
	assert.NotNil(t, cfg.Metrics())
	require.Len(t, cfg.Schematic.Elements, 4)
	require.Len(t, cfg.Schematic.Wires, 3)

	c, err := cfg.Build()
	require.NoError(t, err)
	require.True(t, c.HasGround())
	g := c.Resolve()
	assert.Equal(t, 2, g.NumNodes)
	assert.Equal(t, 1, g.NumVoltageSources)

	require.NoError(t, c.Simulate(context.Background(), cfg.EndTime(), nil))
	capacitor := c.Elements()[2]
	want := 5 * (1 - math.Exp(-0.05/(1000*10e-6)))
	assert.InDelta(t, want, capacitor.Voltage, want*0.01)
	assert.Equal(t, 2000, capacitor.History.Cap())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"未知元件类型": `
schematic:
  elements:
    - {kind: diode, value: 1}
`,
		"无效数值": `
schematic:
  elements:
    - {kind: r, value: 1kx}
`,
		"旋转超出范围": `
schematic:
  elements:
    - {kind: r, value: 1k, rotation: 4}
`,
		"缺少元件值": `
schematic:
  elements:
    - {kind: c}
`,
		"电阻值为0": `
schematic:
  elements:
    - {kind: r, value: "0"}
`,
		"引脚数量": `
schematic:
  elements:
    - {kind: r, value: 1k, pins: [[0, 0]]}
`,
		"日志级别": `
log:
  level: verbose
`,
		"节拍周期": `
simulation:
  period: 0s
`,
		"YAML格式": `simulation: [`,
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestBuildCustomPins(t *testing.T) {
	cfg, err := Parse([]byte(`
schematic:
  elements:
    - {kind: r, value: 2.2k, at: [1, 1], pins: [[0, 0], [0, 3]]}
`))
	require.NoError(t, err)
	c, err := cfg.Build()
	require.NoError(t, err)
	e := c.Elements()[0]
	assert.InDelta(t, 2200, e.Value, 1e-9)
	assert.Equal(t, types.Pt(1, 4), e.Terminals()[1])
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log = Log{Level: "debug", Format: "json"}
	cfg.Logger(&buf).Debug("测试", "k", 1)
	assert.Contains(t, buf.String(), `"k":1`)

	buf.Reset()
	cfg.Log = Log{Level: "warn", Format: "text"}
	cfg.Logger(&buf).Info("忽略")
	assert.Empty(t, buf.String())
}

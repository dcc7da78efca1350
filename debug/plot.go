package debug

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 图片尺寸
const (
	plotWidth  = 24 * vg.Centimeter
	plotHeight = 12 * vg.Centimeter
)

// Waveform 元件端电压或支路电流的波形图
func (rec *Record) Waveform(voltage bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "电流波形"
	p.Y.Label.Text = "I(A)"
	if voltage {
		p.Title.Text = "电压波形"
		p.Y.Label.Text = "V(V)"
	}
	p.X.Label.Text = "t(s)"
	p.Add(plotter.NewGrid())
	for i, e := range rec.Elements {
		if len(e.History) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(e.History))
		for j, s := range e.History {
			xys[j].X = s.Time
			xys[j].Y = s.Current
			if voltage {
				xys[j].Y = s.Voltage
			}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("元件 %d 波形: %w", e.ID, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(e.Label, line)
	}
	p.Legend.Top = true
	return p, nil
}

// SavePlots 保存电压波形到path，电流波形保存到同目录下带 "-current" 后缀的文件
//
// 图片格式由扩展名决定(.png/.svg/.pdf等)。
func (rec *Record) SavePlots(path string) (voltagePath, currentPath string, err error) {
	ext := filepath.Ext(path)
	voltagePath = path
	currentPath = strings.TrimSuffix(path, ext) + "-current" + ext
	for _, out := range []struct {
		path    string
		voltage bool
	}{{voltagePath, true}, {currentPath, false}} {
		p, err := rec.Waveform(out.voltage)
		if err != nil {
			return "", "", err
		}
		if err := p.Save(plotWidth, plotHeight, out.path); err != nil {
			return "", "", fmt.Errorf("保存波形图失败: %w", err)
		}
	}
	return voltagePath, currentPath, nil
}

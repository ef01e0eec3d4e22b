// Package chart 负责把性能指标渲染成可嵌入页面的条形图 PNG。
package chart

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Bar 是条形图中的一根柱：类目标签加数值。
type Bar struct {
	Label string
	Value float64
}

// RenderBars 渲染一张竖向条形图并以 PNG 写入 w。
// 类目标签旋转 45 度以保证可读性；不做任何统计变换，纯展示。
func RenderBars(title, yAxisName string, bars []Bar, w io.Writer) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to render")
	}

	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		values = append(values, chart.Value{Label: b.Label, Value: b.Value})
	}

	ch := chart.BarChart{
		Title:      title,
		Width:      900,
		Height:     520,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 60}},
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Name: yAxisName,
		},
		Bars: values,
	}
	ch.Canvas = chart.Style{FillColor: drawing.ColorWhite}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

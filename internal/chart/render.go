package chart

import (
	"errors"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
)

// ErrNoData 窗口为空时无法渲染
var ErrNoData = errors.New("no chart data")

func seriesStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2.0,
	}
}

// RenderPNG 把滚动窗口渲染为 PNG（心率/血氧/体温/健康评分四条序列）
func RenderPNG(points []models.ChartPoint, w io.Writer) error {
	if len(points) == 0 {
		return ErrNoData
	}

	times := make([]time.Time, len(points))
	heartRate := make([]float64, len(points))
	bloodOxygen := make([]float64, len(points))
	temperature := make([]float64, len(points))
	healthScore := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.At
		heartRate[i] = p.HeartRate
		bloodOxygen[i] = p.BloodOxygen
		temperature[i] = p.Temperature
		healthScore[i] = p.HealthScore
	}

	// go-chart 至少需要两个 x 值；单点时复制一份错开一秒
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Second))
		heartRate = append(heartRate, heartRate[0])
		bloodOxygen = append(bloodOxygen, bloodOxygen[0])
		temperature = append(temperature, temperature[0])
		healthScore = append(healthScore, healthScore[0])
	}

	series := []gochart.Series{
		gochart.TimeSeries{Name: "Heart Rate", XValues: times, YValues: heartRate, Style: seriesStyle(gochart.ColorRed)},
		gochart.TimeSeries{Name: "Blood Oxygen", XValues: times, YValues: bloodOxygen, Style: seriesStyle(gochart.ColorBlue)},
		gochart.TimeSeries{Name: "Temperature", XValues: times, YValues: temperature, Style: seriesStyle(gochart.ColorOrange)},
		gochart.TimeSeries{Name: "Health Score", XValues: times, YValues: healthScore, Style: seriesStyle(gochart.ColorGreen)},
	}

	ch := gochart.Chart{
		Width:      900,
		Height:     360,
		Background: gochart.Style{Padding: gochart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04:05"),
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return ch.Render(gochart.PNG, w)
}

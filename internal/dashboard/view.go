package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
	"github.com/PurpleChirp/HealthWatcher/internal/session"
)

// Band 健康评分区间（左闭右开）
type Band string

const (
	BandSuccess Band = "success" // [80, 100]
	BandWarning Band = "warning" // [60, 80)
	BandDanger  Band = "danger"  // [0, 60)
	BandNone    Band = "none"    // 无数据
)

// placeholderValue 无数据时指标格子的占位符
const placeholderValue = "--"

// placeholderRecommendation 建议列表为空时的中性占位消息
const placeholderRecommendation = "No recommendations at this time"

// ScoreBand 健康评分分档（纯函数）
func ScoreBand(score float64) Band {
	switch {
	case score >= 80:
		return BandSuccess
	case score >= 60:
		return BandWarning
	default:
		return BandDanger
	}
}

// FormatAccuracy 准确率格式化为一位小数的百分比
func FormatAccuracy(accuracy float64) string {
	return fmt.Sprintf("%.1f%%", accuracy*100)
}

// SeverityForRisk 风险等级到告警级别的映射
func SeverityForRisk(riskLevel string) AlertKind {
	switch strings.ToLower(riskLevel) {
	case "high":
		return AlertDanger
	case "medium":
		return AlertWarning
	case "low":
		return AlertInfo
	default:
		return AlertInfo
	}
}

// Tile 指标格子
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// ModelStats 模型指标展示值（直接透传）
type ModelStats struct {
	Accuracy          string `json:"accuracy"`
	TotalSamples      int    `json:"total_samples"`
	DetectedAnomalies int    `json:"detected_anomalies"`
}

// ChartData 图表窗口的序列投影
type ChartData struct {
	Labels      []string  `json:"labels"`
	HeartRate   []float64 `json:"heart_rate"`
	BloodOxygen []float64 `json:"blood_oxygen"`
	Temperature []float64 `json:"temperature"`
	HealthScore []float64 `json:"health_score"`
}

// View 仪表盘当前渲染状态
type View struct {
	Connected              bool         `json:"connected"`
	Mode                   session.Mode `json:"mode"`
	ScanControlsVisible    bool         `json:"scan_controls_visible"`
	StopControlVisible     bool         `json:"stop_control_visible"`
	EmergencyVisual        bool         `json:"emergency_visual"`
	StatusText             string       `json:"status_text"`
	StatusClass            string       `json:"status_class"`
	HealthScore            float64      `json:"health_score"`
	ScoreBand              Band         `json:"score_band"`
	Tiles                  []Tile       `json:"tiles"`
	Recommendations        []string     `json:"recommendations"`
	RecommendationPriority string       `json:"recommendation_priority"`
	ModelStats             ModelStats   `json:"model_stats"`
	Chart                  ChartData    `json:"chart"`
	Alert                  *Alert       `json:"alert,omitempty"`
	UpdatedAt              string       `json:"updated_at,omitempty"`
}

// metricTiles 从快照构建指标格子；快照缺失时全部占位
func metricTiles(h *models.HealthSnapshot) []Tile {
	if h == nil {
		return []Tile{
			{Label: "Heart Rate", Value: placeholderValue, Unit: "BPM"},
			{Label: "Blood Oxygen", Value: placeholderValue, Unit: "%"},
			{Label: "Temperature", Value: placeholderValue, Unit: "°F"},
			{Label: "Activity Level", Value: placeholderValue, Unit: "/10"},
			{Label: "Sleep Quality", Value: placeholderValue, Unit: "/10"},
			{Label: "Stress Level", Value: placeholderValue, Unit: "/10"},
			{Label: "Resting Heart Rate", Value: placeholderValue, Unit: "BPM"},
			{Label: "Heart Rate Variability", Value: placeholderValue, Unit: "ms"},
		}
	}
	return []Tile{
		{Label: "Heart Rate", Value: strconv.Itoa(h.HeartRate), Unit: "BPM"},
		{Label: "Blood Oxygen", Value: fmt.Sprintf("%.1f", h.BloodOxygen), Unit: "%"},
		{Label: "Temperature", Value: fmt.Sprintf("%.1f", h.Temperature), Unit: "°F"},
		{Label: "Activity Level", Value: strconv.Itoa(h.ActivityLevel), Unit: "/10"},
		{Label: "Sleep Quality", Value: strconv.Itoa(h.SleepQuality), Unit: "/10"},
		{Label: "Stress Level", Value: strconv.Itoa(h.StressLevel), Unit: "/10"},
		{Label: "Resting Heart Rate", Value: strconv.Itoa(h.RestingHeartRate), Unit: "BPM"},
		{Label: "Heart Rate Variability", Value: fmt.Sprintf("%.1f", h.HeartRateVariability), Unit: "ms"},
	}
}

// chartData 把窗口点投影为逐序列数组
func chartData(points []models.ChartPoint) ChartData {
	data := ChartData{
		Labels:      make([]string, 0, len(points)),
		HeartRate:   make([]float64, 0, len(points)),
		BloodOxygen: make([]float64, 0, len(points)),
		Temperature: make([]float64, 0, len(points)),
		HealthScore: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		data.Labels = append(data.Labels, p.Label)
		data.HeartRate = append(data.HeartRate, p.HeartRate)
		data.BloodOxygen = append(data.BloodOxygen, p.BloodOxygen)
		data.Temperature = append(data.Temperature, p.Temperature)
		data.HealthScore = append(data.HealthScore, p.HealthScore)
	}
	return data
}

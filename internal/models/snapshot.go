package models

import "time"

// 风险等级（与后端 anomaly_result.risk_level 保持一致）
const (
	RiskNone   = "None"
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// HealthSnapshot 单次轮询返回的生理指标快照
// 后端生成后不再变化；本地只在渲染周期内持有，入图时拷贝为 ChartPoint
type HealthSnapshot struct {
	Timestamp            string  `json:"timestamp"`
	HeartRate            int     `json:"heart_rate"`  // BPM
	BloodOxygen          float64 `json:"blood_oxygen"` // 百分比 0-100
	Temperature          float64 `json:"temperature"`  // 华氏度
	ActivityLevel        int     `json:"activity_level"` // 1-10
	SleepQuality         int     `json:"sleep_quality"`  // 1-10
	StressLevel          int     `json:"stress_level"`   // 1-10
	RestingHeartRate     int     `json:"resting_heart_rate"`
	HeartRateVariability float64 `json:"heart_rate_variability"`
	HealthScore          float64 `json:"health_score"` // 0-100
	IsAnomaly            bool    `json:"is_anomaly"`
}

// AnomalyResult 后端异常检测结论
// HealthData 缺失时 Status 为哨兵值（"Waiting for fingerprint scan..."）
type AnomalyResult struct {
	IsAnomaly    bool    `json:"is_anomaly"`
	AnomalyScore float64 `json:"anomaly_score"`
	Confidence   float64 `json:"confidence"`
	Status       string  `json:"status"`
	RiskLevel    string  `json:"risk_level"`
}

// RecommendationSet 健康建议集合（顺序即展示顺序）
type RecommendationSet struct {
	Recommendations []string `json:"recommendations"`
	Priority        string   `json:"priority"`
}

// ModelMetrics 模型性能指标（后端单调递增计数，本地只做展示）
type ModelMetrics struct {
	Accuracy          float64 `json:"accuracy"` // 0-1
	TotalSamples      int     `json:"total_samples"`
	DetectedAnomalies int     `json:"detected_anomalies"`
}

// ModelReport 模型指标外层结构（与后端 /health-data 响应的 metrics 字段对应）
type ModelReport struct {
	IsTrained        bool         `json:"is_trained"`
	TrainingAccuracy float64      `json:"training_accuracy"`
	Metrics          ModelMetrics `json:"metrics"`
}

// SnapshotResponse GET /health-data 的复合响应
// HealthData 为 nil 表示当前无扫描源（哨兵状态）
type SnapshotResponse struct {
	HealthData       *HealthSnapshot    `json:"health_data"`
	AnomalyResult    *AnomalyResult     `json:"anomaly_result"`
	Recommendations  *RecommendationSet `json:"recommendations"`
	Metrics          *ModelReport       `json:"metrics"`
	Timestamp        string             `json:"timestamp"`
	MonitoringActive bool               `json:"monitoring_active"`
}

// Ack 写操作（扫描/停止/重训）的确认响应
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"`
	ScanID  int    `json:"scan_id,omitempty"`
}

// ChartPoint 从 HealthSnapshot 派生的图表点（1:1）
type ChartPoint struct {
	Label       string    `json:"label"`
	At          time.Time `json:"-"`
	HeartRate   float64   `json:"heart_rate"`
	BloodOxygen float64   `json:"blood_oxygen"`
	Temperature float64   `json:"temperature"`
	HealthScore float64   `json:"health_score"`
}

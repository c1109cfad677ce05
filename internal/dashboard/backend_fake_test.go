package dashboard_test

import (
	"context"
	"errors"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
)

// fakeBackend 可按需覆盖单个操作的后端替身
type fakeBackend struct {
	fetchSnapshot func(ctx context.Context) (*models.SnapshotResponse, error)
	normalScan    func(ctx context.Context) (*models.Ack, error)
	emergencyScan func(ctx context.Context) (*models.Ack, error)
	stopScan      func(ctx context.Context) (*models.Ack, error)
	retrain       func(ctx context.Context) (*models.Ack, error)
	healthHistory func(ctx context.Context) (*models.HealthHistory, error)
	scanHistory   func(ctx context.Context) (*models.ScanHistory, error)
}

func okAck(message string) *models.Ack {
	return &models.Ack{Success: true, Message: message}
}

func (f *fakeBackend) FetchSnapshot(ctx context.Context) (*models.SnapshotResponse, error) {
	if f.fetchSnapshot != nil {
		return f.fetchSnapshot(ctx)
	}
	return sentinelSnapshot(), nil
}

func (f *fakeBackend) NormalScan(ctx context.Context) (*models.Ack, error) {
	if f.normalScan != nil {
		return f.normalScan(ctx)
	}
	return okAck("normal scan started"), nil
}

func (f *fakeBackend) EmergencyScan(ctx context.Context) (*models.Ack, error) {
	if f.emergencyScan != nil {
		return f.emergencyScan(ctx)
	}
	return okAck("emergency scan started"), nil
}

func (f *fakeBackend) StopScan(ctx context.Context) (*models.Ack, error) {
	if f.stopScan != nil {
		return f.stopScan(ctx)
	}
	return okAck("monitoring stopped"), nil
}

func (f *fakeBackend) Retrain(ctx context.Context) (*models.Ack, error) {
	if f.retrain != nil {
		return f.retrain(ctx)
	}
	return okAck("model retrained successfully"), nil
}

func (f *fakeBackend) HealthHistory(ctx context.Context) (*models.HealthHistory, error) {
	if f.healthHistory != nil {
		return f.healthHistory(ctx)
	}
	return &models.HealthHistory{Success: true}, nil
}

func (f *fakeBackend) ScanHistory(ctx context.Context) (*models.ScanHistory, error) {
	if f.scanHistory != nil {
		return f.scanHistory(ctx)
	}
	return &models.ScanHistory{Success: true}, nil
}

var errBackendDown = errors.New("backend unreachable")

// sentinelSnapshot 无扫描源时的哨兵响应
func sentinelSnapshot() *models.SnapshotResponse {
	return &models.SnapshotResponse{
		HealthData: nil,
		AnomalyResult: &models.AnomalyResult{
			IsAnomaly: false,
			Status:    "Waiting for fingerprint scan...",
			RiskLevel: models.RiskNone,
		},
		Recommendations: &models.RecommendationSet{
			Recommendations: []string{"Place your finger on the sensor to start health monitoring"},
			Priority:        "low",
		},
		Metrics:          &models.ModelReport{IsTrained: true},
		MonitoringActive: false,
	}
}

// normalSnapshot 健康指标正常的快照
func normalSnapshot(score float64) *models.SnapshotResponse {
	return &models.SnapshotResponse{
		HealthData: &models.HealthSnapshot{
			Timestamp:            "2026-08-30T10:15:00.123456",
			HeartRate:            72,
			BloodOxygen:          98.2,
			Temperature:          98.4,
			ActivityLevel:        6,
			SleepQuality:         7,
			StressLevel:          3,
			RestingHeartRate:     62,
			HeartRateVariability: 44.5,
			HealthScore:          score,
		},
		AnomalyResult: &models.AnomalyResult{
			IsAnomaly: false,
			Status:    "Normal",
			RiskLevel: models.RiskLow,
		},
		Recommendations: &models.RecommendationSet{
			Recommendations: []string{"Keep up the good work", "Stay hydrated"},
			Priority:        "Low",
		},
		Metrics: &models.ModelReport{
			IsTrained: true,
			Metrics: models.ModelMetrics{
				Accuracy:          0.973,
				TotalSamples:      1200,
				DetectedAnomalies: 17,
			},
		},
		MonitoringActive: true,
	}
}

// anomalySnapshot 带异常结论的快照
func anomalySnapshot(riskLevel string) *models.SnapshotResponse {
	snap := normalSnapshot(42)
	snap.HealthData.HeartRate = 142
	snap.HealthData.IsAnomaly = true
	snap.AnomalyResult = &models.AnomalyResult{
		IsAnomaly: true,
		Status:    "Anomaly Detected",
		RiskLevel: riskLevel,
	}
	return snap
}

package client

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
)

// HTTPClient 健康监测后端 API 客户端
type HTTPClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New 创建后端客户端
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPClient{
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchSnapshot 获取复合快照（生理数据 + 异常结论 + 建议 + 模型指标）
func (c *HTTPClient) FetchSnapshot(ctx context.Context) (*models.SnapshotResponse, error) {
	const op = "fetch snapshot"
	requestID := uuid.NewString()

	var out models.SnapshotResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetResult(&out).
		Get("/health-data")

	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}

	// 哨兵状态下 health_data 为 null，但其余字段必须在场
	if out.AnomalyResult == nil {
		return nil, &MalformedResponseError{Op: op, Field: "anomaly_result"}
	}
	if out.Recommendations == nil {
		return nil, &MalformedResponseError{Op: op, Field: "recommendations"}
	}
	if out.Metrics == nil {
		return nil, &MalformedResponseError{Op: op, Field: "metrics"}
	}

	c.logger.Debug("Fetched health snapshot",
		zap.String("request_id", requestID),
		zap.Bool("monitoring_active", out.MonitoringActive),
		zap.Bool("has_data", out.HealthData != nil),
	)

	return &out, nil
}

// NormalScan 发起普通扫描会话
func (c *HTTPClient) NormalScan(ctx context.Context) (*models.Ack, error) {
	return c.postAck(ctx, "start normal scan", "/normal-scan")
}

// EmergencyScan 发起紧急扫描会话
func (c *HTTPClient) EmergencyScan(ctx context.Context) (*models.Ack, error) {
	return c.postAck(ctx, "start emergency scan", "/fingerprint-scan")
}

// StopScan 停止当前扫描会话
func (c *HTTPClient) StopScan(ctx context.Context) (*models.Ack, error) {
	return c.postAck(ctx, "stop scan", "/reset-emergency")
}

// Retrain 触发模型重训（后端异步完成，约 1 秒后应刷新快照）
func (c *HTTPClient) Retrain(ctx context.Context) (*models.Ack, error) {
	const op = "retrain model"
	requestID := uuid.NewString()

	var out models.Ack
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetResult(&out).
		Get("/retrain-model")

	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}
	if out.Message == "" {
		return nil, &MalformedResponseError{Op: op, Field: "message"}
	}

	c.logger.Info("Model retrain requested",
		zap.String("request_id", requestID),
	)

	return &out, nil
}

// HealthHistory 获取历史生理数据（只读）
func (c *HTTPClient) HealthHistory(ctx context.Context) (*models.HealthHistory, error) {
	const op = "fetch health history"

	var out models.HealthHistory
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/health-history")

	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}

	return &out, nil
}

// ScanHistory 获取扫描历史（只读）
func (c *HTTPClient) ScanHistory(ctx context.Context) (*models.ScanHistory, error) {
	const op = "fetch scan history"

	var out models.ScanHistory
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/scan-history")

	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}

	return &out, nil
}

func (c *HTTPClient) postAck(ctx context.Context, op, path string) (*models.Ack, error) {
	requestID := uuid.NewString()

	var out models.Ack
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetResult(&out).
		Post(path)

	if err != nil {
		c.logger.Error("Backend request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		c.logger.Error("Backend returned error status",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}
	if out.Message == "" {
		return nil, &MalformedResponseError{Op: op, Field: "message"}
	}

	c.logger.Info("Backend request succeeded",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.String("mode", out.Mode),
	)

	return &out, nil
}

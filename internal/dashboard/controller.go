package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
	"github.com/PurpleChirp/HealthWatcher/internal/session"
)

// Backend 监测后端契约（resty 实现见 internal/client）
type Backend interface {
	FetchSnapshot(ctx context.Context) (*models.SnapshotResponse, error)
	NormalScan(ctx context.Context) (*models.Ack, error)
	EmergencyScan(ctx context.Context) (*models.Ack, error)
	StopScan(ctx context.Context) (*models.Ack, error)
	Retrain(ctx context.Context) (*models.Ack, error)
	HealthHistory(ctx context.Context) (*models.HealthHistory, error)
	ScanHistory(ctx context.Context) (*models.ScanHistory, error)
}

// RefetchScheduler 节奏外的刷新触发（由 Poller 实现）
type RefetchScheduler interface {
	Trigger()
	TriggerAfter(d time.Duration)
}

// chartLabelFormat 图表点的时间标签格式
const chartLabelFormat = "15:04:05"

// Controller 仪表盘编排器
// 消费轮询结果，更新指标格子、滚动窗口和告警槽位，并执行用户发起的会话转换
type Controller struct {
	backend   Backend
	machine   *session.Machine
	buffer    *TimeSeriesBuffer
	alerts    *AlertPresenter
	cache     *CachePublisher // nil 表示不发布视图缓存
	scheduler RefetchScheduler
	logger    *zap.Logger

	retrainDelay time.Duration

	// 请求序号：完成顺序可能乱序，序号小于已应用值的响应直接丢弃
	seq        uint64
	appliedSeq uint64

	mu              sync.Mutex
	connected       bool
	hasData         bool
	emergencyVisual bool
	statusText      string
	statusClass     string
	healthScore     float64
	scoreBand       Band
	tiles           []Tile
	recommendations []string
	recPriority     string
	modelStats      ModelStats
	updatedAt       string
}

// NewController 创建仪表盘编排器
func NewController(
	backend Backend,
	machine *session.Machine,
	buffer *TimeSeriesBuffer,
	alerts *AlertPresenter,
	cache *CachePublisher,
	retrainDelay time.Duration,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		backend:         backend,
		machine:         machine,
		buffer:          buffer,
		alerts:          alerts,
		cache:           cache,
		retrainDelay:    retrainDelay,
		logger:          logger,
		statusText:      "Waiting for scan",
		statusClass:     "secondary",
		scoreBand:       BandNone,
		tiles:           metricTiles(nil),
		recommendations: []string{placeholderRecommendation},
		recPriority:     "low",
	}
}

// SetScheduler 注入刷新触发器（构造后、启动前调用一次）
func (c *Controller) SetScheduler(s RefetchScheduler) {
	c.scheduler = s
}

// FetchOnce 执行一次快照拉取并应用结果（作为 Poller 的回调）
func (c *Controller) FetchOnce(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	snap, err := c.backend.FetchSnapshot(ctx)
	if err != nil {
		c.handleFetchError(ctx, err)
		return
	}

	c.applySnapshot(ctx, seq, snap)
}

func (c *Controller) handleFetchError(ctx context.Context, err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.logger.Warn("Snapshot fetch failed",
		zap.Error(err),
	)
	// 瞬时告警，节奏照常，下个 tick 即是重试
	c.alerts.Raise(AlertWarning, "Unable to reach monitoring service, retrying on next poll")

	c.publish(ctx)
}

func (c *Controller) applySnapshot(ctx context.Context, seq uint64, snap *models.SnapshotResponse) {
	c.mu.Lock()

	if seq < c.appliedSeq {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale snapshot response",
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", c.appliedSeq),
		)
		return
	}
	c.appliedSeq = seq
	c.connected = true
	c.updatedAt = snap.Timestamp

	if snap.HealthData == nil {
		// 哨兵状态：不展示任何过期数值，不追加图表点
		c.hasData = false
		c.tiles = metricTiles(nil)
		c.healthScore = 0
		c.scoreBand = BandNone
		c.emergencyVisual = false
		c.statusText = snap.AnomalyResult.Status
		if c.statusText == "" {
			c.statusText = "Waiting for scan"
		}
		c.statusClass = "secondary"
		c.applyRecommendationsLocked(snap.Recommendations)
		c.applyMetricsLocked(snap.Metrics)
		c.mu.Unlock()
		c.publish(ctx)
		return
	}

	health := snap.HealthData
	anomaly := snap.AnomalyResult

	c.hasData = true
	c.tiles = metricTiles(health)
	c.healthScore = health.HealthScore
	c.scoreBand = ScoreBand(health.HealthScore)
	c.statusText = anomaly.Status

	raiseAnomalyAlert := false
	var alertKind AlertKind
	var alertMessage string

	risk := strings.ToLower(anomaly.RiskLevel)
	if anomaly.IsAnomaly {
		c.statusClass = string(SeverityForRisk(anomaly.RiskLevel))
		if risk == "high" || risk == "medium" {
			c.emergencyVisual = true
			raiseAnomalyAlert = true
			alertKind = SeverityForRisk(anomaly.RiskLevel)
			alertMessage = anomaly.Status + ": risk level " + anomaly.RiskLevel
		}
	} else {
		c.statusClass = "success"
		c.emergencyVisual = false
	}

	c.applyRecommendationsLocked(snap.Recommendations)
	c.applyMetricsLocked(snap.Metrics)
	c.mu.Unlock()

	c.buffer.Append(chartPointFrom(health))

	if raiseAnomalyAlert {
		c.alerts.Raise(alertKind, alertMessage)
	}

	c.publish(ctx)
}

func (c *Controller) applyRecommendationsLocked(set *models.RecommendationSet) {
	if set == nil || len(set.Recommendations) == 0 {
		c.recommendations = []string{placeholderRecommendation}
		c.recPriority = "low"
		return
	}
	recs := make([]string, len(set.Recommendations))
	copy(recs, set.Recommendations)
	c.recommendations = recs
	c.recPriority = strings.ToLower(set.Priority)
}

func (c *Controller) applyMetricsLocked(report *models.ModelReport) {
	if report == nil {
		return
	}
	c.modelStats = ModelStats{
		Accuracy:          FormatAccuracy(report.Metrics.Accuracy),
		TotalSamples:      report.Metrics.TotalSamples,
		DetectedAnomalies: report.Metrics.DetectedAnomalies,
	}
}

// View 当前渲染状态的快照
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	mode := c.machine.Mode()
	recs := make([]string, len(c.recommendations))
	copy(recs, c.recommendations)
	tiles := make([]Tile, len(c.tiles))
	copy(tiles, c.tiles)

	return View{
		Connected:              c.connected,
		Mode:                   mode,
		ScanControlsVisible:    mode == session.ModeIdle,
		StopControlVisible:     mode != session.ModeIdle,
		EmergencyVisual:        c.emergencyVisual,
		StatusText:             c.statusText,
		StatusClass:            c.statusClass,
		HealthScore:            c.healthScore,
		ScoreBand:              c.scoreBand,
		Tiles:                  tiles,
		Recommendations:        recs,
		RecommendationPriority: c.recPriority,
		ModelStats:             c.modelStats,
		Chart:                  chartData(c.buffer.Series()),
		Alert:                  c.alerts.Current(),
		UpdatedAt:              c.updatedAt,
	}
}

// ChartPoints 当前滚动窗口的拷贝（供 PNG 渲染）
func (c *Controller) ChartPoints() []models.ChartPoint {
	return c.buffer.Series()
}

// DismissAlert 手动关闭当前告警
func (c *Controller) DismissAlert() {
	c.alerts.Dismiss()
}

// StartNormalScan 发起普通扫描（Idle → Normal）
func (c *Controller) StartNormalScan(ctx context.Context) (string, error) {
	return c.transition(ctx, session.ControlNormalScan, c.backend.NormalScan, AlertSuccess)
}

// StartEmergencyScan 发起紧急扫描（Idle → Emergency）
func (c *Controller) StartEmergencyScan(ctx context.Context) (string, error) {
	return c.transition(ctx, session.ControlEmergencyScan, c.backend.EmergencyScan, AlertWarning)
}

// StopScan 停止当前扫描（Normal/Emergency → Idle）
func (c *Controller) StopScan(ctx context.Context) (string, error) {
	return c.transition(ctx, session.ControlStop, c.backend.StopScan, AlertInfo)
}

// Retrain 触发模型重训，成功后延迟刷新一次快照
func (c *Controller) Retrain(ctx context.Context) (string, error) {
	if err := c.machine.Begin(session.ControlRetrain); err != nil {
		return "", err
	}
	defer c.machine.End(session.ControlRetrain)

	ack, err := c.backend.Retrain(ctx)
	if err != nil {
		c.alerts.Raise(AlertDanger, "Failed to retrain model")
		c.logger.Error("Model retrain failed",
			zap.Error(err),
		)
		return "", err
	}

	c.alerts.Raise(AlertSuccess, ack.Message)
	if c.scheduler != nil {
		c.scheduler.TriggerAfter(c.retrainDelay)
	}
	return ack.Message, nil
}

// transition 两步会话转换：锁定控制 → 后端确认 → 提交本地模式
// 失败保持原状态；无论结果如何都释放控制
func (c *Controller) transition(
	ctx context.Context,
	control session.Control,
	call func(ctx context.Context) (*models.Ack, error),
	successKind AlertKind,
) (string, error) {
	if err := c.machine.Begin(control); err != nil {
		return "", err
	}
	defer c.machine.End(control)

	ack, err := call(ctx)
	if err != nil {
		c.alerts.Raise(AlertDanger, transitionFailureMessage(control))
		c.logger.Error("Session transition failed",
			zap.String("control", string(control)),
			zap.Error(err),
		)
		return "", err
	}

	c.machine.Commit(control)
	c.alerts.Raise(successKind, ack.Message)

	// 模式变更后立即刷新快照
	if c.scheduler != nil {
		c.scheduler.Trigger()
	}
	c.publish(ctx)

	return ack.Message, nil
}

func (c *Controller) publish(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Publish(ctx, c.View()); err != nil {
		c.logger.Warn("Failed to publish view cache",
			zap.Error(err),
		)
	}
}

func transitionFailureMessage(control session.Control) string {
	switch control {
	case session.ControlNormalScan:
		return "Failed to start normal scan"
	case session.ControlEmergencyScan:
		return "Failed to start emergency scan"
	case session.ControlStop:
		return "Failed to stop scan"
	default:
		return "Request failed"
	}
}

// chartPointFrom 快照到图表点的 1:1 派生
func chartPointFrom(h *models.HealthSnapshot) models.ChartPoint {
	at := parseTimestamp(h.Timestamp)
	return models.ChartPoint{
		Label:       at.Format(chartLabelFormat),
		At:          at,
		HeartRate:   float64(h.HeartRate),
		BloodOxygen: h.BloodOxygen,
		Temperature: h.Temperature,
		HealthScore: h.HealthScore,
	}
}

// parseTimestamp 兼容带/不带时区的 ISO 时间戳，解析失败退回当前时间
func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", ts); err == nil {
		return t
	}
	return time.Now()
}

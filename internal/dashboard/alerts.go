package dashboard

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// AlertKind 告警视觉级别（不影响消失时间）
type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
	AlertWarning AlertKind = "warning"
	AlertDanger  AlertKind = "danger"
)

// Alert 当前展示的告警
type Alert struct {
	Kind     AlertKind `json:"kind"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raised_at"`
}

// DefaultAlertDuration 告警自动消失的默认时长
const DefaultAlertDuration = 5 * time.Second

// AlertPresenter 单槽位临时告警
// 新告警直接覆盖旧告警并重置计时器（last-write-wins，不排队）
type AlertPresenter struct {
	mu       sync.Mutex
	duration time.Duration
	current  *Alert
	timer    *time.Timer
	gen      uint64 // 覆盖时自增，旧计时器触发后据此忽略
	logger   *zap.Logger
}

// NewAlertPresenter 创建告警槽位，duration<=0 时使用默认时长
func NewAlertPresenter(duration time.Duration, logger *zap.Logger) *AlertPresenter {
	if duration <= 0 {
		duration = DefaultAlertDuration
	}
	return &AlertPresenter{
		duration: duration,
		logger:   logger,
	}
}

// Raise 展示告警，覆盖当前槽位并重启自动消失计时器
func (p *AlertPresenter) Raise(kind AlertKind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = &Alert{
		Kind:     kind,
		Message:  message,
		RaisedAt: time.Now(),
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	g := p.gen
	p.timer = time.AfterFunc(p.duration, func() { p.expire(g) })

	p.logger.Debug("Alert raised",
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
}

// Dismiss 手动关闭当前告警
func (p *AlertPresenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

// Current 当前告警的拷贝，无告警时返回 nil
func (p *AlertPresenter) Current() *Alert {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	a := *p.current
	return &a
}

// Close 停止计时器（进程退出/页面销毁时调用）
func (p *AlertPresenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *AlertPresenter) expire(g uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != g {
		// 槽位已被更新的告警覆盖
		return
	}
	p.current = nil
	p.timer = nil
}

func (p *AlertPresenter) clearLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	p.current = nil
}

package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval 快照轮询默认间隔
const DefaultPollInterval = 5 * time.Second

// Poller 固定节奏的快照轮询器
// 保证同一时刻最多一个请求在途：上一次尚未完成时，新的 tick 直接丢弃（不排队）
// Idle 模式下也照常轮询，以便展示哨兵/等待状态
type Poller struct {
	interval time.Duration
	fetch    func(ctx context.Context) // 回调自行处理错误，失败不中断节奏
	logger   *zap.Logger

	inFlight atomic.Bool
	paused   atomic.Bool
	trigger  chan struct{}
}

// NewPoller 创建轮询器，interval<=0 时使用默认间隔
func NewPoller(interval time.Duration, fetch func(ctx context.Context), logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start 运行轮询循环直到 ctx 取消；启动时立即拉取一次
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Polling loop started",
		zap.Duration("interval", p.interval),
	)

	p.runFetch(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Polling loop stopped")
			return
		case <-ticker.C:
			if p.paused.Load() {
				continue
			}
			p.runFetch(ctx)
		case <-p.trigger:
			p.runFetch(ctx)
		}
	}
}

// Pause 暂停定时轮询（页面不可见时）
func (p *Poller) Pause() {
	if p.paused.CompareAndSwap(false, true) {
		p.logger.Info("Polling paused")
	}
}

// Resume 恢复轮询并立即拉取一次
func (p *Poller) Resume() {
	if p.paused.CompareAndSwap(true, false) {
		p.logger.Info("Polling resumed")
		p.Trigger()
	}
}

// Paused 当前是否处于暂停状态
func (p *Poller) Paused() bool {
	return p.paused.Load()
}

// Trigger 在固定节奏之外手动触发一次拉取（同样受在途限制）
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
		// 已有待处理的触发
	}
}

// TriggerAfter 延迟触发一次拉取（重训成功后约 1 秒刷新）
func (p *Poller) TriggerAfter(d time.Duration) {
	time.AfterFunc(d, p.Trigger)
}

func (p *Poller) runFetch(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("Fetch already in flight, skipping tick")
		return
	}
	go func() {
		defer p.inFlight.Store(false)
		p.fetch(ctx)
	}()
}

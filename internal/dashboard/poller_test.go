package dashboard_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PurpleChirp/HealthWatcher/internal/dashboard"
)

func TestPoller_AtMostOneInFlight(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})

	// fetch 阻塞在 gate 上，模拟慢后端
	fetch := func(ctx context.Context) {
		calls.Add(1)
		<-gate
	}

	p := dashboard.NewPoller(10*time.Millisecond, fetch, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	// 多个 tick 过去后仍应只有一个请求在途
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load(), "ticks while a fetch is pending must be dropped")

	close(gate)
	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond, "cadence should continue after the slow fetch completes")
}

func TestPoller_PauseStopsCadence(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) {
		calls.Add(1)
	}

	p := dashboard.NewPoller(15*time.Millisecond, fetch, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	p.Pause()
	require.True(t, p.Paused())
	// 暂停后让在途请求落定再取样
	time.Sleep(30 * time.Millisecond)
	before := calls.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, before, calls.Load(), "no fetches while paused")
}

func TestPoller_ResumeFetchesImmediately(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) {
		calls.Add(1)
	}

	// 间隔拉长，保证恢复后的拉取只能来自 Resume 的立即触发
	p := dashboard.NewPoller(time.Hour, fetch, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond, "initial fetch on start")

	p.Pause()
	p.Resume()

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond, "exactly one immediate fetch after resume")

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(2), calls.Load())
}

func TestPoller_TriggerAfter(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) {
		calls.Add(1)
	}

	p := dashboard.NewPoller(time.Hour, fetch, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	p.TriggerAfter(20 * time.Millisecond)

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond, "delayed trigger should cause one out-of-band fetch")
}

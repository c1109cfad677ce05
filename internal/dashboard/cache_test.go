package dashboard_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PurpleChirp/HealthWatcher/internal/dashboard"
	"github.com/PurpleChirp/HealthWatcher/internal/session"
)

// fakeKVStore 内存 KV 替身
type fakeKVStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKVStore) get(key string) (string, time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, f.ttls[key], ok
}

func TestCachePublisher_PublishWritesViewJSON(t *testing.T) {
	kv := newFakeKVStore()
	p := dashboard.NewCachePublisher(kv, "health-watcher:dashboard:view", 30*time.Second, zap.NewNop())

	view := dashboard.View{
		Connected:   true,
		StatusText:  "Normal",
		StatusClass: "success",
		HealthScore: 85,
		ScoreBand:   dashboard.BandSuccess,
	}
	require.NoError(t, p.Publish(context.Background(), view))

	raw, ttl, ok := kv.get("health-watcher:dashboard:view")
	require.True(t, ok)
	require.Equal(t, 30*time.Second, ttl)

	var decoded dashboard.View
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.True(t, decoded.Connected)
	require.Equal(t, "Normal", decoded.StatusText)
	require.Equal(t, dashboard.BandSuccess, decoded.ScoreBand)
}

func TestCachePublisher_SetFailureWrapped(t *testing.T) {
	kv := newFakeKVStore()
	kv.err = context.DeadlineExceeded
	p := dashboard.NewCachePublisher(kv, "k", time.Second, zap.NewNop())

	err := p.Publish(context.Background(), dashboard.View{})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_PublishesViewAfterSnapshot(t *testing.T) {
	kv := newFakeKVStore()
	publisher := dashboard.NewCachePublisher(kv, "view", time.Minute, zap.NewNop())

	logger := zap.NewNop()
	backend := &fakeBackend{}
	machine := session.NewMachine(logger)
	buffer := dashboard.NewTimeSeriesBuffer(20)
	alerts := dashboard.NewAlertPresenter(time.Hour, logger)
	defer alerts.Close()
	c := dashboard.NewController(backend, machine, buffer, alerts, publisher, time.Second, logger)

	c.FetchOnce(context.Background())

	raw, _, ok := kv.get("view")
	require.True(t, ok, "applied snapshot must be published to the view cache")

	var decoded dashboard.View
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.True(t, decoded.Connected)
	require.Equal(t, "Waiting for fingerprint scan...", decoded.StatusText)
}

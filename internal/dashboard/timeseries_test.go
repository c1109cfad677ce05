package dashboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PurpleChirp/HealthWatcher/internal/dashboard"
	"github.com/PurpleChirp/HealthWatcher/internal/models"
)

func point(i int) models.ChartPoint {
	return models.ChartPoint{
		Label:       fmt.Sprintf("p%d", i),
		HeartRate:   float64(60 + i),
		BloodOxygen: 98,
		Temperature: 98.6,
		HealthScore: float64(i),
	}
}

func TestTimeSeriesBuffer_FIFOEvictionLaw(t *testing.T) {
	capacity := 20
	b := dashboard.NewTimeSeriesBuffer(capacity)

	for n := 1; n <= 50; n++ {
		b.Append(point(n))

		require.LessOrEqual(t, b.Len(), capacity, "length must never exceed capacity")

		// 窗口必须恰好是最近 min(n, capacity) 个点，保持到达顺序
		series := b.Series()
		expectLen := n
		if expectLen > capacity {
			expectLen = capacity
		}
		require.Len(t, series, expectLen)

		first := n - expectLen + 1
		for i, p := range series {
			require.Equal(t, fmt.Sprintf("p%d", first+i), p.Label)
		}
	}
}

func TestTimeSeriesBuffer_SeriesReturnsCopy(t *testing.T) {
	b := dashboard.NewTimeSeriesBuffer(5)
	b.Append(point(1))
	b.Append(point(2))

	series := b.Series()
	series[0].Label = "mutated"

	require.Equal(t, "p1", b.Series()[0].Label)
}

func TestTimeSeriesBuffer_DefaultCapacity(t *testing.T) {
	b := dashboard.NewTimeSeriesBuffer(0)
	require.Equal(t, dashboard.DefaultChartCapacity, b.Capacity())
}

package dashboard

import (
	"sync"

	"github.com/PurpleChirp/HealthWatcher/internal/models"
)

// DefaultChartCapacity 图表滚动窗口默认容量
const DefaultChartCapacity = 20

// TimeSeriesBuffer 固定容量的图表滚动窗口
// 严格 FIFO：超出容量时淘汰最老的点；不排序、不按时间戳去重（图表展示到达顺序）
type TimeSeriesBuffer struct {
	mu       sync.RWMutex
	capacity int
	points   []models.ChartPoint
}

// NewTimeSeriesBuffer 创建滚动窗口，capacity<=0 时使用默认容量
func NewTimeSeriesBuffer(capacity int) *TimeSeriesBuffer {
	if capacity <= 0 {
		capacity = DefaultChartCapacity
	}
	return &TimeSeriesBuffer{
		capacity: capacity,
		points:   make([]models.ChartPoint, 0, capacity),
	}
}

// Append 追加一个点，超容量时淘汰最老的一个
func (b *TimeSeriesBuffer) Append(p models.ChartPoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.points = append(b.points, p)
	if len(b.points) > b.capacity {
		// 原地左移，避免底层数组无限增长
		copy(b.points, b.points[1:])
		b.points = b.points[:b.capacity]
	}
}

// Series 返回当前窗口的拷贝（调用方不得依赖原地修改）
func (b *TimeSeriesBuffer) Series() []models.ChartPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.ChartPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len 当前窗口长度
func (b *TimeSeriesBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.points)
}

// Capacity 窗口容量
func (b *TimeSeriesBuffer) Capacity() int {
	return b.capacity
}

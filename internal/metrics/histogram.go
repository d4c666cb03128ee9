package metrics

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Latency bounds covered by the histogram buckets.
// 直方图桶覆盖的延迟范围。
const (
	histogramMinNs = int64(1_000)          // 1µs
	histogramMaxNs = int64(10_000_000_000) // 10s
)

// Histogram records a latency distribution over log-scaled buckets.
// Recording is lock-free; Reset and snapshots take the mutex.
//
// Histogram 在对数刻度的桶上记录延迟分布。
// 记录操作无锁；Reset和快照会获取互斥锁。
type Histogram struct {
	bounds []int64  // Upper bound of each bucket in ns / 每个桶的上界（纳秒）
	counts []uint64 // Per-bucket counts / 每个桶的计数
	count  uint64
	min    int64
	max    int64
	sum    int64
	mu     sync.RWMutex
}

// HistogramSnapshot is a point-in-time view of a Histogram.
// HistogramSnapshot 是直方图的时间点视图。
type HistogramSnapshot struct {
	BucketBounds []int64  `json:"bucket_bounds"`
	BucketCounts []uint64 `json:"bucket_counts"`
	Count        uint64   `json:"count"`
	Min          int64    `json:"min"`
	Max          int64    `json:"max"`
	Sum          int64    `json:"sum"`
	Mean         float64  `json:"mean"`
	P50          int64    `json:"p50"`
	P90          int64    `json:"p90"`
	P99          int64    `json:"p99"`
}

// NewHistogram creates a histogram with bucketCount log-scaled buckets
// between 1µs and 10s. Non-positive counts default to 10.
//
// NewHistogram 创建一个在1微秒到10秒之间具有bucketCount个对数刻度桶的直方图。
// 非正数默认为10。
func NewHistogram(bucketCount int) *Histogram {
	if bucketCount <= 0 {
		bucketCount = 10
	}

	ratio := float64(histogramMaxNs) / float64(histogramMinNs)
	bounds := make([]int64, bucketCount+1)
	for i := range bounds {
		bounds[i] = int64(float64(histogramMinNs) * math.Pow(ratio, float64(i)/float64(bucketCount)))
	}

	return &Histogram{
		bounds: bounds,
		counts: make([]uint64, len(bounds)),
		min:    math.MaxInt64,
	}
}

// RecordLatency adds one observation. Values above the last bound land in
// the last bucket.
//
// RecordLatency 添加一个观测值。超过最后一个边界的值落入最后一个桶。
func (h *Histogram) RecordLatency(ns int64) {
	for {
		cur := atomic.LoadInt64(&h.min)
		if ns >= cur || atomic.CompareAndSwapInt64(&h.min, cur, ns) {
			break
		}
	}
	for {
		cur := atomic.LoadInt64(&h.max)
		if ns <= cur || atomic.CompareAndSwapInt64(&h.max, cur, ns) {
			break
		}
	}
	atomic.AddInt64(&h.sum, ns)

	i := sort.Search(len(h.bounds), func(i int) bool { return ns <= h.bounds[i] })
	if i == len(h.bounds) {
		i--
	}
	atomic.AddUint64(&h.counts[i], 1)
	atomic.AddUint64(&h.count, 1)
}

// Reset clears all observations.
// Reset 清除所有观测值。
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.counts {
		atomic.StoreUint64(&h.counts[i], 0)
	}
	atomic.StoreUint64(&h.count, 0)
	atomic.StoreInt64(&h.min, math.MaxInt64)
	atomic.StoreInt64(&h.max, 0)
	atomic.StoreInt64(&h.sum, 0)
}

// GetSnapshot returns the counts and derived percentiles.
// GetSnapshot 返回计数和推导出的百分位数。
func (h *Histogram) GetSnapshot() *HistogramSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make([]uint64, len(h.counts))
	for i := range h.counts {
		counts[i] = atomic.LoadUint64(&h.counts[i])
	}
	s := &HistogramSnapshot{
		BucketBounds: append([]int64(nil), h.bounds...),
		BucketCounts: counts,
		Count:        atomic.LoadUint64(&h.count),
	}
	if s.Count == 0 {
		return s
	}

	s.Min = atomic.LoadInt64(&h.min)
	s.Max = atomic.LoadInt64(&h.max)
	s.Sum = atomic.LoadInt64(&h.sum)
	s.Mean = float64(s.Sum) / float64(s.Count)
	s.P50 = h.percentile(counts, 0.5)
	s.P90 = h.percentile(counts, 0.9)
	s.P99 = h.percentile(counts, 0.99)
	return s
}

// percentile interpolates linearly inside the bucket holding the target rank.
func (h *Histogram) percentile(counts []uint64, p float64) int64 {
	var total uint64
	for _, c := range counts {
		total += c
	}
	if total == 0 || p < 0 || p > 1 {
		return 0
	}

	target := uint64(math.Ceil(float64(total) * p))
	var seen uint64
	for i, c := range counts {
		if c == 0 {
			continue
		}
		if seen+c >= target {
			lo := int64(0)
			if i > 0 {
				lo = h.bounds[i-1]
			}
			hi := h.bounds[i]
			pos := float64(target-seen) / float64(c)
			return lo + int64(float64(hi-lo)*pos)
		}
		seen += c
	}
	return h.bounds[len(h.bounds)-1]
}

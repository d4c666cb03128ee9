// Package metrics provides storefront runtime metrics collection, statistics, and reporting.
// Package metrics 提供店面运行时指标采集、统计和输出功能。
//
// Counters are updated atomically so they can be recorded from request
// handlers and store commits without extra locking. Persistence latency is
// tracked in a histogram when the Detailed level is enabled.
//
// 计数器采用原子更新，因此可以在请求处理器和存储提交中记录而无需额外加锁。
// 启用Detailed级别时，持久化延迟会记录在直方图中。
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Level defines the metrics collection level.
// Level 定义指标采集级别。
type Level int

const (
	// Disabled means metrics collection is turned off.
	// Disabled 表示禁用指标采集。
	Disabled Level = iota

	// Basic enables the event counters.
	// Basic 启用事件计数器。
	Basic

	// Detailed additionally records persistence latency distribution.
	// Detailed 额外记录持久化延迟分布。
	Detailed
)

// Metrics is the storefront metrics collector.
// It uses atomic operations to ensure thread safety in high-concurrency environments.
//
// Metrics 是店面指标收集器。
// 使用原子操作确保高并发环境下的线程安全。
type Metrics struct {
	level Level

	// Persistence metrics
	// 持久化相关指标
	slotReads     uint64 // Snapshot reads / 快照读取次数
	slotWrites    uint64 // Snapshot writes / 快照写入次数
	slotDeletes   uint64 // Snapshot deletes / 快照删除次数
	slotFailures  uint64 // Failed storage calls / 存储调用失败次数
	writeLatency  uint64 // Sum of write latencies (ns) / 写入延迟总和（纳秒）
	bytesWritten  uint64 // Total snapshot bytes written / 写入的快照字节总数
	slotRestores  uint64 // Stores restored from a snapshot / 从快照恢复的存储数
	sessionResets uint64 // Session resets / 会话重置次数

	// Shopper activity metrics
	// 购物者活动指标
	logins     uint64 // Successful logins / 成功登录次数
	signups    uint64 // Successful signups / 成功注册次数
	orders     uint64 // Placed orders / 已下订单数
	orderValue uint64 // Sum of order totals in rupees / 订单总额（卢比）

	// Latency histogram
	// 延迟直方图
	writeHistogram *Histogram

	startedAt int64
	mu        sync.RWMutex
}

// Config defines metrics configuration options.
// Config 定义指标配置选项。
type Config struct {
	// Level determines the detail level of metrics collection
	// Level 指定指标采集的详细程度
	Level Level

	// HistogramBuckets specifies the number of buckets in the latency histogram
	// HistogramBuckets 指定延迟直方图中的桶数量
	HistogramBuckets int
}

// New creates a new metrics collector. A nil config selects the Basic level.
//
// New 创建一个新的指标收集器。config为nil时使用Basic级别。
func New(config *Config) *Metrics {
	if config == nil {
		config = &Config{Level: Basic}
	}

	m := &Metrics{
		level:     config.Level,
		startedAt: time.Now().UnixNano(),
	}
	if config.Level >= Detailed {
		m.writeHistogram = NewHistogram(config.HistogramBuckets)
	}
	return m
}

func (m *Metrics) enabled() bool {
	return m != nil && m.level != Disabled
}

// RecordRead records a snapshot read.
// RecordRead 记录一次快照读取。
func (m *Metrics) RecordRead() {
	if m.enabled() {
		atomic.AddUint64(&m.slotReads, 1)
	}
}

// RecordWrite records a successful snapshot write of size bytes that took latency.
// RecordWrite 记录一次成功的快照写入。
func (m *Metrics) RecordWrite(size int, latency time.Duration) {
	if !m.enabled() {
		return
	}
	atomic.AddUint64(&m.slotWrites, 1)
	atomic.AddUint64(&m.bytesWritten, uint64(size))
	atomic.AddUint64(&m.writeLatency, uint64(latency.Nanoseconds()))

	m.mu.RLock()
	h := m.writeHistogram
	m.mu.RUnlock()
	if h != nil {
		h.RecordLatency(latency.Nanoseconds())
	}
}

// RecordDelete records a snapshot delete.
// RecordDelete 记录一次快照删除。
func (m *Metrics) RecordDelete() {
	if m.enabled() {
		atomic.AddUint64(&m.slotDeletes, 1)
	}
}

// RecordFailure records a failed storage call.
// RecordFailure 记录一次失败的存储调用。
func (m *Metrics) RecordFailure() {
	if m.enabled() {
		atomic.AddUint64(&m.slotFailures, 1)
	}
}

// RecordRestore records a store rehydrated from its snapshot.
// RecordRestore 记录一个从快照恢复的存储。
func (m *Metrics) RecordRestore() {
	if m.enabled() {
		atomic.AddUint64(&m.slotRestores, 1)
	}
}

// RecordReset records a session reset.
// RecordReset 记录一次会话重置。
func (m *Metrics) RecordReset() {
	if m.enabled() {
		atomic.AddUint64(&m.sessionResets, 1)
	}
}

// RecordLogin records a successful login.
// RecordLogin 记录一次成功登录。
func (m *Metrics) RecordLogin() {
	if m.enabled() {
		atomic.AddUint64(&m.logins, 1)
	}
}

// RecordSignup records a successful signup.
// RecordSignup 记录一次成功注册。
func (m *Metrics) RecordSignup() {
	if m.enabled() {
		atomic.AddUint64(&m.signups, 1)
	}
}

// RecordOrder records a placed order with its total in rupees.
// RecordOrder 记录一个已下订单及其总额（卢比）。
func (m *Metrics) RecordOrder(total int) {
	if !m.enabled() {
		return
	}
	atomic.AddUint64(&m.orders, 1)
	if total > 0 {
		atomic.AddUint64(&m.orderValue, uint64(total))
	}
}

// Reset zeroes all counters and the histogram.
// Reset 将所有计数器和直方图归零。
func (m *Metrics) Reset() {
	for _, c := range []*uint64{
		&m.slotReads, &m.slotWrites, &m.slotDeletes, &m.slotFailures,
		&m.writeLatency, &m.bytesWritten, &m.slotRestores, &m.sessionResets,
		&m.logins, &m.signups, &m.orders, &m.orderValue,
	} {
		atomic.StoreUint64(c, 0)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.writeHistogram != nil {
		m.writeHistogram.Reset()
	}
}

// GetLevel returns the collection level.
// GetLevel 返回采集级别。
func (m *Metrics) GetLevel() Level {
	return m.level
}

// GetSnapshot returns a point-in-time copy of every metric.
// GetSnapshot 返回所有指标的时间点副本。
func (m *Metrics) GetSnapshot() *Snapshot {
	if m == nil {
		return nil
	}

	s := &Snapshot{
		Timestamp:     time.Now().UnixNano(),
		Uptime:        time.Duration(time.Now().UnixNano() - m.startedAt),
		SlotReads:     atomic.LoadUint64(&m.slotReads),
		SlotWrites:    atomic.LoadUint64(&m.slotWrites),
		SlotDeletes:   atomic.LoadUint64(&m.slotDeletes),
		SlotFailures:  atomic.LoadUint64(&m.slotFailures),
		BytesWritten:  atomic.LoadUint64(&m.bytesWritten),
		Restores:      atomic.LoadUint64(&m.slotRestores),
		SessionResets: atomic.LoadUint64(&m.sessionResets),
		Logins:        atomic.LoadUint64(&m.logins),
		Signups:       atomic.LoadUint64(&m.signups),
		Orders:        atomic.LoadUint64(&m.orders),
		OrderValue:    atomic.LoadUint64(&m.orderValue),
	}
	if s.SlotWrites > 0 {
		s.WriteLatencyAvg = int64(atomic.LoadUint64(&m.writeLatency) / s.SlotWrites)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.writeHistogram != nil {
		s.WriteHistogram = m.writeHistogram.GetSnapshot()
	}
	return s
}

// Snapshot is a point-in-time view of the metrics.
// Snapshot 是指标的时间点视图。
type Snapshot struct {
	Timestamp int64         `json:"timestamp"`
	Uptime    time.Duration `json:"uptime_ns"`

	// 持久化相关指标
	SlotReads       uint64 `json:"slot_reads"`
	SlotWrites      uint64 `json:"slot_writes"`
	SlotDeletes     uint64 `json:"slot_deletes"`
	SlotFailures    uint64 `json:"slot_failures"`
	BytesWritten    uint64 `json:"bytes_written"`
	WriteLatencyAvg int64  `json:"write_latency_avg_ns"`
	Restores        uint64 `json:"restores"`
	SessionResets   uint64 `json:"session_resets"`

	// 购物者活动指标
	Logins     uint64 `json:"logins"`
	Signups    uint64 `json:"signups"`
	Orders     uint64 `json:"orders"`
	OrderValue uint64 `json:"order_value"`

	// 延迟直方图
	WriteHistogram *HistogramSnapshot `json:"write_histogram,omitempty"`
}

// String renders the snapshot as JSON.
// String 将快照渲染为JSON。
func (s *Snapshot) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}

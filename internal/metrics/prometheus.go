package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
)

// 默认的Prometheus指标前缀
const defaultMetricPrefix = "vanya"

// PrometheusExporter 将店面指标导出为Prometheus文本格式
type PrometheusExporter struct {
	metrics *Metrics

	// 指标前缀
	prefix string

	// 实例名称，用于标签
	instance string

	mu sync.Mutex
}

// NewPrometheusExporter 创建一个新的Prometheus导出器
func NewPrometheusExporter(metrics *Metrics, instance string) *PrometheusExporter {
	return &PrometheusExporter{
		metrics:  metrics,
		prefix:   defaultMetricPrefix,
		instance: instance,
	}
}

// SetPrefix 设置指标前缀
func (p *PrometheusExporter) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

// Export 导出Prometheus格式的指标
func (p *PrometheusExporter) Export() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.metrics.GetSnapshot()
	if snapshot == nil {
		return ""
	}

	var buf bytes.Buffer

	// 持久化指标
	p.addCounter(&buf, "slot_reads_total", "Total number of snapshot reads", snapshot.SlotReads)
	p.addCounter(&buf, "slot_writes_total", "Total number of snapshot writes", snapshot.SlotWrites)
	p.addCounter(&buf, "slot_deletes_total", "Total number of snapshot deletes", snapshot.SlotDeletes)
	p.addCounter(&buf, "slot_failures_total", "Total number of failed storage calls", snapshot.SlotFailures)
	p.addCounter(&buf, "slot_bytes_written_total", "Total snapshot bytes written", snapshot.BytesWritten)
	p.addGauge(&buf, "slot_write_latency_ns", "Average snapshot write latency in nanoseconds", float64(snapshot.WriteLatencyAvg))
	p.addCounter(&buf, "restores_total", "Total number of stores restored from a snapshot", snapshot.Restores)
	p.addCounter(&buf, "session_resets_total", "Total number of session resets", snapshot.SessionResets)

	// 购物者活动指标
	p.addCounter(&buf, "logins_total", "Total number of successful logins", snapshot.Logins)
	p.addCounter(&buf, "signups_total", "Total number of successful signups", snapshot.Signups)
	p.addCounter(&buf, "orders_total", "Total number of placed orders", snapshot.Orders)
	p.addCounter(&buf, "order_value_rupees_total", "Sum of placed order totals in rupees", snapshot.OrderValue)

	if snapshot.WriteHistogram != nil {
		p.addHistogram(&buf, "slot_write_latency_histogram", "Snapshot write latency histogram in nanoseconds", snapshot.WriteHistogram)
	}

	return buf.String()
}

// addCounter 添加计数器类型指标
func (p *PrometheusExporter) addCounter(buf *bytes.Buffer, name, help string, value uint64) {
	metricName := fmt.Sprintf("%s_%s", p.prefix, name)
	fmt.Fprintf(buf, "# HELP %s %s\n", metricName, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", metricName)
	fmt.Fprintf(buf, "%s{instance=\"%s\"} %d\n\n", metricName, p.instance, value)
}

// addGauge 添加仪表类型指标
func (p *PrometheusExporter) addGauge(buf *bytes.Buffer, name, help string, value float64) {
	metricName := fmt.Sprintf("%s_%s", p.prefix, name)
	fmt.Fprintf(buf, "# HELP %s %s\n", metricName, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", metricName)
	fmt.Fprintf(buf, "%s{instance=\"%s\"} %g\n\n", metricName, p.instance, value)
}

// addHistogram 添加直方图类型指标
func (p *PrometheusExporter) addHistogram(buf *bytes.Buffer, name, help string, histogram *HistogramSnapshot) {
	metricName := fmt.Sprintf("%s_%s", p.prefix, name)
	fmt.Fprintf(buf, "# HELP %s %s\n", metricName, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", metricName)

	cumulative := uint64(0)
	for i, count := range histogram.BucketCounts {
		cumulative += count
		fmt.Fprintf(buf, "%s_bucket{instance=\"%s\",le=\"%d\"} %d\n",
			metricName, p.instance, histogram.BucketBounds[i], cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{instance=\"%s\",le=\"+Inf\"} %d\n", metricName, p.instance, histogram.Count)
	fmt.Fprintf(buf, "%s_sum{instance=\"%s\"} %d\n", metricName, p.instance, histogram.Sum)
	fmt.Fprintf(buf, "%s_count{instance=\"%s\"} %d\n\n", metricName, p.instance, histogram.Count)
}

// ServeHTTP 实现http.Handler接口，用于提供Prometheus指标端点
func (p *PrometheusExporter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	_, _ = w.Write([]byte(p.Export()))
}

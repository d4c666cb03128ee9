package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

func TestCountersAreConcurrent(t *testing.T) {
	m := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordLogin()
			m.RecordOrder(1000)
			m.RecordWrite(10, time.Millisecond)
		}()
	}
	wg.Wait()

	s := m.GetSnapshot()
	assert.EqualValues(t, 50, s.Logins)
	assert.EqualValues(t, 50, s.Orders)
	assert.EqualValues(t, 50_000, s.OrderValue)
	assert.EqualValues(t, 500, s.BytesWritten)
	assert.Equal(t, time.Millisecond.Nanoseconds(), s.WriteLatencyAvg)
	assert.Nil(t, s.WriteHistogram, "basic level has no histogram")
}

func TestDisabledRecordsNothing(t *testing.T) {
	m := New(&Config{Level: Disabled})
	m.RecordLogin()
	m.RecordFailure()
	m.RecordOrder(10)

	s := m.GetSnapshot()
	assert.Zero(t, s.Logins)
	assert.Zero(t, s.SlotFailures)
	assert.Zero(t, s.Orders)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordLogin()
	m.RecordWrite(1, time.Second)
	assert.Nil(t, m.GetSnapshot())
}

func TestReset(t *testing.T) {
	m := New(&Config{Level: Detailed, HistogramBuckets: 8})
	m.RecordSignup()
	m.RecordWrite(4, 2*time.Millisecond)
	m.Reset()

	s := m.GetSnapshot()
	assert.Zero(t, s.Signups)
	assert.Zero(t, s.SlotWrites)
	require.NotNil(t, s.WriteHistogram)
	assert.Zero(t, s.WriteHistogram.Count)
}

func TestHistogram(t *testing.T) {
	h := NewHistogram(20)
	for i := 1; i <= 100; i++ {
		h.RecordLatency(int64(i) * int64(time.Millisecond))
	}

	s := h.GetSnapshot()
	assert.EqualValues(t, 100, s.Count)
	assert.Equal(t, int64(time.Millisecond), s.Min)
	assert.Equal(t, int64(100*time.Millisecond), s.Max)
	assert.InDelta(t, float64(50500*time.Microsecond), s.Mean, 1)
	assert.LessOrEqual(t, s.P50, s.P90)
	assert.LessOrEqual(t, s.P90, s.P99)
	assert.LessOrEqual(t, s.P99, s.BucketBounds[len(s.BucketBounds)-1])

	h.RecordLatency(int64(time.Hour))
	s = h.GetSnapshot()
	assert.EqualValues(t, 1, s.BucketCounts[len(s.BucketCounts)-1], "overflow lands in the last bucket")
}

func TestInstrumentedStorage(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	mem := persist.NewMemoryStorage()
	s := Instrument(mem, m)

	require.NoError(t, s.Set(ctx, "vanya-cart", []byte("abc")))
	_, ok, err := s.Get(ctx, "vanya-cart")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.Delete(ctx, "vanya-cart")
	require.NoError(t, err)
	assert.Same(t, mem, s.Unwrap())

	require.NoError(t, s.Close())
	err = s.Set(ctx, "vanya-cart", []byte("abc"))
	assert.True(t, verrors.IsClosed(err))

	snap := m.GetSnapshot()
	assert.EqualValues(t, 1, snap.SlotWrites)
	assert.EqualValues(t, 1, snap.SlotReads)
	assert.EqualValues(t, 1, snap.SlotDeletes)
	assert.EqualValues(t, 1, snap.SlotFailures)
	assert.EqualValues(t, 3, snap.BytesWritten)
}

func TestPrometheusExport(t *testing.T) {
	m := New(&Config{Level: Detailed})
	m.RecordOrder(92999)
	m.RecordWrite(16, time.Millisecond)

	exp := NewPrometheusExporter(m, "test")
	out := exp.Export()
	assert.Contains(t, out, `vanya_orders_total{instance="test"} 1`)
	assert.Contains(t, out, `vanya_order_value_rupees_total{instance="test"} 92999`)
	assert.Contains(t, out, `vanya_slot_write_latency_histogram_count{instance="test"} 1`)

	exp.SetPrefix("shop")
	rec := httptest.NewRecorder()
	exp.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "# TYPE shop_logins_total counter")
}

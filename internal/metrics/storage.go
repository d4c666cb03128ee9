package metrics

import (
	"context"
	"time"

	"github.com/Humphrey-He/vanya/pkg/persist"
)

// Storage decorates a persist.Storage and records every call.
// Storage 装饰persist.Storage并记录每次调用。
type Storage struct {
	next    persist.Storage
	metrics *Metrics
}

var _ persist.Storage = (*Storage)(nil)

// Instrument wraps next so its reads, writes and failures are counted in m.
// Instrument 包装next，使其读取、写入和失败计入m。
func Instrument(next persist.Storage, m *Metrics) *Storage {
	return &Storage{next: next, metrics: m}
}

// Unwrap returns the decorated storage.
func (s *Storage) Unwrap() persist.Storage {
	return s.next
}

func (s *Storage) Get(ctx context.Context, name string) ([]byte, bool, error) {
	blob, ok, err := s.next.Get(ctx, name)
	if err != nil {
		s.metrics.RecordFailure()
		return nil, false, err
	}
	s.metrics.RecordRead()
	return blob, ok, nil
}

func (s *Storage) Set(ctx context.Context, name string, blob []byte) error {
	start := time.Now()
	if err := s.next.Set(ctx, name, blob); err != nil {
		s.metrics.RecordFailure()
		return err
	}
	s.metrics.RecordWrite(len(blob), time.Since(start))
	return nil
}

func (s *Storage) Delete(ctx context.Context, name string) (bool, error) {
	existed, err := s.next.Delete(ctx, name)
	if err != nil {
		s.metrics.RecordFailure()
		return false, err
	}
	s.metrics.RecordDelete()
	return existed, nil
}

func (s *Storage) Close() error {
	return s.next.Close()
}

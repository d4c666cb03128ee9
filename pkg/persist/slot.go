package persist

import (
	"context"
	"fmt"

	"github.com/Humphrey-He/vanya/pkg/codec"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// Envelope is the persisted layout of a slot: the store state plus a schema
// version. With the JSON codec it reads {"state": {...}, "version": 0}.
//
// Envelope 是槽的持久化布局：存储状态加上模式版本。
type Envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

// Slot binds a storage, a codec and a slot name for one store's state.
// A nil *Slot is valid and persists nothing, which lets stores run without
// a storage backend.
//
// Slot 为一个存储的状态绑定存储后端、编解码器和槽名。
// nil *Slot 是有效的，不会持久化任何内容。
type Slot[T any] struct {
	storage Storage
	codec   codec.Codec
	name    string
	version int
}

// NewSlot creates a slot. A nil codec selects codec.DefaultCodec.
//
// NewSlot 创建一个槽。nil编解码器将使用codec.DefaultCodec。
func NewSlot[T any](storage Storage, c codec.Codec, name string) *Slot[T] {
	if c == nil {
		c = codec.DefaultCodec()
	}
	return &Slot[T]{storage: storage, codec: c, name: name}
}

// WithVersion returns a copy of the slot that writes and expects version v.
// Snapshots written under another version are ignored on Load.
func (s *Slot[T]) WithVersion(v int) *Slot[T] {
	cp := *s
	cp.version = v
	return &cp
}

// Name returns the slot name, or "" for a nil slot.
func (s *Slot[T]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Save encodes state and writes it to the slot.
//
// Save 编码状态并写入槽。
func (s *Slot[T]) Save(ctx context.Context, state T) error {
	if s == nil {
		return nil
	}

	blob, err := s.codec.Marshal(Envelope[T]{State: state, Version: s.version})
	if err != nil {
		return verrors.NewSlotError(s.name, fmt.Errorf("%w: %w", verrors.ErrSerializationFailed, err))
	}
	if err := s.storage.Set(ctx, s.name, blob); err != nil {
		return err
	}
	return nil
}

// Load reads and decodes the slot. The boolean is false when the slot is
// absent or was written under a different version; the caller then keeps its
// default state.
//
// Load 读取并解码槽。当槽不存在或版本不同时布尔值为false，调用方保持默认状态。
func (s *Slot[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	if s == nil {
		return zero, false, nil
	}

	blob, ok, err := s.storage.Get(ctx, s.name)
	if err != nil || !ok {
		return zero, false, err
	}

	var env Envelope[T]
	if err := s.codec.Unmarshal(blob, &env); err != nil {
		return zero, false, verrors.NewSlotError(s.name, fmt.Errorf("%w: %w", verrors.ErrDeserializationFailed, err))
	}
	if env.Version != s.version {
		return zero, false, nil
	}
	return env.State, true, nil
}

// Clear deletes the slot.
//
// Clear 删除槽。
func (s *Slot[T]) Clear(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_, err := s.storage.Delete(ctx, s.name)
	return err
}

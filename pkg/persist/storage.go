// Package persist provides the durable key-value slots that store snapshots
// are written to after every mutation and restored from at startup.
// A Storage holds named blobs; a Slot binds a storage, a codec and a name
// so each store can persist independently of the others.
//
// Package persist 提供持久化的键值槽，存储快照在每次变更后写入，并在启动时恢复。
// Storage 保存命名的二进制块；Slot 将存储、编解码器和名称绑定在一起，
// 使每个状态存储可以独立持久化。
package persist

import (
	"context"
	"fmt"
	"strings"
)

// Storage defines the capability to get, set and delete named blobs.
// All methods are safe for concurrent use.
//
// Storage 定义获取、设置和删除命名二进制块的能力。
// 所有方法都可以安全地并发调用。
type Storage interface {
	// Get returns the blob stored under name.
	// If the slot does not exist, (nil, false, nil) is returned.
	//
	// Get 返回name下保存的二进制块。
	// 如果槽不存在，则返回 (nil, false, nil)。
	Get(ctx context.Context, name string) ([]byte, bool, error)

	// Set stores blob under name, replacing any previous value.
	//
	// Set 将blob保存在name下，替换之前的值。
	Set(ctx context.Context, name string, blob []byte) error

	// Delete removes the slot. It returns true if the slot existed.
	//
	// Delete 删除槽。如果槽存在则返回true。
	Delete(ctx context.Context, name string) (bool, error)

	// Close releases resources held by the storage.
	//
	// Close 释放存储持有的资源。
	Close() error
}

// Engine names accepted by Open.
const (
	EngineMemory = "memory"
	EngineFile   = "file"
	EngineSQLite = "sqlite"
)

// Open creates the storage selected by engine.
// path is the directory for the file engine and the database file for sqlite;
// it is ignored by the memory engine.
//
// Open 创建由engine选择的存储。
func Open(engine, path string) (Storage, error) {
	switch strings.ToLower(engine) {
	case "", EngineMemory:
		return NewMemoryStorage(), nil
	case EngineFile:
		return NewFileStorage(path)
	case EngineSQLite:
		return NewSQLiteStorage(path)
	default:
		return nil, fmt.Errorf("unsupported storage engine: %s", engine)
	}
}

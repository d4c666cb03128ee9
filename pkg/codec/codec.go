// Package codec provides the encodings used to serialize store snapshots
// before they are written to a persisted slot.
// It offers JSON (the default, compatible with the browser client snapshots)
// and Gob encodings.
//
// Package codec 提供在写入持久化槽之前序列化存储快照所使用的编码。
// 它提供JSON（默认，与浏览器客户端快照兼容）和Gob编码。
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec defines the interface for encoding and decoding snapshots.
//
// Codec 定义了编码和解码快照的接口。
type Codec interface {
	// Marshal serializes a value into bytes.
	//
	// Marshal 将值序列化为字节。
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	// The value parameter should be a pointer to the target type.
	//
	// Unmarshal 将字节反序列化为值。
	// value参数应该是目标类型的指针。
	Unmarshal(data []byte, value interface{}) error

	// Name returns the name of this codec.
	//
	// Name 返回此编解码器的名称。
	Name() string
}

// JSONCodec implements Codec using JSON serialization.
// The snapshot layout matches what the web client keeps in local storage,
// so a slot can be moved between the two.
//
// JSONCodec 使用JSON序列化实现Codec。
// 快照布局与Web客户端保存在本地存储中的格式一致。
type JSONCodec struct {
	// Pretty determines whether to use indented JSON encoding.
	// Pretty 决定是否使用缩进的JSON编码。
	Pretty bool
}

// Marshal serializes a value into JSON bytes. Like the browser's
// JSON.stringify, it leaves <, > and & unescaped, so product names and
// addresses round-trip byte for byte.
//
// Marshal 将值序列化为JSON字节。与浏览器的JSON.stringify一样，
// 不转义<、>和&，使商品名和地址逐字节往返。
func (c *JSONCodec) Marshal(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal deserializes a JSON snapshot into value. It also accepts the
// forms a snapshot takes when copied out of browser local storage: a
// leading byte order mark, surrounding whitespace, and the whole document
// quoted as one JSON string. A snapshot is always an object, so a quoted
// document is never a legitimate value on its own.
//
// Unmarshal 将JSON快照反序列化到value中。它也接受从浏览器本地存储复制出来的形式：
// 开头的字节顺序标记、首尾空白，以及整个文档被引用为一个JSON字符串。
func (c *JSONCodec) Unmarshal(data []byte, value interface{}) error {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}
	return json.Unmarshal(data, value)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Name returns "json".
func (c *JSONCodec) Name() string {
	return "json"
}

// NewJSONCodec creates a new JSONCodec.
//
// NewJSONCodec 创建一个新的JSONCodec。
func NewJSONCodec(pretty bool) *JSONCodec {
	return &JSONCodec{Pretty: pretty}
}

// GobCodec implements Codec using Gob serialization.
// Gob snapshots are smaller but only readable by Go processes.
//
// GobCodec 使用Gob序列化实现Codec。
// Gob快照更小，但只能由Go进程读取。
type GobCodec struct{}

// Marshal serializes a value into Gob bytes.
//
// Marshal 将值序列化为Gob字节。
func (c *GobCodec) Marshal(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes Gob bytes into a value.
//
// Unmarshal 将Gob字节反序列化为值。
func (c *GobCodec) Unmarshal(data []byte, value interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(value)
}

// Name returns "gob".
func (c *GobCodec) Name() string {
	return "gob"
}

// NewGobCodec creates a new GobCodec.
//
// NewGobCodec 创建一个新的GobCodec。
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// DefaultCodec returns the default codec (compact JSON).
//
// DefaultCodec 返回默认编解码器（紧凑JSON）。
func DefaultCodec() Codec {
	return NewJSONCodec(false)
}

// GetCodec returns a codec by name.
// Supported names: "json", "json-pretty", "gob".
//
// GetCodec 通过名称返回编解码器。
// 支持的名称："json"、"json-pretty"、"gob"。
//
// Parameters:
//   - name: The codec name
//
// Returns:
//   - Codec: The requested codec
//   - error: An error if the codec name is unknown
func GetCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return NewJSONCodec(false), nil
	case "json-pretty":
		return NewJSONCodec(true), nil
	case "gob":
		return NewGobCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}

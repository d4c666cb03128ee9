// Package configs provides configuration structures and utilities for the
// VANYA storefront engine. It offers mechanisms for loading, validating and
// saving configuration from JSON and YAML files, and a Viper-backed loader
// with hot reloading.
//
// Package configs 提供VANYA店面引擎的配置结构和工具。
// 它提供从JSON和YAML文件加载、验证和保存配置的机制，
// 以及支持热重载的基于Viper的加载器。
package configs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration of the storefront engine.
//
// Config 表示店面引擎的完整配置。
type Config struct {
	// Server configures the HTTP surface
	// Server 配置HTTP接口
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`

	// Store selects where store snapshots are persisted
	// Store 选择存储快照的持久化位置
	Store StoreConfig `json:"store" yaml:"store" mapstructure:"store"`

	// Auth configures the mock authentication flow
	// Auth 配置模拟认证流程
	Auth AuthConfig `json:"auth" yaml:"auth" mapstructure:"auth"`

	// Checkout configures the mock checkout flow and shipping rules
	// Checkout 配置模拟结账流程和运费规则
	Checkout CheckoutConfig `json:"checkout" yaml:"checkout" mapstructure:"checkout"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log" mapstructure:"log"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions" mapstructure:"extensions"`

	// Extra allows for custom configuration options
	// Extra 允许自定义配置选项
	Extra map[string]interface{} `json:"extra" yaml:"extra" mapstructure:"extra"`
}

// ServerConfig contains settings for the HTTP server.
//
// ServerConfig 包含HTTP服务器的设置。
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080"
	// Addr 是监听地址，例如":8080"
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode is the gin mode ("debug", "release", "test")
	// Mode 是gin运行模式（"debug"、"release"、"test"）
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ShutdownTimeout bounds graceful shutdown
	// ShutdownTimeout 限制优雅关闭的时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StoreConfig contains settings for snapshot persistence.
// Each store writes to its own named slot so stores persist independently.
//
// StoreConfig 包含快照持久化的设置。
// 每个存储写入自己的命名槽，因此各存储独立持久化。
type StoreConfig struct {
	// Engine is the storage backend ("memory", "file", "sqlite")
	// Engine 是存储后端（"memory"、"file"、"sqlite"）
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// Path is the slot directory (file) or database file (sqlite)
	// Path 是槽目录（file）或数据库文件（sqlite）
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Codec is the snapshot encoding ("json", "json-pretty", "gob")
	// Codec 是快照编码（"json"、"json-pretty"、"gob"）
	Codec string `json:"codec" yaml:"codec" mapstructure:"codec"`

	// CartSlot is the slot name of the cart
	// CartSlot 是购物车的槽名
	CartSlot string `json:"cart_slot" yaml:"cart_slot" mapstructure:"cart_slot"`

	// WishlistSlot is the slot name of the wishlist
	// WishlistSlot 是心愿单的槽名
	WishlistSlot string `json:"wishlist_slot" yaml:"wishlist_slot" mapstructure:"wishlist_slot"`

	// AuthSlot is the slot name of the session
	// AuthSlot 是会话的槽名
	AuthSlot string `json:"auth_slot" yaml:"auth_slot" mapstructure:"auth_slot"`
}

// AuthConfig contains settings for the mock authentication flow.
//
// AuthConfig 包含模拟认证流程的设置。
type AuthConfig struct {
	// SimulatedDelay is how long login and signup pretend to wait on a server
	// SimulatedDelay 是登录和注册模拟等待服务器的时长
	SimulatedDelay time.Duration `json:"simulated_delay" yaml:"simulated_delay" mapstructure:"simulated_delay"`
}

// CheckoutConfig contains settings for the mock checkout flow.
//
// CheckoutConfig 包含模拟结账流程的设置。
type CheckoutConfig struct {
	// ProcessingDelay is how long payment processing pretends to take
	// ProcessingDelay 是支付处理模拟花费的时长
	ProcessingDelay time.Duration `json:"processing_delay" yaml:"processing_delay" mapstructure:"processing_delay"`

	// FreeShippingAbove is the subtotal that must be exceeded for free delivery
	// FreeShippingAbove 是免运费必须超过的小计金额
	FreeShippingAbove int `json:"free_shipping_above" yaml:"free_shipping_above" mapstructure:"free_shipping_above"`

	// ShippingFee is the flat delivery charge below the threshold
	// ShippingFee 是低于阈值时的固定运费
	ShippingFee int `json:"shipping_fee" yaml:"shipping_fee" mapstructure:"shipping_fee"`

	// OrderPrefix is prepended to generated order numbers
	// OrderPrefix 是生成订单号的前缀
	OrderPrefix string `json:"order_prefix" yaml:"order_prefix" mapstructure:"order_prefix"`
}

// LogConfig contains settings for logging.
//
// LogConfig 包含日志记录的设置。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format specifies the log format ("text", "json")
	// Format 指定日志格式（"text"、"json"）
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output determines where logs are written ("stdout", "stderr", "file")
	// Output 确定日志写入的位置（"stdout"、"stderr"、"file"）
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// FilePath is the path to the log file when Output is "file"
	// FilePath 是当Output为"file"时的日志文件路径
	FilePath string `json:"file_path" yaml:"file_path" mapstructure:"file_path"`
}

// ExtensionsConfig contains settings for extensions.
//
// ExtensionsConfig 包含扩展的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload" mapstructure:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
//
// HotReloadConfig 包含热重载的设置。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// WatchInterval is how often to poll for changes; zero uses fsnotify
	// WatchInterval 是轮询更改的频率；为零时使用fsnotify
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval" mapstructure:"watch_interval"`
}

// DefaultConfig returns a new Config with default values.
// The defaults reproduce the storefront's behavior: one-second login delay,
// two-second payment processing, free shipping above ₹50,000.
//
// DefaultConfig 返回具有默认值的新Config。
//
// Returns:
//   - *Config: A new configuration instance with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Engine:       "file",
			Path:         "./data",
			Codec:        "json",
			CartSlot:     "vanya-cart",
			WishlistSlot: "vanya-wishlist",
			AuthSlot:     "vanya-auth",
		},
		Auth: AuthConfig{
			SimulatedDelay: time.Second,
		},
		Checkout: CheckoutConfig{
			ProcessingDelay:   2 * time.Second,
			FreeShippingAbove: 50000,
			ShippingFee:       500,
			OrderPrefix:       "VAN",
		},
		Log: LogConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "./vanya.log",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable:        false,
				WatchInterval: 0,
			},
		},
		Extra: make(map[string]interface{}),
	}
}

// LoadFromFile loads configuration from a file.
// It supports both YAML and JSON formats, detected from the file extension.
//
// LoadFromFile 从文件加载配置。
// 它支持YAML和JSON格式，根据文件扩展名自动检测格式。
//
// Parameters:
//   - filename: Path to the configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return LoadFromReader(file, ext)
}

// LoadFromReader loads and validates configuration from an io.Reader.
// Omitted keys keep their defaults.
//
// LoadFromReader 从io.Reader加载并验证配置。省略的键保留默认值。
//
// Parameters:
//   - r: The reader providing the configuration data
//   - format: The format of the data ("json", "yaml", or "yml")
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a file in YAML or JSON, chosen by extension.
//
// SaveToFile 将配置保存到文件，根据扩展名选择YAML或JSON格式。
func (c *Config) SaveToFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	if ext == ".json" {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	} else {
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return nil
}

// Validate checks that every setting has a usable value.
//
// Validate 检查每个设置是否具有可用的值。
//
// Returns:
//   - error: An error describing the validation failure, or nil if valid
func (c *Config) Validate() error {
	// Validate server settings
	// 验证服务器设置
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be non-negative")
	}

	// Validate store settings
	// 验证存储设置
	switch c.Store.Engine {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path must be specified for engine %q", c.Store.Engine)
		}
	default:
		return fmt.Errorf("store.engine must be one of: memory, file, sqlite")
	}
	switch c.Store.Codec {
	case "json", "json-pretty", "gob":
	default:
		return fmt.Errorf("store.codec must be one of: json, json-pretty, gob")
	}
	slots := map[string]string{}
	for key, name := range map[string]string{
		"store.cart_slot":     c.Store.CartSlot,
		"store.wishlist_slot": c.Store.WishlistSlot,
		"store.auth_slot":     c.Store.AuthSlot,
	} {
		if name == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if other, dup := slots[name]; dup {
			return fmt.Errorf("%s and %s must name different slots", key, other)
		}
		slots[name] = key
	}

	// Validate auth and checkout settings
	// 验证认证和结账设置
	if c.Auth.SimulatedDelay < 0 {
		return fmt.Errorf("auth.simulated_delay must be non-negative")
	}
	if c.Checkout.ProcessingDelay < 0 {
		return fmt.Errorf("checkout.processing_delay must be non-negative")
	}
	if c.Checkout.FreeShippingAbove < 0 {
		return fmt.Errorf("checkout.free_shipping_above must be non-negative")
	}
	if c.Checkout.ShippingFee < 0 {
		return fmt.Errorf("checkout.shipping_fee must be non-negative")
	}

	// Validate log settings
	// 验证日志设置
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}
	switch c.Log.Output {
	case "stdout", "stderr", "file":
	default:
		return fmt.Errorf("log.output must be one of: stdout, stderr, file")
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		return fmt.Errorf("log.file_path must be specified when log.output is 'file'")
	}

	// Validate extensions settings
	// 验证扩展设置
	if c.Extensions.HotReload.WatchInterval < 0 {
		return fmt.Errorf("extensions.hot_reload.watch_interval must be non-negative")
	}
	if w := c.Extensions.HotReload.WatchInterval; w > 0 && w < time.Second {
		return fmt.Errorf("extensions.hot_reload.watch_interval must be at least 1 second")
	}

	return nil
}

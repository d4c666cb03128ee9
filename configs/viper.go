// Package configs provides configuration structures and utilities for the storefront.
// This file implements Viper-based configuration management with hot reloading support.
//
// Package configs 提供店面的配置结构和工具。
// 本文件实现基于Viper的配置管理，支持热重载。
package configs

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ViperConfig wraps a Config with Viper functionality for hot reloading.
// It provides thread-safe access to configuration and supports dynamic
// updates when the underlying configuration file changes.
//
// ViperConfig 使用Viper功能包装Config以支持热重载。
// 它提供对配置的线程安全访问，并支持在底层配置文件更改时进行动态更新。
type ViperConfig struct {
	config      *Config         // Current configuration / 当前配置
	viper       *viper.Viper    // Viper instance for configuration management / 用于配置管理的Viper实例
	configFile  string          // Path to the configuration file / 配置文件路径
	logger      *zap.Logger     // Logger for reload events / 重载事件的日志记录器
	mu          sync.RWMutex    // Mutex for thread-safe access / 用于线程安全访问的互斥锁
	subscribers []func(*Config) // List of subscribers to notify on config changes / 配置更改时要通知的订阅者列表
	stop        chan struct{}   // Closed to stop the polling watcher / 关闭以停止轮询监视器
	stopOnce    sync.Once
}

// NewViperConfig creates a new ViperConfig.
// It loads configuration from the specified file and validates it.
// Settings can be overridden by VANYA_-prefixed environment variables,
// e.g. VANYA_SERVER_ADDR.
//
// NewViperConfig 创建一个新的ViperConfig。
// 它从指定的文件加载配置并验证它。
// 设置可以被VANYA_前缀的环境变量覆盖，例如VANYA_SERVER_ADDR。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - logger: Logger for reload events; nil disables logging
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading or validation fails
func NewViperConfig(configFile string, logger *zap.Logger) (*ViperConfig, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()

	// Set up viper
	// 设置viper
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
	v.SetEnvPrefix("VANYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file
	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &ViperConfig{
		config:      config,
		viper:       v,
		configFile:  configFile,
		logger:      logger,
		subscribers: make([]func(*Config), 0),
		stop:        make(chan struct{}),
	}, nil
}

// decode unmarshals the viper state over the defaults and validates it.
func decode(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// EnableHotReload enables fsnotify-based hot reloading of the configuration file.
// When the configuration file changes, the configuration is automatically
// reloaded and all subscribers are notified. Invalid edits are logged and ignored.
//
// EnableHotReload 启用基于fsnotify的配置文件热重载。
// 当配置文件更改时，配置会自动重新加载，并通知所有订阅者。无效的修改会被记录并忽略。
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		vc.logger.Info("Config file changed", zap.String("file", e.Name))
		vc.reload()
	})
	vc.viper.WatchConfig()
}

// EnablePolling re-reads the configuration file every interval until Close
// is called. This is an alternative to fsnotify for file systems where
// notifications are unreliable.
//
// EnablePolling 每隔interval重新读取配置文件，直到调用Close。
// 这是在文件系统通知不可靠时fsnotify的替代方案。
func (vc *ViperConfig) EnablePolling(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-vc.stop:
				return
			case <-ticker.C:
				if err := vc.viper.ReadInConfig(); err != nil {
					vc.logger.Warn("Failed to read config file", zap.Error(err))
					continue
				}
				vc.reload()
			}
		}
	}()
}

// reload decodes the current viper state and, if it differs from the
// active configuration, swaps it in and notifies subscribers.
func (vc *ViperConfig) reload() {
	newConfig, err := decode(vc.viper)
	if err != nil {
		vc.logger.Warn("Ignoring configuration change", zap.Error(err))
		return
	}

	vc.mu.Lock()
	if reflect.DeepEqual(vc.config, newConfig) {
		vc.mu.Unlock()
		return
	}
	vc.config = newConfig
	subscribers := make([]func(*Config), len(vc.subscribers))
	copy(subscribers, vc.subscribers)
	vc.mu.Unlock()

	vc.logger.Info("Configuration reloaded", zap.String("file", vc.configFile))

	// Notify subscribers
	// 通知订阅者
	for _, subscriber := range subscribers {
		subscriber(newConfig)
	}
}

// Subscribe adds a subscriber that will be notified when the configuration changes.
// The subscriber function is called with the new configuration as its argument.
//
// Subscribe 添加一个在配置更改时将被通知的订阅者。
// 订阅者函数将以新配置作为其参数被调用。
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration.
// This method is thread-safe and can be called concurrently.
//
// Get 返回当前配置。
// 此方法是线程安全的，可以并发调用。
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.config
}

// Close stops the polling watcher, if any.
//
// Close 停止轮询监视器（如果有）。
func (vc *ViperConfig) Close() {
	vc.stopOnce.Do(func() { close(vc.stop) })
}

// SetLogger replaces the logger used for reload events.
//
// SetLogger 替换用于重载事件的日志记录器。
func (vc *ViperConfig) SetLogger(logger *zap.Logger) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	vc.logger = logger
}

// Watch starts whichever reload mechanism the extensions.hot_reload section
// asks for: none, fsnotify (watch_interval 0) or polling.
//
// Watch 根据extensions.hot_reload部分启动相应的重载机制：
// 不重载、fsnotify（watch_interval为0）或轮询。
func (vc *ViperConfig) Watch() {
	hr := vc.Get().Extensions.HotReload
	switch {
	case !hr.Enable:
	case hr.WatchInterval > 0:
		vc.EnablePolling(hr.WatchInterval)
	default:
		vc.EnableHotReload()
	}
}

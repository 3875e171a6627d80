// Package config 提供 gossip 组件的配置管理
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ============================================================================
//                              默认值
// ============================================================================

const (
	// MaxRecordSizeLimit 单条记录大小上限的硬上限（字节）
	MaxRecordSizeLimit = 512

	// DefaultMaxGossipNodes 单个线路容器默认接受的最大节点数
	DefaultMaxGossipNodes = 1024
)

// 环境变量
const (
	EnvAllowPrivateAddresses = "GOSSIP_ALLOW_PRIVATE_ADDRESSES"
	EnvMaxGossipNodes        = "GOSSIP_MAX_NODES"
	EnvRecordSizeLimit       = "GOSSIP_RECORD_SIZE_LIMIT"
	EnvEnableMetrics         = "GOSSIP_ENABLE_METRICS"
)

// ============================================================================
//                              GossipConfig
// ============================================================================

// GossipConfig gossip 交换配置
type GossipConfig struct {
	// AllowPrivateAddresses 是否接受非全局地址
	//
	// true 时只要求地址结构有效（局域网测试、私有部署），
	// false 时只接受全局可路由地址。
	// 默认: false
	AllowPrivateAddresses bool `json:"allow_private_addresses" yaml:"allow_private_addresses"`

	// MaxGossipNodes 单个线路容器接受的最大节点数
	MaxGossipNodes int `json:"max_gossip_nodes" yaml:"max_gossip_nodes"`

	// RecordSizeLimit 单条记录的大小上限，不能超过 MaxRecordSizeLimit
	RecordSizeLimit int `json:"record_size_limit" yaml:"record_size_limit"`

	// EnableMetrics 是否注册 Prometheus 指标
	EnableMetrics bool `json:"enable_metrics" yaml:"enable_metrics"`
}

// DefaultGossipConfig 返回默认配置
func DefaultGossipConfig() *GossipConfig {
	return &GossipConfig{
		AllowPrivateAddresses: false,
		MaxGossipNodes:        DefaultMaxGossipNodes,
		RecordSizeLimit:       MaxRecordSizeLimit,
		EnableMetrics:         true,
	}
}

// Validate 验证配置，返回所有问题的合并错误
func (c *GossipConfig) Validate() error {
	if c == nil {
		return errors.New("gossip config is nil")
	}

	var err error
	if c.MaxGossipNodes <= 0 {
		err = multierr.Append(err, fmt.Errorf("max_gossip_nodes must be positive, got %d", c.MaxGossipNodes))
	}
	if c.RecordSizeLimit <= 0 || c.RecordSizeLimit > MaxRecordSizeLimit {
		err = multierr.Append(err, fmt.Errorf("record_size_limit must be in (0, %d], got %d",
			MaxRecordSizeLimit, c.RecordSizeLimit))
	}
	return err
}

// WithAllowPrivateAddresses 设置是否接受非全局地址
func (c *GossipConfig) WithAllowPrivateAddresses(allow bool) *GossipConfig {
	c.AllowPrivateAddresses = allow
	return c
}

// ============================================================================
//                              加载
// ============================================================================

// LoadFile 从文件加载配置
//
// .yaml / .yml 文件按 YAML 解析，其余按 JSON 解析。
// 文件中未出现的字段保留默认值。加载后会执行 Validate。
func LoadFile(path string) (*GossipConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultGossipConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv 使用 GOSSIP_ 前缀的环境变量覆盖配置
//
// 未设置的变量不改变对应字段；无法解析的值全部汇总返回。
func (c *GossipConfig) ApplyEnv() error {
	return c.applyEnv(os.Getenv)
}

func (c *GossipConfig) applyEnv(getenv func(string) string) error {
	var err error

	if v := getenv(EnvAllowPrivateAddresses); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvAllowPrivateAddresses, perr))
		} else {
			c.AllowPrivateAddresses = b
		}
	}

	if v := getenv(EnvMaxGossipNodes); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvMaxGossipNodes, perr))
		} else {
			c.MaxGossipNodes = n
		}
	}

	if v := getenv(EnvRecordSizeLimit); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvRecordSizeLimit, perr))
		} else {
			c.RecordSizeLimit = n
		}
	}

	if v := getenv(EnvEnableMetrics); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvEnableMetrics, perr))
		} else {
			c.EnableMetrics = b
		}
	}

	return err
}

package gossip

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-gossip/config"
	gossipif "github.com/dep2p/go-gossip/pkg/interfaces/gossip"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置来源，configFile 优先
	config     *config.GossipConfig
	configFile string

	// 覆盖项
	allowPrivate *bool
	maxNodes     int

	// 是否应用 GOSSIP_ 环境变量
	useEnv bool

	registerer prometheus.Registerer
	topology   gossipif.Topology

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{useEnv: true}
}

// WithConfig 使用给定配置
func WithConfig(cfg *config.GossipConfig) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON/YAML 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("config file path is empty")
		}
		o.configFile = path
		return nil
	}
}

// WithAllowPrivateAddresses 覆盖是否接受非全局地址
func WithAllowPrivateAddresses(allow bool) Option {
	return func(o *options) error {
		o.allowPrivate = &allow
		return nil
	}
}

// WithMaxGossipNodes 覆盖单个线路容器接受的最大节点数
func WithMaxGossipNodes(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.New("max gossip nodes must be positive")
		}
		o.maxNodes = n
		return nil
	}
}

// WithoutEnv 不读取 GOSSIP_ 环境变量
func WithoutEnv() Option {
	return func(o *options) error {
		o.useEnv = false
		return nil
	}
}

// WithRegisterer 指定 Prometheus 注册器
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithTopology 指定拓扑组件
//
// Publish 和 Receive 需要拓扑组件。
func WithTopology(t gossipif.Topology) Option {
	return func(o *options) error {
		o.topology = t
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}

// resolveConfig 按 文件 > 显式配置 > 默认值 的顺序确定配置，
// 再依次应用环境变量和选项覆盖，最后校验。
func (o *options) resolveConfig() (*config.GossipConfig, error) {
	var cfg *config.GossipConfig
	switch {
	case o.configFile != "":
		loaded, err := config.LoadFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case o.config != nil:
		c := *o.config
		cfg = &c
	default:
		cfg = config.DefaultGossipConfig()
	}

	if o.useEnv {
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	}
	if o.allowPrivate != nil {
		cfg.AllowPrivateAddresses = *o.allowPrivate
	}
	if o.maxNodes > 0 {
		cfg.MaxGossipNodes = o.maxNodes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package gossip

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-gossip/config"
)

// ============================================================================
//                              模块元数据
// ============================================================================

// ModuleName 模块名称
const ModuleName = "gossip"

// ============================================================================
//                              模块输入依赖
// ============================================================================

// Params 模块输入依赖
type Params struct {
	fx.In

	// Config gossip 配置，缺省时使用默认配置
	Config *config.GossipConfig `optional:"true"`

	// Registerer 指标注册器，缺省时指标不注册
	Registerer prometheus.Registerer `optional:"true"`
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// Result 模块输出服务
type Result struct {
	fx.Out

	Codec   *Codec
	Metrics *Metrics
	Filter  *Filter
}

// ProvideServices 提供模块服务
func ProvideServices(p Params) (Result, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.DefaultGossipConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("gossip config: %w", err)
	}

	codec := NewCodec(WithLimit(cfg.RecordSizeLimit))

	var metrics *Metrics
	if cfg.EnableMetrics {
		m, err := NewMetrics(p.Registerer)
		if err != nil {
			return Result{}, err
		}
		metrics = m
	}

	filter, err := NewFilter(codec, cfg, metrics)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Codec:   codec,
		Metrics: metrics,
		Filter:  filter,
	}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(ProvideServices),
	)
}

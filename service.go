package gossip

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-gossip/config"
	gossipcore "github.com/dep2p/go-gossip/internal/core/gossip"
	"github.com/dep2p/go-gossip/internal/util/addrutil"
	"github.com/dep2p/go-gossip/internal/util/logger"
	gossipif "github.com/dep2p/go-gossip/pkg/interfaces/gossip"
	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

var log = logger.Logger("gossip.service")

// ════════════════════════════════════════════════════════════════════════════
//                              Service
// ════════════════════════════════════════════════════════════════════════════

// Service gossip 交换服务
//
// 组合编解码器、交换过滤器和指标，并把结果交给拓扑组件。
type Service struct {
	mu      sync.Mutex
	started bool

	app      *fx.App
	cfg      *config.GossipConfig
	topology gossipif.Topology

	// 由 Fx 注入
	codec   *gossipcore.Codec
	filter  *gossipcore.Filter
	metrics *gossipcore.Metrics
}

// Classification 地址分类结果
type Classification struct {
	// Valid 地址结构有效
	Valid bool

	// Global 地址全局可路由
	Global bool

	// Type 地址类型描述（public、private、loopback 等）
	Type string
}

// New 创建服务但不启动
func New(opts ...Option) (*Service, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, fmt.Errorf("gossip config: %w", err)
	}

	svc := &Service{cfg: cfg, topology: o.topology}
	svc.app = buildFxApp(svc, cfg, o)
	if err := svc.app.Err(); err != nil {
		return nil, fmt.Errorf("build gossip service: %w", err)
	}
	return svc, nil
}

// Start 创建并启动服务
func Start(ctx context.Context, opts ...Option) (*Service, error) {
	svc, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if err := s.app.Start(ctx); err != nil {
		return fmt.Errorf("start gossip service: %w", err)
	}
	s.started = true

	log.Info("gossip 服务已启动",
		"allowPrivate", s.cfg.AllowPrivateAddresses,
		"maxNodes", s.cfg.MaxGossipNodes,
		"recordLimit", s.codec.Limit())
	return nil
}

// Stop 停止服务，未启动时直接返回
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	if err := s.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop gossip service: %w", err)
	}
	log.Info("gossip 服务已停止")
	return nil
}

func (s *Service) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Config 返回生效的配置
func (s *Service) Config() *config.GossipConfig {
	return s.cfg
}

// ════════════════════════════════════════════════════════════════════════════
//                              地址分类
// ════════════════════════════════════════════════════════════════════════════

// Classify 对地址做分类
//
// 纯函数，不需要服务已启动。
func (s *Service) Classify(addr multiaddr.Multiaddr) Classification {
	return Classification{
		Valid:  gossipcore.HasValidAddress(addr),
		Global: gossipcore.IsGlobal(addr),
		Type:   string(addrutil.TypeOf(addr)),
	}
}

// Accepts 判断节点画像是否满足当前地址策略
func (s *Service) Accepts(p types.NodeProfile) bool {
	return s.filter.Accepts(gossipcore.FromProfile(p))
}

// ════════════════════════════════════════════════════════════════════════════
//                              单条记录
// ════════════════════════════════════════════════════════════════════════════

// EncodeProfile 编码单个节点画像
func (s *Service) EncodeProfile(p types.NodeProfile) ([]byte, error) {
	return s.codec.Encode(gossipcore.FromProfile(p))
}

// DecodeProfile 解码单条记录
func (s *Service) DecodeProfile(b []byte) (types.NodeProfile, error) {
	g, err := s.codec.Decode(b)
	if err != nil {
		return types.NodeProfile{}, err
	}
	return g.Profile(), nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              批次交换
// ════════════════════════════════════════════════════════════════════════════

// Publish 从拓扑组件取节点画像，编码为序列化的线路容器
func (s *Service) Publish() ([]byte, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	if s.topology == nil {
		return nil, ErrNoTopology
	}

	w, err := s.filter.Outbound(s.topology)
	if err != nil {
		return nil, err
	}
	return w.Marshal(), nil
}

// Receive 处理收到的序列化线路容器，把通过筛选的节点交给拓扑组件
//
// 返回交付的节点数。任一记录无效时整个批次被丢弃。
func (s *Service) Receive(b []byte) (int, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}
	if s.topology == nil {
		return 0, ErrNoTopology
	}

	gs, err := s.filter.InboundBytes(b)
	if err != nil {
		return 0, err
	}
	if gs.Len() > 0 {
		s.topology.Accept(gs.Profiles())
	}
	return gs.Len(), nil
}

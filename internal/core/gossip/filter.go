package gossip

import (
	"fmt"

	"github.com/dep2p/go-gossip/config"
	"github.com/dep2p/go-gossip/internal/core/gossip/wire"
	"github.com/dep2p/go-gossip/internal/util/addrutil"
	"github.com/dep2p/go-gossip/internal/util/logger"
	gossipif "github.com/dep2p/go-gossip/pkg/interfaces/gossip"
)

var log = logger.Logger("gossip")

// ============================================================================
//                              Filter - 交换过滤器
// ============================================================================

// Filter gossip 交换过滤器
//
// 入站：解码整个线路容器（全有或全无），再按地址策略筛选记录。
// 出站：从拓扑组件取节点画像并编码为线路容器。
//
// 地址策略：
//   - AllowPrivateAddresses=true: 只要求 HasValidAddress
//   - AllowPrivateAddresses=false: 要求 IsGlobal
type Filter struct {
	codec        *Codec
	metrics      *Metrics
	allowPrivate bool
	maxNodes     int
}

// NewFilter 创建过滤器
//
// cfg 为 nil 时使用默认配置，非 nil 时先执行 Validate；metrics 可以为 nil。
func NewFilter(codec *Codec, cfg *config.GossipConfig, metrics *Metrics) (*Filter, error) {
	if cfg == nil {
		cfg = config.DefaultGossipConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gossip filter config: %w", err)
	}
	if codec == nil {
		codec = NewCodec(WithLimit(cfg.RecordSizeLimit))
	}
	return &Filter{
		codec:        codec,
		metrics:      metrics,
		allowPrivate: cfg.AllowPrivateAddresses,
		maxNodes:     cfg.MaxGossipNodes,
	}, nil
}

// Codec 返回过滤器使用的编解码器
func (f *Filter) Codec() *Codec {
	return f.codec
}

// Accepts 判断单条记录是否满足地址策略
func (f *Filter) Accepts(g Gossip) bool {
	if f.allowPrivate {
		return g.HasValidAddress()
	}
	return g.IsGlobal()
}

// Select 按地址策略筛选，保持原有顺序
func (f *Filter) Select(gs Gossips) Gossips {
	kept := make([]Gossip, 0, gs.Len())
	for _, g := range gs.records {
		ok := f.Accepts(g)
		f.metrics.ObserveVerdict(ok)
		if !ok {
			log.Debug("丢弃 gossip 记录",
				"node", g.ID().ShortString(),
				"addrType", addrutil.TypeOf(g.Address()),
				"allowPrivate", f.allowPrivate)
			continue
		}
		kept = append(kept, g)
	}
	return Gossips{records: kept}
}

// Inbound 处理收到的线路容器
//
// 节点数超过上限或任一记录解码失败时丢弃整个批次。
func (f *Filter) Inbound(w *wire.Gossip) (Gossips, error) {
	if f.maxNodes > 0 && w.Len() > f.maxNodes {
		err := fmt.Errorf("%w: %d nodes, limit %d", wire.ErrTooManyNodes, w.Len(), f.maxNodes)
		f.dropBatch(w.Len(), err)
		return Gossips{}, err
	}

	gs, err := GossipsFromWire(f.codec, w)
	if err != nil {
		f.dropBatch(w.Len(), err)
		return Gossips{}, err
	}
	return f.Select(gs), nil
}

// InboundBytes 解析序列化的线路容器并处理
func (f *Filter) InboundBytes(b []byte) (Gossips, error) {
	w, err := wire.Unmarshal(b, f.maxNodes)
	if err != nil {
		f.dropBatch(-1, err)
		return Gossips{}, err
	}
	return f.Inbound(w)
}

// Deliver 处理收到的线路容器并把通过筛选的节点交给拓扑组件
//
// 返回交付的节点数。
func (f *Filter) Deliver(topology gossipif.Topology, w *wire.Gossip) (int, error) {
	gs, err := f.Inbound(w)
	if err != nil {
		return 0, err
	}
	if gs.Len() > 0 {
		topology.Accept(gs.Profiles())
	}
	return gs.Len(), nil
}

// Outbound 从拓扑组件取节点画像并编码为线路容器
//
// 任一记录编码失败时不返回任何容器。
func (f *Filter) Outbound(topology gossipif.Topology) (*wire.Gossip, error) {
	gs := GossipsFromProfiles(topology.Gossips())
	w, err := gs.ToWire(f.codec)
	if err != nil {
		log.Warn("gossip 批次编码失败", "records", gs.Len(), "err", err)
		return nil, err
	}
	f.metrics.ObserveEncoded(w.Len())
	return w, nil
}

func (f *Filter) dropBatch(nodes int, err error) {
	f.metrics.ObserveDecodeError(err)
	log.Warn("丢弃 gossip 批次",
		"nodes", nodes,
		"reason", DecodeErrorReason(err),
		"err", err)
}

package gossip

import (
	"fmt"

	"github.com/dep2p/go-gossip/internal/core/gossip/wire"
	"github.com/dep2p/go-gossip/pkg/types"
)

// ============================================================================
//                              Gossips - 批次
// ============================================================================

// Gossips 有序的 gossip 记录批次
//
// 插入顺序即线路顺序，不要求唯一。
type Gossips struct {
	records []Gossip
}

// NewGossips 从记录创建批次
func NewGossips(records ...Gossip) Gossips {
	return Gossips{records: records}
}

// GossipsFromProfiles 从拓扑组件给出的节点画像创建批次
func GossipsFromProfiles(profiles []types.NodeProfile) Gossips {
	records := make([]Gossip, len(profiles))
	for i, p := range profiles {
		records[i] = FromProfile(p)
	}
	return Gossips{records: records}
}

// Profiles 解包为节点画像，顺序不变
func (gs Gossips) Profiles() []types.NodeProfile {
	profiles := make([]types.NodeProfile, len(gs.records))
	for i, g := range gs.records {
		profiles[i] = g.profile
	}
	return profiles
}

// Len 返回记录数
func (gs Gossips) Len() int {
	return len(gs.records)
}

// Records 返回记录切片
func (gs Gossips) Records() []Gossip {
	return gs.records
}

// ToWire 按顺序编码每条记录，生成线路容器
//
// 任一记录编码失败即中止，返回 nil 和带记录下标的错误，
// 不会返回部分填充的容器。
func (gs Gossips) ToWire(c *Codec) (*wire.Gossip, error) {
	nodes := make([][]byte, 0, len(gs.records))
	for i, g := range gs.records {
		b, err := c.Encode(g)
		if err != nil {
			return nil, fmt.Errorf("%w: index %d: %w", ErrBatchRecord, i, err)
		}
		nodes = append(nodes, b)
	}
	return &wire.Gossip{Nodes: nodes}, nil
}

// GossipsFromWire 解码线路容器中的每条记录
//
// 全有或全无：任一记录解码失败即丢弃整个批次。
func GossipsFromWire(c *Codec, w *wire.Gossip) (Gossips, error) {
	if w == nil {
		return Gossips{}, nil
	}
	records := make([]Gossip, 0, len(w.Nodes))
	for i, b := range w.Nodes {
		g, err := c.Decode(b)
		if err != nil {
			return Gossips{}, fmt.Errorf("%w: index %d: %w", ErrBatchRecord, i, err)
		}
		records = append(records, g)
	}
	return Gossips{records: records}, nil
}

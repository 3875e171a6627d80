package gossip

import (
	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

// ============================================================================
//                              Gossip - 单条节点通告
// ============================================================================

// Gossip 单条节点通告
//
// 包装拓扑组件的节点画像。构造时不做校验，地址分类总是通过
// HasValidAddress / IsGlobal 显式触发。若存在地址，它就是入站
// 连接接受检查所使用的地址。
type Gossip struct {
	profile types.NodeProfile
}

// FromProfile 包装节点画像
func FromProfile(p types.NodeProfile) Gossip {
	return Gossip{profile: p}
}

// Profile 解包节点画像
func (g Gossip) Profile() types.NodeProfile {
	return g.profile
}

// ID 返回节点标识
func (g Gossip) ID() types.NodeID {
	return g.profile.ID
}

// Address 返回节点公布的地址，未公布时返回 nil
func (g Gossip) Address() multiaddr.Multiaddr {
	return g.profile.Address()
}

// HasValidAddress 地址在结构上是否可用
func (g Gossip) HasValidAddress() bool {
	return HasValidAddress(g.Address())
}

// IsGlobal 地址是否全局可路由
func (g Gossip) IsGlobal() bool {
	return IsGlobal(g.Address())
}

// Equal 结构相等比较
func (g Gossip) Equal(other Gossip) bool {
	return g.profile.Equal(other.profile)
}

// String 返回日志友好的描述
func (g Gossip) String() string {
	return g.profile.String()
}

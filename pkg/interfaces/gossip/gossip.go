// Package gossip 定义 gossip 核心与外部协作者之间的接口
//
// gossip 核心负责地址分类和有界编解码；节点排序/拓扑维护、传输、
// 持久化都属于外部协作者，只通过本包的窄接口交互。
package gossip

import (
	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

// ============================================================================
//                              Profile - 节点画像视图
// ============================================================================

// Profile 节点画像的窄视图
//
// 地址分类只需要地址，不依赖拓扑组件的排序字段。
// types.NodeProfile 实现了该接口。
type Profile interface {
	// Address 返回节点公布的地址，未公布时返回 nil
	Address() multiaddr.Multiaddr
}

// 编译期检查
var _ Profile = types.NodeProfile{}

// ============================================================================
//                              Topology - 拓扑组件
// ============================================================================

// Topology 外部拓扑组件（节点排序与选择）
//
// 出站时由拓扑组件挑选要传播的节点画像；入站时接收经过
// 解码和地址过滤后的节点画像。替换策略（同一节点的新旧记录）
// 由拓扑组件自行决定。
type Topology interface {
	// Gossips 返回本轮要发送给对端的节点画像，顺序即线路顺序
	Gossips() []types.NodeProfile

	// Accept 接收对端传来且已通过过滤的节点画像
	Accept(profiles []types.NodeProfile)
}

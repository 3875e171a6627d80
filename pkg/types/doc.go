// Package types 定义 gossip 核心的公共数据结构
//
// 这是最底层的值类型包，只依赖 pkg/lib/multiaddr。
// 所有类型都是纯值类型，用于在拓扑组件与 gossip 编解码之间传递数据。
//
// # 文件组织
//
//   - ids.go      - NodeID 节点标识（Base58 外部表示）
//   - profile.go  - NodeProfile、Subscription、Topic、InterestLevel
//   - errors.go   - 公共错误定义
//
// # NodeProfile
//
// NodeProfile 是拓扑组件（节点排序/选择算法）产生的节点画像。gossip 核心
// 只通过 Address() 使用它，排序相关字段对核心不透明：
//
//	profile := types.NodeProfile{
//	    ID:      id,
//	    Addr:    multiaddr.StringCast("/ip4/93.184.216.34/tcp/3000"),
//	}
package types

// Package interfaces 定义 gossip 与外部组件之间的接口
//
//   - gossip/: 节点画像视图（Profile）与拓扑组件（Topology）
//
// 接口包只依赖 pkg/types 与 pkg/lib，不依赖任何 internal 实现。
package interfaces

// Package gossip 实现 gossip 记录的地址分类与有界编解码
//
// # 组件
//
//   - classifier.go: HasValidAddress / IsGlobal，纯函数地址分类
//   - record.go:     Gossip，单条节点通告，包装 types.NodeProfile
//   - batch.go:      Gossips，有序记录集合，与线路容器互转
//   - codec.go:      Codec，受 MaxGossipSize 约束的确定性二进制编解码
//   - filter.go:     Filter，入站/出站 gossip 交换时的地址过滤
//   - metrics.go:    Metrics，Prometheus 计数器
//   - module.go:     Fx 模块
//   - wire/:         线路容器，承载已编码记录
//
// # 数据流
//
// 入站：wire.Gossip → Codec.Decode（逐条、全有或全无）→ 地址分类 → 拓扑组件
//
// 出站：拓扑组件 → Gossips → Codec.Encode（逐条、全有或全无）→ wire.Gossip
//
// # 并发
//
// 分类函数与 Codec 都没有可变共享状态，可以在多个 goroutine 中并发调用。
//
// # 错误
//
// 地址分类从不返回错误，数据缺失或畸形时总是得到保守结果（无效/非全局）。
// 编码失败返回 ErrTooLarge；解码失败返回 ErrLimitExceeded、ErrMalformed
// 或 ErrTrailingBytes，调用方应丢弃整个批次。
package gossip

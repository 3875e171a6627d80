// Package gossip 提供 gossip 节点记录交换服务
//
// gossip 负责 P2P 覆盖网络中节点通告的两件事：
//
//   - 地址分类：节点公布的地址是否结构有效、是否全局可路由
//   - 有界编解码：单条记录在线路上的确定性二进制表示，受 512 字节上限约束
//
// 节点排名与拓扑选择、传输与连接管理都是外部组件，通过
// pkg/interfaces/gossip 中的 Topology 接口接入。
//
// # 快速开始
//
//	svc, err := gossip.Start(ctx,
//	    gossip.WithTopology(topology),
//	    gossip.WithConfigFile("gossip.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Stop(ctx)
//
//	// 出站：从拓扑取节点画像并编码
//	payload, err := svc.Publish()
//
//	// 入站：解码、过滤并交给拓扑
//	n, err := svc.Receive(payload)
//
// # 配置
//
// 配置见 config.GossipConfig，可以从 JSON/YAML 文件加载，
// 也可以用 GOSSIP_ 前缀的环境变量覆盖。
//
// # 日志
//
// 日志级别由 GOSSIP_LOG_LEVEL 控制，例如 GOSSIP_LOG_LEVEL=gossip=debug,info。
package gossip

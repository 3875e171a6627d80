// Package multiaddr 提供 gossip 记录中节点地址的多地址（Multiaddr）实现
//
// Multiaddr 是一种自描述的网络地址格式。gossip 记录中的地址以二进制
// multiaddr 形式在线路上传输，本包只保留 gossip 地址所需的协议子集。
//
// # 基本用法
//
//	ma, err := multiaddr.NewMultiaddr("/ip4/93.184.216.34/tcp/4001")
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(ma.String()) // /ip4/93.184.216.34/tcp/4001
//	raw := ma.Bytes()        // 线路格式
//
// # 支持的协议
//
//   - IP4/IP6: IPv4 和 IPv6 地址
//   - TCP/UDP: 传输层端口
//   - QUIC-V1: QUIC 传输（无值）
//   - DNS/DNS4/DNS6: DNS 名称（不可解析为套接字地址）
//
// # 二进制格式
//
//	[varint:protocol_code][varint:length?][data_bytes]...
//
// 协议代码和变长数据的长度前缀使用 multiformats 的最小化 varint 编码，
// 同一个地址只有唯一的二进制表示。
//
// # 套接字地址
//
// ToSocketAddr 将 /ip4|ip6/<ip>/tcp|udp/<port> 形式的地址转换为
// netip.AddrPort。DNS 名称不会被解析，直接返回 ErrNotSocketAddr，
// 地址分类据此采取保守结果。
package multiaddr

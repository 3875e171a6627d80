// Package addrutil 提供地址分类用到的 IP 判定工具
//
// 所有函数都是纯函数，只看地址字节，不做 DNS 解析或网络 I/O。
package addrutil

import (
	"net/netip"

	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
)

// ============================================================================
//                              IPv4 判定
// ============================================================================

var (
	// 文档/测试网段（RFC 5737）
	testNet1 = netip.MustParsePrefix("192.0.2.0/24")
	testNet2 = netip.MustParsePrefix("198.51.100.0/24")
	testNet3 = netip.MustParsePrefix("203.0.113.0/24")

	broadcast4 = netip.AddrFrom4([4]byte{255, 255, 255, 255})
)

// IsDocumentation4 判断是否是 IPv4 文档地址
//
// 范围：192.0.2.0/24、198.51.100.0/24、203.0.113.0/24
func IsDocumentation4(ip netip.Addr) bool {
	return ip.Is4() && (testNet1.Contains(ip) || testNet2.Contains(ip) || testNet3.Contains(ip))
}

// IsBroadcast4 判断是否是 IPv4 受限广播地址 255.255.255.255
func IsBroadcast4(ip netip.Addr) bool {
	return ip == broadcast4
}

// ============================================================================
//                              IPv6 判定
// ============================================================================

// netip 的 IsLoopback/IsMulticast 等方法会先对 IPv4-mapped 地址做 Unmap，
// 这里的 IPv6 判定只看原始 16 字节。

// IsUnspecified6 判断是否是 IPv6 未指定地址 ::
func IsUnspecified6(ip netip.Addr) bool {
	return ip == netip.IPv6Unspecified()
}

// IsLoopback6 判断是否是 IPv6 回环地址 ::1
func IsLoopback6(ip netip.Addr) bool {
	return ip == netip.IPv6Loopback()
}

// IsMulticast6 判断是否属于 IPv6 组播 ff00::/8
func IsMulticast6(ip netip.Addr) bool {
	return ip.Is6() && ip.As16()[0] == 0xff
}

// ============================================================================
//                              IPv6 内嵌 IPv4
// ============================================================================

// EmbeddedIPv4 提取 IPv6 地址内嵌的 IPv4 地址
//
// 支持两种形式：
//   - IPv4-mapped:     ::ffff:a.b.c.d
//   - IPv4-compatible: ::a.b.c.d（前 96 位全零）
//
// 注意 ::1 与 :: 也满足 compatible 形式，会得到 0.0.0.1 / 0.0.0.0，
// 调用方需要先处理回环和未指定地址。
func EmbeddedIPv4(ip netip.Addr) (netip.Addr, bool) {
	if !ip.Is6() || ip.Zone() != "" {
		return netip.Addr{}, false
	}
	if ip.Is4In6() {
		return ip.Unmap(), true
	}
	b := ip.As16()
	for _, x := range b[:12] {
		if x != 0 {
			return netip.Addr{}, false
		}
	}
	return netip.AddrFrom4([4]byte(b[12:])), true
}

// ============================================================================
//                              地址类型描述
// ============================================================================

// AddrType 地址类型描述，用于日志和指标标签
type AddrType string

const (
	AddrTypeNone          AddrType = "none"
	AddrTypeUnresolved    AddrType = "unresolved"
	AddrTypeUnspecified   AddrType = "unspecified"
	AddrTypeBroadcast     AddrType = "broadcast"
	AddrTypeMulticast     AddrType = "multicast"
	AddrTypeDocumentation AddrType = "documentation"
	AddrTypeLoopback      AddrType = "loopback"
	AddrTypePrivate       AddrType = "private"
	AddrTypeLinkLocal     AddrType = "link-local"
	AddrTypePublic        AddrType = "public"
)

// TypeOf 返回地址的类型描述
//
// 判定顺序与 gossip 地址分类一致：先结构有效性，再全局可路由性。
// IPv6 只识别回环、未指定、组播以及内嵌 IPv4 的情况，原生 IPv6
// 私有/链路本地网段（fc00::/7、fe80::/10）归为 public。
func TypeOf(addr multiaddr.Multiaddr) AddrType {
	if addr == nil {
		return AddrTypeNone
	}
	ap, err := addr.ToSocketAddr()
	if err != nil {
		return AddrTypeUnresolved
	}

	ip := ap.Addr()
	if ip.Is4() {
		if t := invalidType4(ip); t != "" {
			return t
		}
		return globalType4(ip)
	}

	switch {
	case IsUnspecified6(ip):
		return AddrTypeUnspecified
	case IsMulticast6(ip):
		return AddrTypeMulticast
	case IsLoopback6(ip):
		return AddrTypeLoopback
	}
	if v4, ok := EmbeddedIPv4(ip); ok {
		return globalType4(v4)
	}
	return AddrTypePublic
}

// invalidType4 返回结构无效的 IPv4 类型，有效时返回空串
func invalidType4(ip netip.Addr) AddrType {
	switch {
	case ip.IsUnspecified():
		return AddrTypeUnspecified
	case IsBroadcast4(ip):
		return AddrTypeBroadcast
	case ip.IsMulticast():
		return AddrTypeMulticast
	case IsDocumentation4(ip):
		return AddrTypeDocumentation
	}
	return ""
}

// globalType4 返回 IPv4 的可路由类型
func globalType4(ip netip.Addr) AddrType {
	switch {
	case ip.IsPrivate():
		return AddrTypePrivate
	case ip.IsLoopback():
		return AddrTypeLoopback
	case ip.IsLinkLocalUnicast():
		return AddrTypeLinkLocal
	}
	return AddrTypePublic
}

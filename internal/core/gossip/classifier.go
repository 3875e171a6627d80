package gossip

import (
	"net/netip"

	"github.com/dep2p/go-gossip/internal/util/addrutil"
	gossipif "github.com/dep2p/go-gossip/pkg/interfaces/gossip"
	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
)

// ============================================================================
//                              地址分类
// ============================================================================

// socketIP 取出地址的 IP，地址缺失或无法转换为套接字地址时返回 false
func socketIP(addr multiaddr.Multiaddr) (netip.Addr, bool) {
	if addr == nil {
		return netip.Addr{}, false
	}
	ap, err := addr.ToSocketAddr()
	if err != nil {
		return netip.Addr{}, false
	}
	return ap.Addr(), true
}

// HasValidAddress 判断地址在结构上是否可用
//
// 拒绝：
//   - 地址缺失、无法转换为套接字地址（如尚未解析的 DNS 名称）
//   - IPv4: 0.0.0.0、255.255.255.255、224.0.0.0/4、文档网段
//     （192.0.2.0/24、198.51.100.0/24、203.0.113.0/24）
//   - IPv6: ::、ff00::/8
//
// 本函数不判断全局可路由性，见 IsGlobal。
func HasValidAddress(addr multiaddr.Multiaddr) bool {
	ip, ok := socketIP(addr)
	if !ok {
		return false
	}

	if ip.Is4() {
		return !ip.IsUnspecified() &&
			!addrutil.IsBroadcast4(ip) &&
			!ip.IsMulticast() &&
			!addrutil.IsDocumentation4(ip)
	}

	return !addrutil.IsUnspecified6(ip) && !addrutil.IsMulticast6(ip)
}

// IsGlobal 判断地址是否全局可路由
//
// 先要求 HasValidAddress 为 true，然后：
//   - IPv4: 拒绝私有（10/8、172.16/12、192.168/16）、回环（127/8）
//     和链路本地（169.254/16）地址
//   - IPv6: 拒绝 ::1；如果是 IPv4-mapped 或 IPv4-compatible 地址，
//     对内嵌的 IPv4 地址应用上面的 IPv4 规则
//
// 注意：没有内嵌 IPv4 的 IPv6 地址只检查回环，原生 IPv6 私有与
// 链路本地网段（fc00::/7、fe80::/10）会被视为全局地址。这与 IPv4
// 路径不对称，保持现有行为。
func IsGlobal(addr multiaddr.Multiaddr) bool {
	if !HasValidAddress(addr) {
		return false
	}
	ip, ok := socketIP(addr)
	if !ok {
		return false
	}

	if ip.Is4() {
		return isGlobal4(ip)
	}

	if addrutil.IsLoopback6(ip) {
		return false
	}
	if v4, ok := addrutil.EmbeddedIPv4(ip); ok && !isGlobal4(v4) {
		return false
	}
	return true
}

// isGlobal4 IPv4 可路由规则，只看私有、回环、链路本地
func isGlobal4(ip netip.Addr) bool {
	return !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast()
}

// ProfileHasValidAddress 对节点画像的地址执行 HasValidAddress
func ProfileHasValidAddress(p gossipif.Profile) bool {
	if p == nil {
		return false
	}
	return HasValidAddress(p.Address())
}

// ProfileIsGlobal 对节点画像的地址执行 IsGlobal
func ProfileIsGlobal(p gossipif.Profile) bool {
	if p == nil {
		return false
	}
	return IsGlobal(p.Address())
}

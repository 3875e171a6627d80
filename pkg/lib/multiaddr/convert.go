package multiaddr

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ToSocketAddr 将多地址转换为 netip.AddrPort
//
// 只接受以 IP 开头、紧跟 TCP/UDP 端口的地址：
//   - /ip4/<ip>/tcp/<port>[/...]
//   - /ip6/<ip>/udp/<port>[/quic-v1]
//
// DNS 名称不做解析，返回 ErrNotSocketAddr。
// IPv6 地址保持 16 字节原样，内嵌 IPv4 的地址不会被 Unmap。
func (m *multiaddr) ToSocketAddr() (netip.AddrPort, error) {
	first, rest, err := nextComponent(m.bytes)
	if err != nil {
		return netip.AddrPort{}, err
	}

	var ip netip.Addr
	switch first.proto.Code {
	case P_IP4:
		ip = netip.AddrFrom4([4]byte(first.value))
	case P_IP6:
		ip = netip.AddrFrom16([16]byte(first.value))
	default:
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrNotSocketAddr, first.proto.Name)
	}

	if len(rest) == 0 {
		return netip.AddrPort{}, fmt.Errorf("%w: missing port", ErrNotSocketAddr)
	}
	second, _, err := nextComponent(rest)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if second.proto.Code != P_TCP && second.proto.Code != P_UDP {
		return netip.AddrPort{}, fmt.Errorf("%w: %s after %s", ErrNotSocketAddr, second.proto.Name, first.proto.Name)
	}

	return netip.AddrPortFrom(ip, binary.BigEndian.Uint16(second.value)), nil
}

// FromAddrPort 从套接字地址创建多地址
//
// network 为 "tcp" 或 "udp"。IPv4 与 IPv4-mapped 地址都编码为 /ip4。
func FromAddrPort(ap netip.AddrPort, network string) (Multiaddr, error) {
	if !ap.IsValid() {
		return nil, fmt.Errorf("%w: invalid socket address", ErrInvalidMultiaddr)
	}
	if network != "tcp" && network != "udp" {
		return nil, fmt.Errorf("%w: unsupported network %q", ErrInvalidProtocol, network)
	}

	ip := ap.Addr().Unmap()
	proto := "ip6"
	if ip.Is4() {
		proto = "ip4"
	}
	return NewMultiaddr(fmt.Sprintf("/%s/%s/%s/%d", proto, ip.WithZone("").String(), network, ap.Port()))
}

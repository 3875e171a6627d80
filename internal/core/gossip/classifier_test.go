package gossip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

func ma(t *testing.T, s string) multiaddr.Multiaddr {
	t.Helper()
	m, err := multiaddr.NewMultiaddr(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return m
}

// ============================================================================
//                              HasValidAddress
// ============================================================================

func TestHasValidAddress(t *testing.T) {
	tests := []struct {
		name  string
		addr  string
		valid bool
	}{
		// IPv4
		{"public", "/ip4/93.184.216.34/tcp/3000", true},
		{"private", "/ip4/10.0.0.1/tcp/3000", true},
		{"loopback", "/ip4/127.0.0.1/tcp/3000", true},
		{"link-local", "/ip4/169.254.10.65/tcp/3000", true},
		{"udp", "/ip4/93.184.216.34/udp/3000/quic-v1", true},
		{"unspecified", "/ip4/0.0.0.0/tcp/3000", false},
		{"broadcast", "/ip4/255.255.255.255/tcp/3000", false},
		{"multicast low", "/ip4/224.0.0.1/tcp/3000", false},
		{"multicast high", "/ip4/239.255.255.255/tcp/3000", false},
		{"not multicast", "/ip4/240.0.0.1/tcp/3000", true},
		{"documentation 1", "/ip4/192.0.2.1/tcp/3000", false},
		{"documentation 2", "/ip4/198.51.100.200/tcp/3000", false},
		{"documentation 3", "/ip4/203.0.113.255/tcp/3000", false},
		{"next to documentation", "/ip4/192.0.3.1/tcp/3000", true},

		// IPv6
		{"ipv6 public", "/ip6/2001:db8::1/tcp/3000", true},
		{"ipv6 loopback", "/ip6/::1/tcp/3000", true},
		{"ipv6 unique local", "/ip6/fd00::1/tcp/3000", true},
		{"ipv6 unspecified", "/ip6/::/tcp/3000", false},
		{"ipv6 multicast", "/ip6/ff02::1/tcp/3000", false},
		{"ipv6 multicast global", "/ip6/ff0e::1/udp/3000", false},
		{"ipv4-mapped", "/ip6/::ffff:10.0.0.1/tcp/3000", true},

		// 不可转换为套接字地址
		{"dns", "/dns4/example.com/tcp/3000", false},
		{"no port", "/ip4/93.184.216.34", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, HasValidAddress(ma(t, tt.addr)))
		})
	}
}

func TestHasValidAddress_Nil(t *testing.T) {
	assert.False(t, HasValidAddress(nil))
	assert.False(t, IsGlobal(nil))
}

// ============================================================================
//                              IsGlobal
// ============================================================================

func TestIsGlobal(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		global bool
	}{
		{"public", "/ip4/93.184.216.34/tcp/3000", true},
		{"private 10", "/ip4/10.0.0.1/tcp/1234", false},
		{"private 172.16", "/ip4/172.16.0.1/tcp/1234", false},
		{"private 172.31", "/ip4/172.31.255.254/tcp/1234", false},
		{"not private 172.32", "/ip4/172.32.0.1/tcp/1234", true},
		{"private 192.168", "/ip4/192.168.1.1/tcp/1234", false},
		{"loopback", "/ip4/127.255.255.255/tcp/1234", false},
		{"link-local", "/ip4/169.254.10.65/tcp/1234", false},
		{"documentation", "/ip4/192.0.2.1/tcp/1234", false},
		{"unspecified", "/ip4/0.0.0.0/tcp/1234", false},

		{"ipv6 public", "/ip6/2606:2800:220:1::1/tcp/1234", true},
		{"ipv6 loopback", "/ip6/::1/tcp/1234", false},
		{"ipv6 unspecified", "/ip6/::/tcp/1234", false},
		{"ipv6 multicast", "/ip6/ff02::1/tcp/1234", false},

		// 内嵌 IPv4 的地址按 IPv4 规则判断
		{"compatible unspecified", "/ip6/::0.0.0.0/tcp/1234", false},
		{"compatible private", "/ip6/::10.0.0.1/tcp/1234", false},
		{"compatible loopback", "/ip6/::127.255.255.255/tcp/1234", false},
		{"compatible link-local", "/ip6/::169.254.10.65/tcp/1234", false},
		{"compatible public", "/ip6/::93.184.216.34/tcp/1234", true},
		{"mapped private", "/ip6/::ffff:192.168.0.1/tcp/1234", false},
		{"mapped loopback", "/ip6/::ffff:127.0.0.1/tcp/1234", false},
		{"mapped public", "/ip6/::ffff:93.184.216.34/tcp/1234", true},

		// 原生 IPv6 私有与链路本地网段不做过滤
		{"ipv6 unique local", "/ip6/fd12:3456::1/tcp/1234", true},
		{"ipv6 link-local", "/ip6/fe80::1/tcp/1234", true},

		{"dns", "/dns/example.com/tcp/1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.global, IsGlobal(ma(t, tt.addr)))
		})
	}
}

// IsGlobal 为 true 时 HasValidAddress 必然为 true
func TestIsGlobal_ImpliesValid(t *testing.T) {
	addrs := []string{
		"/ip4/93.184.216.34/tcp/1",
		"/ip4/10.1.2.3/tcp/1",
		"/ip4/224.0.0.251/udp/5353",
		"/ip4/203.0.113.7/tcp/1",
		"/ip6/::1/tcp/1",
		"/ip6/::/tcp/1",
		"/ip6/ff02::fb/udp/5353",
		"/ip6/2001:4860:4860::8888/udp/53",
		"/ip6/::ffff:8.8.8.8/tcp/1",
	}
	for _, s := range addrs {
		addr := ma(t, s)
		if IsGlobal(addr) {
			assert.True(t, HasValidAddress(addr), s)
		}
	}
}

func TestProfileClassifiers(t *testing.T) {
	public := types.NodeProfile{ID: types.RandomNodeID(), Addr: ma(t, "/ip4/93.184.216.34/tcp/3000")}
	private := types.NodeProfile{ID: types.RandomNodeID(), Addr: ma(t, "/ip4/10.0.0.1/tcp/3000")}
	absent := types.NodeProfile{ID: types.RandomNodeID()}

	assert.True(t, ProfileHasValidAddress(public))
	assert.True(t, ProfileIsGlobal(public))

	assert.True(t, ProfileHasValidAddress(private))
	assert.False(t, ProfileIsGlobal(private))

	assert.False(t, ProfileHasValidAddress(absent))
	assert.False(t, ProfileIsGlobal(absent))

	assert.False(t, ProfileHasValidAddress(nil))
	assert.False(t, ProfileIsGlobal(nil))
}

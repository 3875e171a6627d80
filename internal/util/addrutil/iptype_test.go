package addrutil

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
)

func TestIsDocumentation4(t *testing.T) {
	for _, s := range []string{"192.0.2.0", "192.0.2.255", "198.51.100.7", "203.0.113.200"} {
		assert.True(t, IsDocumentation4(netip.MustParseAddr(s)), s)
	}
	for _, s := range []string{"192.0.3.1", "198.51.101.1", "203.0.112.255", "2001:db8::1"} {
		assert.False(t, IsDocumentation4(netip.MustParseAddr(s)), s)
	}
}

func TestIsBroadcast4(t *testing.T) {
	assert.True(t, IsBroadcast4(netip.MustParseAddr("255.255.255.255")))
	assert.False(t, IsBroadcast4(netip.MustParseAddr("255.255.255.254")))
	assert.False(t, IsBroadcast4(netip.MustParseAddr("::ffff:255.255.255.255")))
}

func TestIPv6Predicates(t *testing.T) {
	assert.True(t, IsUnspecified6(netip.MustParseAddr("::")))
	assert.False(t, IsUnspecified6(netip.MustParseAddr("0.0.0.0")))

	assert.True(t, IsLoopback6(netip.MustParseAddr("::1")))
	assert.False(t, IsLoopback6(netip.MustParseAddr("::ffff:127.0.0.1")))

	assert.True(t, IsMulticast6(netip.MustParseAddr("ff02::1")))
	assert.True(t, IsMulticast6(netip.MustParseAddr("ff0e::101")))
	assert.False(t, IsMulticast6(netip.MustParseAddr("::ffff:224.0.0.1")))
	assert.False(t, IsMulticast6(netip.MustParseAddr("224.0.0.1")))
}

func TestEmbeddedIPv4(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want string
		ok   bool
	}{
		{"mapped", "::ffff:10.0.0.1", "10.0.0.1", true},
		{"compatible", "::10.0.0.1", "10.0.0.1", true},
		{"compatible loopback", "::1", "0.0.0.1", true},
		{"native", "2001:db8::1", "", false},
		{"ula", "fc00::1", "", false},
		{"plain ipv4", "10.0.0.1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EmbeddedIPv4(netip.MustParseAddr(tt.ip))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, netip.MustParseAddr(tt.want), got)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		addr string
		want AddrType
	}{
		{"/ip4/93.184.216.34/tcp/1", AddrTypePublic},
		{"/ip4/0.0.0.0/tcp/1", AddrTypeUnspecified},
		{"/ip4/255.255.255.255/tcp/1", AddrTypeBroadcast},
		{"/ip4/239.1.1.1/udp/1", AddrTypeMulticast},
		{"/ip4/198.51.100.1/tcp/1", AddrTypeDocumentation},
		{"/ip4/10.1.2.3/tcp/1", AddrTypePrivate},
		{"/ip4/127.0.0.1/tcp/1", AddrTypeLoopback},
		{"/ip4/169.254.10.65/tcp/1", AddrTypeLinkLocal},
		{"/ip6/::/tcp/1", AddrTypeUnspecified},
		{"/ip6/::1/tcp/1", AddrTypeLoopback},
		{"/ip6/ff02::1/udp/1", AddrTypeMulticast},
		{"/ip6/::ffff:192.168.1.1/tcp/1", AddrTypePrivate},
		{"/ip6/::a9fe:a41/tcp/1", AddrTypeLinkLocal},
		{"/ip6/2606:2800:220:1::1/tcp/1", AddrTypePublic},
		// 原生 IPv6 私有网段不过滤
		{"/ip6/fc00::1/tcp/1", AddrTypePublic},
		{"/ip6/fe80::1/tcp/1", AddrTypePublic},
		{"/dns4/example.org/tcp/1", AddrTypeUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(multiaddr.StringCast(tt.addr)))
		})
	}

	assert.Equal(t, AddrTypeNone, TypeOf(nil))
}

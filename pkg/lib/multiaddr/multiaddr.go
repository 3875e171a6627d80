package multiaddr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/netip"
)

// Multiaddr 是自描述的网络地址接口
type Multiaddr interface {
	// Bytes 返回二进制表示（不要修改返回的字节，可能是共享的）
	Bytes() []byte

	// String 返回字符串表示
	String() string

	// Equal 判断两个地址是否相等
	Equal(Multiaddr) bool

	// Protocols 返回地址包含的协议列表
	Protocols() []Protocol

	// ValueForProtocol 获取指定协议代码的值
	ValueForProtocol(code int) (string, error)

	// ToSocketAddr 转换为套接字地址，DNS 名称不解析
	ToSocketAddr() (netip.AddrPort, error)
}

// multiaddr 是 Multiaddr 接口的实现
//
// 构造后不可变，bytes 总是经过 validateBytes 校验。
type multiaddr struct {
	bytes []byte
}

// NewMultiaddr 从字符串创建多地址
func NewMultiaddr(s string) (Multiaddr, error) {
	b, err := stringToBytes(s)
	if err != nil {
		return nil, err
	}
	return &multiaddr{bytes: b}, nil
}

// NewMultiaddrBytes 从字节创建多地址
func NewMultiaddrBytes(b []byte) (Multiaddr, error) {
	if err := validateBytes(b); err != nil {
		return nil, err
	}
	// 复制一份避免外部修改
	buf := make([]byte, len(b))
	copy(buf, b)
	return &multiaddr{bytes: buf}, nil
}

// StringCast 从字符串创建多地址，失败时 panic
// 仅用于测试和常量地址
func StringCast(s string) Multiaddr {
	m, err := NewMultiaddr(s)
	if err != nil {
		panic(fmt.Errorf("multiaddr StringCast(%q): %w", s, err))
	}
	return m
}

// Bytes 返回二进制表示
func (m *multiaddr) Bytes() []byte {
	return m.bytes
}

// String 返回字符串表示
func (m *multiaddr) String() string {
	s, err := bytesToString(m.bytes)
	if err != nil {
		// 构造时已经验证过
		panic(fmt.Errorf("multiaddr failed to convert to string: %w", err))
	}
	return s
}

// Equal 判断两个地址是否相等
func (m *multiaddr) Equal(other Multiaddr) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(m.bytes, other.Bytes())
}

// Protocols 返回地址包含的协议列表
func (m *multiaddr) Protocols() []Protocol {
	var protos []Protocol
	_ = forEachComponent(m.bytes, func(c component) bool {
		protos = append(protos, c.proto)
		return true
	})
	return protos
}

// ValueForProtocol 获取指定协议代码的值
func (m *multiaddr) ValueForProtocol(code int) (string, error) {
	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return "", fmt.Errorf("%w: unknown protocol code %d", ErrInvalidProtocol, code)
	}

	var (
		found bool
		value []byte
	)
	err := forEachComponent(m.bytes, func(c component) bool {
		if c.proto.Code == code {
			found = true
			value = c.value
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("protocol %s not found in multiaddr", proto.Name)
	}
	if proto.Size == 0 {
		return "", nil
	}
	return proto.Transcoder.BytesToString(value)
}

// MarshalBinary 实现 encoding.BinaryMarshaler
func (m *multiaddr) MarshalBinary() ([]byte, error) {
	return m.Bytes(), nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m *multiaddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MarshalJSON 实现 json.Marshaler
func (m *multiaddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

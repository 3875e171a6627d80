package multiaddr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/multiformats/go-varint"
)

// component 是二进制多地址中的一个协议段
type component struct {
	proto Protocol
	value []byte
}

// nextComponent 从二进制数据中读取一个协议段
// 返回：(component, rest, error)
func nextComponent(b []byte) (component, []byte, error) {
	code, n, err := readVarintCode(b)
	if err != nil {
		return component{}, nil, err
	}
	b = b[n:]

	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return component{}, nil, fmt.Errorf("%w: unknown protocol code %d", ErrInvalidProtocol, code)
	}

	// 无数据协议
	if proto.Size == 0 {
		return component{proto: proto}, b, nil
	}

	var size int
	if proto.Size == LengthPrefixedVarSize {
		length, prefix, err := readVarintLength(b)
		if err != nil {
			return component{}, nil, fmt.Errorf("protocol %s: %w", proto.Name, err)
		}
		b = b[prefix:]
		size = length
	} else {
		// 固定长度（位转字节）
		size = proto.Size / 8
	}

	if len(b) < size {
		return component{}, nil, fmt.Errorf("%w: insufficient data for protocol %s: need %d, have %d",
			ErrInvalidMultiaddr, proto.Name, size, len(b))
	}

	value := b[:size]
	if err := proto.Transcoder.ValidateBytes(value); err != nil {
		return component{}, nil, fmt.Errorf("%w: invalid data for protocol %s: %v", ErrInvalidMultiaddr, proto.Name, err)
	}

	return component{proto: proto, value: value}, b[size:], nil
}

// forEachComponent 顺序遍历所有协议段，fn 返回 false 时停止
func forEachComponent(b []byte, fn func(component) bool) error {
	for len(b) > 0 {
		c, rest, err := nextComponent(b)
		if err != nil {
			return err
		}
		if !fn(c) {
			return nil
		}
		b = rest
	}
	return nil
}

// stringToBytes 将多地址字符串转换为二进制格式
func stringToBytes(s string) ([]byte, error) {
	// 去除尾部斜杠
	s = strings.TrimRight(s, "/")

	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty multiaddr", ErrInvalidMultiaddr)
	}

	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: multiaddr must begin with /", ErrInvalidMultiaddr)
	}

	var buf bytes.Buffer
	// 跳过第一个空元素
	parts := strings.Split(s, "/")[1:]

	for len(parts) > 0 {
		name := parts[0]
		proto := ProtocolWithName(name)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProtocol, name)
		}

		buf.Write(proto.VCode)
		parts = parts[1:]

		if proto.Size == 0 {
			continue
		}

		if len(parts) < 1 {
			return nil, fmt.Errorf("%w: protocol %s requires a value", ErrInvalidMultiaddr, name)
		}

		valueBytes, err := proto.Transcoder.StringToBytes(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: value for protocol %s: %v", ErrInvalidMultiaddr, name, err)
		}

		if proto.Size == LengthPrefixedVarSize {
			buf.Write(varint.ToUvarint(uint64(len(valueBytes))))
		}

		buf.Write(valueBytes)
		parts = parts[1:]
	}

	return buf.Bytes(), nil
}

// bytesToString 将二进制格式的多地址转换为字符串
func bytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty multiaddr bytes", ErrInvalidMultiaddr)
	}

	var sb strings.Builder
	var convErr error
	err := forEachComponent(b, func(c component) bool {
		sb.WriteString("/")
		sb.WriteString(c.proto.Name)
		if c.proto.Size == 0 {
			return true
		}
		s, err := c.proto.Transcoder.BytesToString(c.value)
		if err != nil {
			convErr = fmt.Errorf("%w: protocol %s: %v", ErrInvalidMultiaddr, c.proto.Name, err)
			return false
		}
		sb.WriteString("/")
		sb.WriteString(s)
		return true
	})
	if err != nil {
		return "", err
	}
	if convErr != nil {
		return "", convErr
	}

	return sb.String(), nil
}

// validateBytes 验证二进制多地址的格式
func validateBytes(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty multiaddr", ErrInvalidMultiaddr)
	}
	return forEachComponent(b, func(component) bool { return true })
}

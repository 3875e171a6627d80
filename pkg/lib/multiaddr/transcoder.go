package multiaddr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Transcoder 接口定义了协议数据的编解码方法
type Transcoder interface {
	// StringToBytes 将字符串值转换为字节
	StringToBytes(string) ([]byte, error)

	// BytesToString 将字节转换为字符串值
	BytesToString([]byte) (string, error)

	// ValidateBytes 验证字节数据是否有效
	ValidateBytes([]byte) error
}

// NewTranscoderFromFunctions 从函数创建 Transcoder
func NewTranscoderFromFunctions(
	s2b func(string) ([]byte, error),
	b2s func([]byte) (string, error),
	val func([]byte) error,
) Transcoder {
	return &transcoderWrapper{s2b, b2s, val}
}

type transcoderWrapper struct {
	stringToBytes func(string) ([]byte, error)
	bytesToString func([]byte) (string, error)
	validateBytes func([]byte) error
}

func (t *transcoderWrapper) StringToBytes(s string) ([]byte, error) {
	return t.stringToBytes(s)
}

func (t *transcoderWrapper) BytesToString(b []byte) (string, error) {
	return t.bytesToString(b)
}

func (t *transcoderWrapper) ValidateBytes(b []byte) error {
	if t.validateBytes == nil {
		return nil
	}
	return t.validateBytes(b)
}

// IP4 Transcoder
var TranscoderIP4 = NewTranscoderFromFunctions(ip4StringToBytes, ip4BytesToString, nil)

func ip4StringToBytes(s string) ([]byte, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || !ip.Is4() {
		return nil, fmt.Errorf("failed to parse ip4 addr: %s", s)
	}
	b := ip.As4()
	return b[:], nil
}

func ip4BytesToString(b []byte) (string, error) {
	if len(b) != 4 {
		return "", fmt.Errorf("invalid ip4 length: %d", len(b))
	}
	return netip.AddrFrom4([4]byte(b)).String(), nil
}

// IP6 Transcoder
//
// 内嵌 IPv4 的地址（::ffff:a.b.c.d、::a.b.c.d）按 16 字节原样保存，
// 不做 Unmap，地址分类需要看到原始形式。
var TranscoderIP6 = NewTranscoderFromFunctions(ip6StringToBytes, ip6BytesToString, nil)

func ip6StringToBytes(s string) ([]byte, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || ip.Zone() != "" {
		return nil, fmt.Errorf("failed to parse ip6 addr: %s", s)
	}
	b := ip.As16()
	return b[:], nil
}

func ip6BytesToString(b []byte) (string, error) {
	if len(b) != 16 {
		return "", fmt.Errorf("invalid ip6 length: %d", len(b))
	}
	return netip.AddrFrom16([16]byte(b)).String(), nil
}

// Port Transcoder (TCP/UDP)
var TranscoderPort = NewTranscoderFromFunctions(portStringToBytes, portBytesToString, nil)

func portStringToBytes(s string) ([]byte, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to parse port: %s", err)
	}
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(port))
	return b, nil
}

func portBytesToString(b []byte) (string, error) {
	if len(b) != 2 {
		return "", fmt.Errorf("invalid port length: %d", len(b))
	}
	port := binary.BigEndian.Uint16(b)
	return strconv.Itoa(int(port)), nil
}

// DNS Transcoder (DNS/DNS4/DNS6)
var TranscoderDNS = NewTranscoderFromFunctions(dnsStringToBytes, dnsBytesToString, dnsValidateBytes)

func dnsStringToBytes(s string) ([]byte, error) {
	if err := dnsValidateBytes([]byte(s)); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func dnsBytesToString(b []byte) (string, error) {
	if err := dnsValidateBytes(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func dnsValidateBytes(b []byte) error {
	if len(b) == 0 {
		return errors.New("invalid length (should be > 0)")
	}
	// '/' 会破坏 multiaddr 字符串解析
	if strings.Contains(string(b), "/") {
		return fmt.Errorf("DNS name contains '/': %s", string(b))
	}
	return nil
}

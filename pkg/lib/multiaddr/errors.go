package multiaddr

import "errors"

// 通用错误
var (
	// ErrInvalidMultiaddr 多地址格式无效
	ErrInvalidMultiaddr = errors.New("invalid multiaddr")

	// ErrInvalidProtocol 未知协议
	ErrInvalidProtocol = errors.New("invalid protocol")

	// ErrNotSocketAddr 地址无法转换为套接字地址（如 DNS 名称）
	ErrNotSocketAddr = errors.New("multiaddr is not a socket address")
)

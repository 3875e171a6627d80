package multiaddr

import (
	"fmt"
	"math"

	"github.com/multiformats/go-varint"
)

// codeToVarint 将协议代码转换为 varint 编码的字节
func codeToVarint(code int) []byte {
	if code < 0 || code > math.MaxInt32 {
		panic("invalid protocol code")
	}
	return varint.ToUvarint(uint64(code))
}

// readVarintCode 从字节流中读取 varint 编码的协议代码
// 返回：(code, bytes_read, error)
func readVarintCode(buf []byte) (int, int, error) {
	code, n, err := varint.FromUvarint(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: protocol code: %v", ErrInvalidMultiaddr, err)
	}
	if code > math.MaxInt32 {
		// 只允许 32 位代码
		return 0, 0, fmt.Errorf("%w: protocol code overflows int32", ErrInvalidMultiaddr)
	}
	return int(code), n, nil
}

// readVarintLength 读取变长数据的长度前缀
func readVarintLength(buf []byte) (int, int, error) {
	length, n, err := varint.FromUvarint(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: length prefix: %v", ErrInvalidMultiaddr, err)
	}
	if length > uint64(len(buf)-n) {
		return 0, 0, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrInvalidMultiaddr, length, len(buf)-n)
	}
	return int(length), n, nil
}

package types

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeIDLen NodeID 字节长度
const NodeIDLen = 32

// NodeID 节点唯一标识符
// 由公钥派生（通常是公钥的 SHA256 哈希）
//
// 外部表示格式：
//   - String(): Base58 编码
//   - ShortString(): Base58 前缀（日志简短标识）
type NodeID [NodeIDLen]byte

// EmptyNodeID 空节点ID
var EmptyNodeID NodeID

// String 返回 NodeID 的 Base58 字符串表示
func (id NodeID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return base58.Encode(id[:])
}

// ShortString 返回 NodeID 的短字符串表示
//
// 格式：Base58 前 8 个字符，用于日志中的简短标识。
func (id NodeID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回 NodeID 的字节切片
func (id NodeID) Bytes() []byte {
	return id[:]
}

// Equal 比较两个 NodeID 是否相等
func (id NodeID) Equal(other NodeID) bool {
	return id == other
}

// IsEmpty 检查 NodeID 是否为空
func (id NodeID) IsEmpty() bool {
	return id == EmptyNodeID
}

// NodeIDFromBytes 从字节切片创建 NodeID
func NodeIDFromBytes(b []byte) (NodeID, error) {
	if len(b) != NodeIDLen {
		return EmptyNodeID, ErrInvalidNodeID
	}
	var id NodeID
	copy(id[:], b)
	return id, nil
}

// ParseNodeID 从 Base58 字符串解析 NodeID
func ParseNodeID(s string) (NodeID, error) {
	if s == "" {
		return EmptyNodeID, ErrInvalidNodeID
	}
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyNodeID, ErrInvalidNodeID
	}
	return NodeIDFromBytes(b)
}

// RandomNodeID 生成随机 NodeID（用于测试和临时身份）
func RandomNodeID() NodeID {
	var id NodeID
	_, _ = rand.Read(id[:])
	return id
}

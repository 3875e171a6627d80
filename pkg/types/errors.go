package types

import "errors"

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrInvalidNodeID 无效的节点 ID
	ErrInvalidNodeID = errors.New("invalid node ID: must be 32 bytes, Base58 encoded")
)

// ============================================================================
//                              订阅相关错误
// ============================================================================

var (
	// ErrInvalidInterestLevel 无效的兴趣级别
	ErrInvalidInterestLevel = errors.New("invalid interest level")
)

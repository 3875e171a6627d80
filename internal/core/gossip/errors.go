package gossip

import "errors"

// ============================================================================
//                              编码错误
// ============================================================================

var (
	// ErrTooLarge 序列化结果超过大小上限
	ErrTooLarge = errors.New("gossip: encoded record too large")
)

// ============================================================================
//                              解码错误
// ============================================================================

var (
	// ErrLimitExceeded 输入超过大小上限
	ErrLimitExceeded = errors.New("gossip: decode size limit exceeded")

	// ErrMalformed 结构无效（错误标签、字段截断、无效取值）
	ErrMalformed = errors.New("gossip: malformed record")

	// ErrTrailingBytes 完整记录之后仍有多余字节
	ErrTrailingBytes = errors.New("gossip: trailing bytes after record")
)

// ============================================================================
//                              批次错误
// ============================================================================

var (
	// ErrBatchRecord 批次中的某条记录编解码失败，具体原因见被包装的错误
	ErrBatchRecord = errors.New("gossip: batch record failed")
)

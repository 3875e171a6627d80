package types

import (
	"fmt"
	"strconv"

	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
)

// ============================================================================
//                              Topic / InterestLevel
// ============================================================================

// Topic 订阅主题
type Topic uint32

// String 返回主题的十进制表示
func (t Topic) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// InterestLevel 节点对主题的兴趣级别
type InterestLevel uint8

const (
	// InterestLow 低兴趣
	InterestLow InterestLevel = iota
	// InterestNormal 普通兴趣
	InterestNormal
	// InterestHigh 高兴趣
	InterestHigh
)

// String 返回兴趣级别名称
func (l InterestLevel) String() string {
	switch l {
	case InterestLow:
		return "low"
	case InterestNormal:
		return "normal"
	case InterestHigh:
		return "high"
	default:
		return "unknown(" + strconv.Itoa(int(l)) + ")"
	}
}

// IsValid 检查兴趣级别是否在已定义范围内
func (l InterestLevel) IsValid() bool {
	return l <= InterestHigh
}

// ParseInterestLevel 从名称解析兴趣级别
func ParseInterestLevel(s string) (InterestLevel, error) {
	switch s {
	case "low":
		return InterestLow, nil
	case "normal", "":
		return InterestNormal, nil
	case "high":
		return InterestHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterestLevel, s)
	}
}

// Subscription 单个主题订阅
type Subscription struct {
	Topic    Topic
	Interest InterestLevel
}

// ============================================================================
//                              NodeProfile - 节点画像
// ============================================================================

// NodeProfile 拓扑组件产生的节点画像
//
// Addr 为 nil 表示节点未公布地址（如仅出站节点）。
// 构造时不做任何校验，地址分类总是由调用方显式触发。
type NodeProfile struct {
	// ID 节点标识
	ID NodeID

	// Addr 节点公布的地址（可选）
	Addr multiaddr.Multiaddr

	// Subscriptions 主题订阅，顺序即线路顺序
	Subscriptions []Subscription
}

// Address 返回节点公布的地址，未公布时返回 nil
func (p NodeProfile) Address() multiaddr.Multiaddr {
	return p.Addr
}

// Equal 结构相等比较
//
// nil 与空订阅列表视为相等。
func (p NodeProfile) Equal(other NodeProfile) bool {
	if p.ID != other.ID {
		return false
	}
	switch {
	case p.Addr == nil && other.Addr == nil:
	case p.Addr == nil || other.Addr == nil:
		return false
	case !p.Addr.Equal(other.Addr):
		return false
	}
	if len(p.Subscriptions) != len(other.Subscriptions) {
		return false
	}
	for i := range p.Subscriptions {
		if p.Subscriptions[i] != other.Subscriptions[i] {
			return false
		}
	}
	return true
}

// String 返回日志友好的描述
func (p NodeProfile) String() string {
	addr := "<none>"
	if p.Addr != nil {
		addr = p.Addr.String()
	}
	return fmt.Sprintf("NodeProfile{id=%s addr=%s subs=%d}", p.ID.ShortString(), addr, len(p.Subscriptions))
}

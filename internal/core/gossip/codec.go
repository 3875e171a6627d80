package gossip

import (
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

// ============================================================================
//                              大小上限
// ============================================================================

// MaxGossipSize 单条 gossip 记录序列化后的最大字节数
//
// 进程级常量，调用方可用它预分配缓冲区或在解码前拒绝过大的输入。
const MaxGossipSize = 512

// ============================================================================
//                              线路格式
// ============================================================================
//
// 记录使用 protobuf 线路格式，字段顺序固定，varint 必须是最小编码：
//
//	message Gossip {
//	    bytes        id           = 1; // 32 字节 NodeID，必须是第一个字段
//	    bytes        address      = 2; // 二进制 multiaddr，未公布地址时省略
//	    Subscription subscription = 3; // repeated，顺序即订阅顺序
//	}
//
//	message Subscription {
//	    uint32 topic    = 1; // 总是写出
//	    uint32 interest = 2; // 总是写出，必须是已定义的兴趣级别
//	}
//
// 结构相同的记录总是得到逐字节相同的编码。

const (
	fieldID           protowire.Number = 1
	fieldAddress      protowire.Number = 2
	fieldSubscription protowire.Number = 3

	subFieldTopic    protowire.Number = 1
	subFieldInterest protowire.Number = 2
)

// ============================================================================
//                              Codec
// ============================================================================

// Codec 有界 gossip 编解码器
//
// 构造后不可变，可并发使用。
type Codec struct {
	limit int
}

// CodecOption Codec 选项
type CodecOption func(*Codec)

// WithLimit 设置更小的大小上限
//
// 只接受 (0, MaxGossipSize] 内的值，其余取值被忽略，上限不会超过
// MaxGossipSize。用于测试或与对端协商更小的上限。
func WithLimit(limit int) CodecOption {
	return func(c *Codec) {
		if limit > 0 && limit <= MaxGossipSize {
			c.limit = limit
		}
	}
}

// NewCodec 创建编解码器，默认上限为 MaxGossipSize
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{limit: MaxGossipSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultCodec 使用 MaxGossipSize 的默认编解码器
var defaultCodec = NewCodec()

// Encode 使用默认编解码器编码
func Encode(g Gossip) ([]byte, error) {
	return defaultCodec.Encode(g)
}

// Decode 使用默认编解码器解码
func Decode(b []byte) (Gossip, error) {
	return defaultCodec.Decode(b)
}

// Limit 返回大小上限
func (c *Codec) Limit() int {
	return c.limit
}

// ============================================================================
//                              编码
// ============================================================================

// Size 返回记录序列化后的字节数，不受上限约束
func (c *Codec) Size(g Gossip) int {
	p := g.profile

	n := protowire.SizeTag(fieldID) + protowire.SizeBytes(types.NodeIDLen)
	if p.Addr != nil {
		n += protowire.SizeTag(fieldAddress) + protowire.SizeBytes(len(p.Addr.Bytes()))
	}
	for _, s := range p.Subscriptions {
		n += protowire.SizeTag(fieldSubscription) + protowire.SizeBytes(subscriptionSize(s))
	}
	return n
}

func subscriptionSize(s types.Subscription) int {
	return protowire.SizeTag(subFieldTopic) + protowire.SizeVarint(uint64(s.Topic)) +
		protowire.SizeTag(subFieldInterest) + protowire.SizeVarint(uint64(s.Interest))
}

// Encode 编码单条记录
//
// 先计算大小，超过上限时返回 ErrTooLarge 且不产生任何输出。
// 订阅的兴趣级别必须是已定义的取值。
func (c *Codec) Encode(g Gossip) ([]byte, error) {
	for i, s := range g.profile.Subscriptions {
		if !s.Interest.IsValid() {
			return nil, fmt.Errorf("gossip: subscription %d: %w: %d", i, types.ErrInvalidInterestLevel, s.Interest)
		}
	}

	size := c.Size(g)
	if size > c.limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, size, c.limit)
	}

	p := g.profile
	b := make([]byte, 0, size)

	b = protowire.AppendTag(b, fieldID, protowire.BytesType)
	b = protowire.AppendBytes(b, p.ID[:])

	if p.Addr != nil {
		b = protowire.AppendTag(b, fieldAddress, protowire.BytesType)
		b = protowire.AppendBytes(b, p.Addr.Bytes())
	}

	for _, s := range p.Subscriptions {
		b = protowire.AppendTag(b, fieldSubscription, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(subscriptionSize(s)))
		b = protowire.AppendTag(b, subFieldTopic, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(s.Topic))
		b = protowire.AppendTag(b, subFieldInterest, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(s.Interest))
	}

	return b, nil
}

// EncodeTo 编码并写入 w，编码失败时不写入任何字节
func (c *Codec) EncodeTo(w io.Writer, g Gossip) error {
	b, err := c.Encode(g)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("gossip: write record: %w", err)
	}
	return nil
}

// ============================================================================
//                              解码
// ============================================================================

// Decode 从单条记录缓冲区解码
//
// 输入超过上限时直接返回 ErrLimitExceeded，不做任何解析。
//
// 错误分类：
//   - 读到 id 之前的任何问题都是 ErrMalformed（包括空输入）
//   - 读到 id 之后，无法解析的标签（如零字节填充）或字段号小于前一个
//     字段（如第二条记录的 id）表示记录已结束，返回 ErrTrailingBytes
//   - 字段号大于 3、线路类型错误、非最小编码、值被截断、id 长度错误、
//     地址无效、兴趣级别未定义，返回 ErrMalformed
func (c *Codec) Decode(b []byte) (Gossip, error) {
	if len(b) > c.limit {
		return Gossip{}, fmt.Errorf("%w: %d bytes, limit %d", ErrLimitExceeded, len(b), c.limit)
	}
	return decodeRecord(b)
}

// DecodeFrom 从 r 读取并解码单条记录
//
// 最多读取 limit+1 字节；读满 limit+1 字节即返回 ErrLimitExceeded。
// r 中剩余的数据不会被读取。
func (c *Codec) DecodeFrom(r io.Reader) (Gossip, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(c.limit)+1))
	if err != nil {
		return Gossip{}, fmt.Errorf("gossip: read record: %w", err)
	}
	if len(b) > c.limit {
		return Gossip{}, fmt.Errorf("%w: more than %d bytes", ErrLimitExceeded, c.limit)
	}
	return decodeRecord(b)
}

// decodeRecord 解析一条完整记录
//
// 字段顺序必须是 id、address?、subscription*。记录完整（已读到 id）后，
// 遇到无法构成后续字段的字节（无效标签或字段号回退）视为多余字节。
func decodeRecord(b []byte) (Gossip, error) {
	var (
		p     types.NodeProfile
		hasID bool
		next  = fieldID
		off   int
	)

	for off < len(b) {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 || num < next {
			if hasID {
				return Gossip{}, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, len(b)-off, off)
			}
			return Gossip{}, malformed(off, "expected id field")
		}
		if n != protowire.SizeTag(num) {
			return Gossip{}, malformed(off, "non-minimal tag")
		}
		if !hasID && num != fieldID {
			return Gossip{}, malformed(off, "id must be the first field")
		}
		if num > fieldSubscription {
			return Gossip{}, malformed(off, fmt.Sprintf("unknown field %d", num))
		}
		if typ != protowire.BytesType {
			return Gossip{}, malformed(off, fmt.Sprintf("field %d: wire type %d", num, typ))
		}
		off += n

		v, m := protowire.ConsumeBytes(b[off:])
		if m < 0 {
			return Gossip{}, malformed(off, fmt.Sprintf("field %d: %v", num, protowire.ParseError(m)))
		}
		if m != protowire.SizeBytes(len(v)) {
			return Gossip{}, malformed(off, fmt.Sprintf("field %d: non-minimal length", num))
		}

		switch num {
		case fieldID:
			id, err := types.NodeIDFromBytes(v)
			if err != nil {
				return Gossip{}, malformed(off, fmt.Sprintf("id: %d bytes", len(v)))
			}
			p.ID = id
			hasID = true
			next = fieldAddress

		case fieldAddress:
			addr, err := multiaddr.NewMultiaddrBytes(v)
			if err != nil {
				return Gossip{}, malformed(off, fmt.Sprintf("address: %v", err))
			}
			p.Addr = addr
			next = fieldSubscription

		case fieldSubscription:
			s, err := decodeSubscription(v)
			if err != nil {
				return Gossip{}, malformed(off, err.Error())
			}
			p.Subscriptions = append(p.Subscriptions, s)
			next = fieldSubscription
		}

		off += m
	}

	if !hasID {
		return Gossip{}, malformed(0, "missing id field")
	}
	return FromProfile(p), nil
}

// decodeSubscription 解析订阅子消息，必须恰好包含 topic 和 interest
func decodeSubscription(b []byte) (types.Subscription, error) {
	topic, n, err := consumeVarintField(b, subFieldTopic)
	if err != nil {
		return types.Subscription{}, err
	}
	b = b[n:]

	interest, n, err := consumeVarintField(b, subFieldInterest)
	if err != nil {
		return types.Subscription{}, err
	}
	if n != len(b) {
		return types.Subscription{}, fmt.Errorf("subscription: %d unexpected bytes", len(b)-n)
	}

	if topic > math.MaxUint32 {
		return types.Subscription{}, fmt.Errorf("subscription: topic %d overflows uint32", topic)
	}
	if interest > math.MaxUint8 || !types.InterestLevel(interest).IsValid() {
		return types.Subscription{}, fmt.Errorf("subscription: unknown interest level %d", interest)
	}

	return types.Subscription{
		Topic:    types.Topic(topic),
		Interest: types.InterestLevel(interest),
	}, nil
}

// consumeVarintField 读取指定字段号的 varint 字段
func consumeVarintField(b []byte, want protowire.Number) (uint64, int, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("subscription: field %d: %v", want, protowire.ParseError(n))
	}
	if num != want || typ != protowire.VarintType || n != protowire.SizeTag(num) {
		return 0, 0, fmt.Errorf("subscription: expected varint field %d, got field %d type %d", want, num, typ)
	}

	v, m := protowire.ConsumeVarint(b[n:])
	if m < 0 {
		return 0, 0, fmt.Errorf("subscription: field %d: %v", want, protowire.ParseError(m))
	}
	if m != protowire.SizeVarint(v) {
		return 0, 0, fmt.Errorf("subscription: field %d: non-minimal varint", want)
	}
	return v, n + m, nil
}

func malformed(off int, reason string) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, off, reason)
}

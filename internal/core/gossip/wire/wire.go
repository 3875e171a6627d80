// Package wire 定义 gossip 批次的线路容器
//
// 容器只承载已编码记录的字节，不关心记录本身的结构：
//
//	message Gossip {
//	    repeated bytes nodes = 1;
//	}
//
// 每个元素是一条独立编码的 gossip 记录。
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const fieldNodes protowire.Number = 1

var (
	// ErrMalformed 容器结构无效
	ErrMalformed = errors.New("wire: malformed gossip container")

	// ErrTooManyNodes 容器中的节点数超过上限
	ErrTooManyNodes = errors.New("wire: too many nodes")
)

// Gossip 线路容器
type Gossip struct {
	// Nodes 每个元素是一条已编码的 gossip 记录，顺序即批次顺序
	Nodes [][]byte
}

// Len 返回节点数
func (g *Gossip) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// Size 返回序列化后的字节数
func (g *Gossip) Size() int {
	n := 0
	for _, node := range g.Nodes {
		n += protowire.SizeTag(fieldNodes) + protowire.SizeBytes(len(node))
	}
	return n
}

// Marshal 序列化容器
func (g *Gossip) Marshal() []byte {
	b := make([]byte, 0, g.Size())
	for _, node := range g.Nodes {
		b = protowire.AppendTag(b, fieldNodes, protowire.BytesType)
		b = protowire.AppendBytes(b, node)
	}
	return b
}

// Unmarshal 解析容器
//
// maxNodes > 0 时，节点数超过 maxNodes 立即返回 ErrTooManyNodes，
// 不再继续解析。返回的节点字节是 b 的独立副本。
func Unmarshal(b []byte, maxNodes int) (*Gossip, error) {
	g := &Gossip{}
	for off := 0; off < len(b); {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 {
			return nil, fmt.Errorf("%w: offset %d: %v", ErrMalformed, off, protowire.ParseError(n))
		}
		if num != fieldNodes || typ != protowire.BytesType {
			return nil, fmt.Errorf("%w: offset %d: unexpected field %d type %d", ErrMalformed, off, num, typ)
		}
		off += n

		v, m := protowire.ConsumeBytes(b[off:])
		if m < 0 {
			return nil, fmt.Errorf("%w: offset %d: %v", ErrMalformed, off, protowire.ParseError(m))
		}
		off += m

		if maxNodes > 0 && len(g.Nodes) >= maxNodes {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyNodes, maxNodes)
		}
		node := make([]byte, len(v))
		copy(node, v)
		g.Nodes = append(g.Nodes, node)
	}
	return g, nil
}

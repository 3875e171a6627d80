package multiaddr

// Protocol 描述一个 multiaddr 协议
type Protocol struct {
	// Name 协议名称（如 "ip4", "tcp"）
	Name string

	// Code 协议代码
	Code int

	// VCode 预计算的 varint 编码
	VCode []byte

	// Size 协议数据大小（位）
	// 0 表示无数据
	// -1 表示变长（length-prefixed）
	Size int

	// Transcoder 编解码器
	Transcoder Transcoder
}

// String 返回协议名称
func (p Protocol) String() string {
	return p.Name
}

// LengthPrefixedVarSize 表示变长数据（使用 varint 前缀）
const LengthPrefixedVarSize = -1

// 协议代码常量（与 multiformats/multicodec 对齐）
// 参考：https://github.com/multiformats/multicodec/blob/master/table.csv
const (
	P_IP4     = 0x0004
	P_TCP     = 0x0006
	P_UDP     = 0x0111
	P_IP6     = 0x0029
	P_DNS     = 0x0035
	P_DNS4    = 0x0036
	P_DNS6    = 0x0037
	P_QUIC_V1 = 0x01CD
)

var (
	protoIP4 = Protocol{
		Name:       "ip4",
		Code:       P_IP4,
		VCode:      codeToVarint(P_IP4),
		Size:       32,
		Transcoder: TranscoderIP4,
	}

	protoTCP = Protocol{
		Name:       "tcp",
		Code:       P_TCP,
		VCode:      codeToVarint(P_TCP),
		Size:       16,
		Transcoder: TranscoderPort,
	}

	protoUDP = Protocol{
		Name:       "udp",
		Code:       P_UDP,
		VCode:      codeToVarint(P_UDP),
		Size:       16,
		Transcoder: TranscoderPort,
	}

	protoIP6 = Protocol{
		Name:       "ip6",
		Code:       P_IP6,
		VCode:      codeToVarint(P_IP6),
		Size:       128,
		Transcoder: TranscoderIP6,
	}

	protoDNS = Protocol{
		Name:       "dns",
		Code:       P_DNS,
		VCode:      codeToVarint(P_DNS),
		Size:       LengthPrefixedVarSize,
		Transcoder: TranscoderDNS,
	}

	protoDNS4 = Protocol{
		Name:       "dns4",
		Code:       P_DNS4,
		VCode:      codeToVarint(P_DNS4),
		Size:       LengthPrefixedVarSize,
		Transcoder: TranscoderDNS,
	}

	protoDNS6 = Protocol{
		Name:       "dns6",
		Code:       P_DNS6,
		VCode:      codeToVarint(P_DNS6),
		Size:       LengthPrefixedVarSize,
		Transcoder: TranscoderDNS,
	}

	protoQUIC_V1 = Protocol{
		Name:  "quic-v1",
		Code:  P_QUIC_V1,
		VCode: codeToVarint(P_QUIC_V1),
		Size:  0,
	}
)

// protocols 协议注册表（按代码索引）
var protocols = map[int]Protocol{
	P_IP4:     protoIP4,
	P_TCP:     protoTCP,
	P_UDP:     protoUDP,
	P_IP6:     protoIP6,
	P_DNS:     protoDNS,
	P_DNS4:    protoDNS4,
	P_DNS6:    protoDNS6,
	P_QUIC_V1: protoQUIC_V1,
}

// protocolsByName 协议注册表（按名称索引）
var protocolsByName = map[string]Protocol{
	"ip4":     protoIP4,
	"tcp":     protoTCP,
	"udp":     protoUDP,
	"ip6":     protoIP6,
	"dns":     protoDNS,
	"dns4":    protoDNS4,
	"dns6":    protoDNS6,
	"quic-v1": protoQUIC_V1,
}

// ProtocolWithCode 根据协议代码获取协议
// 如果协议不存在，返回零值协议（Code = 0）
func ProtocolWithCode(code int) Protocol {
	if proto, ok := protocols[code]; ok {
		return proto
	}
	return Protocol{}
}

// ProtocolWithName 根据协议名称获取协议
// 如果协议不存在，返回零值协议（Code = 0）
func ProtocolWithName(name string) Protocol {
	if proto, ok := protocolsByName[name]; ok {
		return proto
	}
	return Protocol{}
}

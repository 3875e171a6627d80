package gossip

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-gossip/internal/core/gossip/wire"
)

// ============================================================================
//                              指标
// ============================================================================

const metricsNamespace = "gossip"

// 解码错误原因标签
const (
	ReasonLimitExceeded = "limit_exceeded"
	ReasonMalformed     = "malformed"
	ReasonTrailingBytes = "trailing_bytes"
	ReasonTooManyNodes  = "too_many_nodes"
	ReasonOther         = "other"
)

// 过滤结论标签
const (
	VerdictAccepted = "accepted"
	VerdictRejected = "rejected"
)

// Metrics gossip 编解码与过滤指标
//
// nil *Metrics 的所有方法都是空操作。
type Metrics struct {
	Encoded      prometheus.Counter
	DecodeErrors *prometheus.CounterVec
	Filtered     *prometheus.CounterVec
}

// NewMetrics 创建指标并注册到 reg
//
// reg 为 nil 时指标不注册，仍可正常计数。同一注册器上重复创建时复用已注册的
// 收集器，多个实例共享计数；同名但定义冲突的指标返回错误。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	encoded, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "encoded_total",
		Help:      "Total number of gossip records encoded",
	}))
	if err != nil {
		return nil, err
	}
	decodeErrors, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "decode_errors_total",
		Help:      "Total number of rejected inbound gossip batches by reason",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}
	filtered, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "filtered_total",
		Help:      "Total number of inbound gossip records by filter verdict",
	}, []string{"verdict"}))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Encoded:      encoded,
		DecodeErrors: decodeErrors,
		Filtered:     filtered,
	}, nil
}

// register 注册收集器，已存在同一定义时返回已注册的实例
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if reg == nil {
		return c, nil
	}
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("register gossip metrics: %w", err)
}

// ObserveEncoded 记录成功编码的记录数
func (m *Metrics) ObserveEncoded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Encoded.Add(float64(n))
}

// ObserveDecodeError 按错误原因计数
func (m *Metrics) ObserveDecodeError(err error) {
	if m == nil || err == nil {
		return
	}
	m.DecodeErrors.WithLabelValues(DecodeErrorReason(err)).Inc()
}

// ObserveVerdict 记录过滤结论
func (m *Metrics) ObserveVerdict(accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.Filtered.WithLabelValues(VerdictAccepted).Inc()
		return
	}
	m.Filtered.WithLabelValues(VerdictRejected).Inc()
}

// DecodeErrorReason 将解码错误映射为指标标签
func DecodeErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrLimitExceeded):
		return ReasonLimitExceeded
	case errors.Is(err, ErrMalformed), errors.Is(err, wire.ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, ErrTrailingBytes):
		return ReasonTrailingBytes
	case errors.Is(err, wire.ErrTooManyNodes):
		return ReasonTooManyNodes
	default:
		return ReasonOther
	}
}

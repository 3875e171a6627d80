package gossip

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossip/config"
	"github.com/dep2p/go-gossip/internal/core/gossip/wire"
	"github.com/dep2p/go-gossip/pkg/types"
)

// fakeTopology 记录交付的节点画像
type fakeTopology struct {
	outbound []types.NodeProfile
	accepted [][]types.NodeProfile
}

func (f *fakeTopology) Gossips() []types.NodeProfile {
	return f.outbound
}

func (f *fakeTopology) Accept(profiles []types.NodeProfile) {
	f.accepted = append(f.accepted, profiles)
}

func mixedGossips(t *testing.T) (public, private, loopback, absent Gossip) {
	public = FromProfile(types.NodeProfile{ID: types.RandomNodeID(), Addr: ma(t, "/ip4/93.184.216.34/tcp/3000")})
	private = FromProfile(types.NodeProfile{ID: types.RandomNodeID(), Addr: ma(t, "/ip4/192.168.1.10/tcp/3000")})
	loopback = FromProfile(types.NodeProfile{ID: types.RandomNodeID(), Addr: ma(t, "/ip6/::1/tcp/3000")})
	absent = FromProfile(types.NodeProfile{ID: types.RandomNodeID()})
	return
}

func newTestFilter(t *testing.T, cfg *config.GossipConfig) (*Filter, *Metrics) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	f, err := NewFilter(NewCodec(), cfg, m)
	require.NoError(t, err)
	return f, m
}

// ============================================================================
//                              Select
// ============================================================================

func TestFilter_SelectGlobalOnly(t *testing.T) {
	f, m := newTestFilter(t, nil)
	public, private, loopback, absent := mixedGossips(t)

	got := f.Select(NewGossips(private, public, loopback, absent, public))
	require.Equal(t, 2, got.Len())
	assert.True(t, got.Records()[0].Equal(public))
	assert.True(t, got.Records()[1].Equal(public))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictAccepted)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictRejected)))
}

func TestFilter_SelectAllowPrivate(t *testing.T) {
	cfg := config.DefaultGossipConfig().WithAllowPrivateAddresses(true)
	f, _ := newTestFilter(t, cfg)
	public, private, loopback, absent := mixedGossips(t)

	got := f.Select(NewGossips(public, private, loopback, absent))
	require.Equal(t, 3, got.Len())
	assert.True(t, got.Records()[0].Equal(public))
	assert.True(t, got.Records()[1].Equal(private))
	assert.True(t, got.Records()[2].Equal(loopback))
}

// ============================================================================
//                              入站
// ============================================================================

func TestFilter_Inbound(t *testing.T) {
	f, _ := newTestFilter(t, nil)
	public, private, _, _ := mixedGossips(t)

	w, err := NewGossips(public, private).ToWire(f.Codec())
	require.NoError(t, err)

	got, err := f.Inbound(w)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.True(t, got.Records()[0].Equal(public))
}

func TestFilter_InboundDropsWholeBatch(t *testing.T) {
	f, m := newTestFilter(t, nil)
	public, _, _, _ := mixedGossips(t)

	good, err := f.Codec().Encode(public)
	require.NoError(t, err)

	got, err := f.Inbound(&wire.Gossip{Nodes: [][]byte{good, append(append([]byte{}, good...), 0x00)}})
	assert.ErrorIs(t, err, ErrTrailingBytes)
	assert.Zero(t, got.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues(ReasonTrailingBytes)))
	// 批次被丢弃时不做逐条筛选
	assert.Zero(t, testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictAccepted)))
}

func TestFilter_InboundTooManyNodes(t *testing.T) {
	cfg := config.DefaultGossipConfig()
	cfg.MaxGossipNodes = 2
	f, m := newTestFilter(t, cfg)
	public, _, _, _ := mixedGossips(t)

	w, err := NewGossips(public, public, public).ToWire(f.Codec())
	require.NoError(t, err)

	_, err = f.Inbound(w)
	assert.ErrorIs(t, err, wire.ErrTooManyNodes)

	_, err = f.InboundBytes(w.Marshal())
	assert.ErrorIs(t, err, wire.ErrTooManyNodes)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues(ReasonTooManyNodes)))
}

func TestFilter_InboundBytes(t *testing.T) {
	f, m := newTestFilter(t, nil)
	public, private, _, _ := mixedGossips(t)

	w, err := NewGossips(private, public).ToWire(f.Codec())
	require.NoError(t, err)

	got, err := f.InboundBytes(w.Marshal())
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.True(t, got.Records()[0].Equal(public))

	_, err = f.InboundBytes([]byte{0x0a, 0x05})
	assert.ErrorIs(t, err, wire.ErrMalformed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues(ReasonMalformed)))
}

func TestFilter_Deliver(t *testing.T) {
	f, _ := newTestFilter(t, nil)
	public, private, _, absent := mixedGossips(t)
	topo := &fakeTopology{}

	w, err := NewGossips(public, private, absent).ToWire(f.Codec())
	require.NoError(t, err)

	n, err := f.Deliver(topo, w)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, topo.accepted, 1)
	require.Len(t, topo.accepted[0], 1)
	assert.Equal(t, public.ID(), topo.accepted[0][0].ID)

	// 全部被过滤时不调用 Accept
	w, err = NewGossips(private).ToWire(f.Codec())
	require.NoError(t, err)
	n, err = f.Deliver(topo, w)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, topo.accepted, 1)
}

// ============================================================================
//                              出站
// ============================================================================

func TestFilter_Outbound(t *testing.T) {
	f, m := newTestFilter(t, nil)
	public, private, _, absent := mixedGossips(t)
	topo := &fakeTopology{outbound: []types.NodeProfile{public.Profile(), private.Profile(), absent.Profile()}}

	w, err := f.Outbound(topo)
	require.NoError(t, err)
	require.Equal(t, 3, w.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Encoded))

	back, err := GossipsFromWire(f.Codec(), w)
	require.NoError(t, err)
	for i, p := range topo.outbound {
		assert.True(t, p.Equal(back.Profiles()[i]))
	}
}

func TestFilter_OutboundTooLarge(t *testing.T) {
	f, m := newTestFilter(t, nil)
	topo := &fakeTopology{outbound: []types.NodeProfile{
		testRecord(t, 1).Profile(),
		testRecord(t, 100).Profile(),
	}}

	w, err := f.Outbound(topo)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, testutil.ToFloat64(m.Encoded))
}

func TestFilter_NilMetrics(t *testing.T) {
	f, err := NewFilter(nil, nil, nil)
	require.NoError(t, err)
	public, _, _, _ := mixedGossips(t)

	assert.Equal(t, MaxGossipSize, f.Codec().Limit())

	w, err := f.Outbound(&fakeTopology{outbound: []types.NodeProfile{public.Profile()}})
	require.NoError(t, err)

	got, err := f.Inbound(w)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	_, err = f.Inbound(&wire.Gossip{Nodes: [][]byte{{0x00}}})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFilter_InvalidConfig(t *testing.T) {
	cfg := config.DefaultGossipConfig()
	cfg.RecordSizeLimit = 1 << 20

	f, err := NewFilter(nil, cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, f)

	cfg = config.DefaultGossipConfig()
	cfg.MaxGossipNodes = 0
	_, err = NewFilter(NewCodec(), cfg, nil)
	assert.Error(t, err)
}

func TestFilter_ConcurrentSelect(t *testing.T) {
	f, m := newTestFilter(t, nil)
	public, private, loopback, absent := mixedGossips(t)
	batch := NewGossips(public, private, loopback, absent)

	const workers, rounds = 8, 100
	var wg sync.WaitGroup
	var mismatches atomic.Int64
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				got := f.Select(batch)
				if got.Len() != 1 || !got.Records()[0].Equal(public) {
					mismatches.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, mismatches.Load())
	assert.Equal(t, float64(workers*rounds), testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictAccepted)))
	assert.Equal(t, float64(3*workers*rounds), testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictRejected)))
}

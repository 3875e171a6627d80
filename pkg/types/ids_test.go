package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNodeID 生成确定性的 NodeID
func testNodeID(seed byte) NodeID {
	var id NodeID
	for i := 0; i < NodeIDLen; i++ {
		id[i] = byte((int(seed)*17 + i*31) % 256)
	}
	return id
}

func TestNodeID_StringRoundTrip(t *testing.T) {
	id := testNodeID(7)

	s := id.String()
	require.NotEmpty(t, s)

	parsed, err := ParseNodeID(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(id))
}

func TestNodeID_ShortString(t *testing.T) {
	id := testNodeID(1)
	assert.Len(t, id.ShortString(), 8)
	assert.Equal(t, id.String()[:8], id.ShortString())
	assert.Empty(t, EmptyNodeID.ShortString())
}

func TestNodeID_IsEmpty(t *testing.T) {
	assert.True(t, EmptyNodeID.IsEmpty())
	assert.Empty(t, EmptyNodeID.String())
	assert.False(t, testNodeID(1).IsEmpty())
}

func TestParseNodeID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base58", "0OIl"},
		{"too short", "3mJr7AoUXx2Wqd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNodeID(tt.input)
			assert.ErrorIs(t, err, ErrInvalidNodeID)
		})
	}
}

func TestNodeIDFromBytes(t *testing.T) {
	id := testNodeID(3)

	got, err := NodeIDFromBytes(id.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = NodeIDFromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidNodeID)
}

func TestRandomNodeID(t *testing.T) {
	a, b := RandomNodeID(), RandomNodeID()
	assert.False(t, a.IsEmpty())
	assert.NotEqual(t, a, b)
}

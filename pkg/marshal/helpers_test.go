package marshal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sliderstack/sliderstack/pkg/wire"
)

func ptr[T any](v T) *T { return &v }

// overTheWire encodes in to bytes and decodes a fresh envelope from them.
func overTheWire[T any, P interface {
	*T
	wire.Message
}](t *testing.T, in P) P {
	t.Helper()
	b, err := in.Marshal()
	require.NoError(t, err)
	out := P(new(T))
	require.NoError(t, out.Unmarshal(b))
	return out
}

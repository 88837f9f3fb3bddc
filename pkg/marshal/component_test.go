package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

func fullComponent() *types.ComponentStatus {
	return &types.ComponentStatus{
		Name: "worker", Priority: 2, PlacementPolicy: 4,
		Actual: 3, Completed: 1, Desired: 4, Failed: 2, Releasing: 1,
		Requested: 1, Started: 3, StartFailed: 1, TotalRequested: 6,
		NodeFailed: 1, Preempted: 2, FailedRecently: 1,
		FailureMessage: ptr("container exited with 137"),
		Containers:     []string{"container_03", "container_01", "container_02"},
	}
}

func TestComponent_FullRoundTrip(t *testing.T) {
	in := fullComponent()
	assert.Equal(t, in, UnmarshalComponent(overTheWire(t, MarshalComponent(in))))
}

func TestComponent_AbsentFailureMessage(t *testing.T) {
	in := fullComponent()
	in.FailureMessage = nil

	w := MarshalComponent(in)
	assert.False(t, w.HasFailureMessage(), "absent message must not be written")

	decoded := overTheWire(t, w)
	assert.False(t, decoded.HasFailureMessage())

	out := UnmarshalComponent(decoded)
	assert.Nil(t, out.FailureMessage, "absent message must not default to an empty string")

	again := overTheWire(t, MarshalComponent(out))
	assert.False(t, again.HasFailureMessage())
}

func TestComponent_EmptyFailureMessageIsPresent(t *testing.T) {
	in := fullComponent()
	in.FailureMessage = ptr("")

	out := UnmarshalComponent(overTheWire(t, MarshalComponent(in)))
	require.NotNil(t, out.FailureMessage)
	assert.Equal(t, "", *out.FailureMessage)
}

func TestComponent_ContainerListAbsentVersusEmpty(t *testing.T) {
	in := fullComponent()

	in.Containers = nil
	w := MarshalComponent(in)
	assert.Nil(t, w.Containers, "absent list must not be written")
	out := UnmarshalComponent(overTheWire(t, w))
	assert.NotNil(t, out.Containers)
	assert.Empty(t, out.Containers)

	in.Containers = []string{}
	w = MarshalComponent(in)
	assert.NotNil(t, w.Containers)
	assert.Empty(t, w.Containers)
	out = UnmarshalComponent(overTheWire(t, w))
	assert.NotNil(t, out.Containers)
	assert.Empty(t, out.Containers)
}

func TestComponent_CountersAlwaysWritten(t *testing.T) {
	w := MarshalComponent(&types.ComponentStatus{Name: "idle"})
	b, err := w.Marshal()
	require.NoError(t, err)

	// name, then fourteen zero varints: twelve with one-byte tags and
	// nodeFailed/preempted whose field numbers need two-byte tags
	assert.Len(t, b, 2+len("idle")+12*2+2*3)
}

func TestComponent_NoAliasing(t *testing.T) {
	in := fullComponent()
	w := MarshalComponent(in)

	*w.FailureMessage = "changed"
	w.Containers[0] = "changed"

	assert.Equal(t, "container exited with 137", *in.FailureMessage)
	assert.Equal(t, "container_03", in.Containers[0])
}

func TestComponent_NilEnvelope(t *testing.T) {
	out := UnmarshalComponent(nil)
	assert.Nil(t, out.FailureMessage)
	assert.NotNil(t, out.Containers)
}

func TestComponents_Listing(t *testing.T) {
	in := []types.ComponentStatus{*fullComponent(), {Name: "master", Desired: 1}}
	out := UnmarshalComponents(overTheWire(t, MarshalComponents(in)))

	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, "master", out[1].Name)
	assert.Nil(t, out[1].FailureMessage)
	assert.Empty(t, out[1].Containers)

	assert.NotNil(t, UnmarshalComponents(nil))
	assert.NotNil(t, UnmarshalComponents(&wire.ListComponentsResponse{}))
}

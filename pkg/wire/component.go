package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	componentName            protowire.Number = 1
	componentPriority        protowire.Number = 2
	componentPlacementPolicy protowire.Number = 3
	componentDesired         protowire.Number = 4
	componentActual          protowire.Number = 5
	componentReleasing       protowire.Number = 6
	componentRequested       protowire.Number = 7
	componentFailed          protowire.Number = 8
	componentStarted         protowire.Number = 9
	componentStartFailed     protowire.Number = 10
	componentCompleted       protowire.Number = 11
	componentTotalRequested  protowire.Number = 12
	componentFailureMessage  protowire.Number = 13
	componentContainers      protowire.Number = 14
	componentFailedRecently  protowire.Number = 15
	componentNodeFailed      protowire.Number = 16
	componentPreempted       protowire.Number = 17
)

// ComponentInfo is the wire form of a component status. FailureMessage is the
// only optional field.
type ComponentInfo struct {
	Name            string
	Priority        int32
	PlacementPolicy int32
	Desired         int32
	Actual          int32
	Releasing       int32
	Requested       int32
	Failed          int32
	Started         int32
	StartFailed     int32
	Completed       int32
	TotalRequested  int32
	FailureMessage  *string
	Containers      []string
	FailedRecently  int32
	NodeFailed      int32
	Preempted       int32
}

func (m *ComponentInfo) HasFailureMessage() bool { return m != nil && m.FailureMessage != nil }

func (m *ComponentInfo) GetFailureMessage() string {
	if m == nil {
		return ""
	}
	return getOr(m.FailureMessage)
}

// int32Fields pairs every required int32 field with its number for decoding.
func (m *ComponentInfo) int32Fields() []struct {
	num protowire.Number
	v   *int32
} {
	return []struct {
		num protowire.Number
		v   *int32
	}{
		{componentPriority, &m.Priority},
		{componentPlacementPolicy, &m.PlacementPolicy},
		{componentDesired, &m.Desired},
		{componentActual, &m.Actual},
		{componentReleasing, &m.Releasing},
		{componentRequested, &m.Requested},
		{componentFailed, &m.Failed},
		{componentStarted, &m.Started},
		{componentStartFailed, &m.StartFailed},
		{componentCompleted, &m.Completed},
		{componentTotalRequested, &m.TotalRequested},
		{componentFailedRecently, &m.FailedRecently},
		{componentNodeFailed, &m.NodeFailed},
		{componentPreempted, &m.Preempted},
	}
}

func (m *ComponentInfo) Marshal() ([]byte, error) {
	b := appendString(nil, componentName, m.Name)
	b = appendInt32(b, componentPriority, m.Priority)
	b = appendInt32(b, componentPlacementPolicy, m.PlacementPolicy)
	b = appendInt32(b, componentDesired, m.Desired)
	b = appendInt32(b, componentActual, m.Actual)
	b = appendInt32(b, componentReleasing, m.Releasing)
	b = appendInt32(b, componentRequested, m.Requested)
	b = appendInt32(b, componentFailed, m.Failed)
	b = appendInt32(b, componentStarted, m.Started)
	b = appendInt32(b, componentStartFailed, m.StartFailed)
	b = appendInt32(b, componentCompleted, m.Completed)
	b = appendInt32(b, componentTotalRequested, m.TotalRequested)
	if m.FailureMessage != nil {
		b = appendString(b, componentFailureMessage, *m.FailureMessage)
	}
	for _, c := range m.Containers {
		b = appendString(b, componentContainers, c)
	}
	b = appendInt32(b, componentFailedRecently, m.FailedRecently)
	b = appendInt32(b, componentNodeFailed, m.NodeFailed)
	b = appendInt32(b, componentPreempted, m.Preempted)
	return b, nil
}

func (m *ComponentInfo) Unmarshal(b []byte) error {
	*m = ComponentInfo{}
	counters := make(map[protowire.Number]*int32)
	for _, f := range m.int32Fields() {
		counters[f.num] = f.v
	}
	return walk("ComponentInfo", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if v, ok := counters[num]; ok {
			return consumeInt32(typ, b, v)
		}
		switch num {
		case componentName:
			return consumeString(typ, b, &m.Name)
		case componentFailureMessage:
			return consumeString(typ, b, set(&m.FailureMessage))
		case componentContainers:
			return consumeStrings(typ, b, &m.Containers)
		}
		return 0, nil
	})
}

const listComponentsComponents protowire.Number = 1

// ListComponentsResponse carries every known component.
type ListComponentsResponse struct {
	Components []*ComponentInfo
}

func (m *ListComponentsResponse) Marshal() ([]byte, error) {
	var b []byte
	var err error
	for _, c := range m.Components {
		if b, err = appendMessage(b, listComponentsComponents, c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *ListComponentsResponse) Unmarshal(b []byte) error {
	*m = ListComponentsResponse{}
	return walk("ListComponentsResponse", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != listComponentsComponents {
			return 0, nil
		}
		c := &ComponentInfo{}
		n, err := consumeMessage(typ, b, c)
		if err != nil {
			return 0, err
		}
		m.Components = append(m.Components, c)
		return n, nil
	})
}

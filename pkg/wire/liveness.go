package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	livenessAllRequestsSatisfied protowire.Number = 1
	livenessRequestsOutstanding  protowire.Number = 2
)

// LivenessInfo is the wire form of the application liveness report.
// Both fields are required.
type LivenessInfo struct {
	AllRequestsSatisfied bool
	RequestsOutstanding  int32
}

func (m *LivenessInfo) Marshal() ([]byte, error) {
	var b []byte
	b = appendBool(b, livenessAllRequestsSatisfied, m.AllRequestsSatisfied)
	b = appendInt32(b, livenessRequestsOutstanding, m.RequestsOutstanding)
	return b, nil
}

func (m *LivenessInfo) Unmarshal(b []byte) error {
	*m = LivenessInfo{}
	return walk("LivenessInfo", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case livenessAllRequestsSatisfied:
			return consumeBool(typ, b, &m.AllRequestsSatisfied)
		case livenessRequestsOutstanding:
			return consumeInt32(typ, b, &m.RequestsOutstanding)
		}
		return 0, nil
	})
}

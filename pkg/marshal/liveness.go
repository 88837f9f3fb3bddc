package marshal

import (
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

// MarshalLiveness converts a liveness report to its envelope.
func MarshalLiveness(info *types.LivenessStatus) *wire.LivenessInfo {
	return &wire.LivenessInfo{
		AllRequestsSatisfied: info.AllRequestsSatisfied,
		RequestsOutstanding:  info.RequestsOutstanding,
	}
}

// UnmarshalLiveness converts an envelope to a liveness report. A nil envelope
// reads as all zero values.
func UnmarshalLiveness(w *wire.LivenessInfo) *types.LivenessStatus {
	if w == nil {
		w = &wire.LivenessInfo{}
	}
	return &types.LivenessStatus{
		AllRequestsSatisfied: w.AllRequestsSatisfied,
		RequestsOutstanding:  w.RequestsOutstanding,
	}
}

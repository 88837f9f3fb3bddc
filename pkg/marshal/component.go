package marshal

import (
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

// MarshalComponent converts a component status to its envelope. Counters are
// always written; FailureMessage and Containers only when set.
func MarshalComponent(info *types.ComponentStatus) *wire.ComponentInfo {
	return &wire.ComponentInfo{
		Name:            info.Name,
		Priority:        info.Priority,
		PlacementPolicy: info.PlacementPolicy,
		Actual:          info.Actual,
		Completed:       info.Completed,
		Desired:         info.Desired,
		Failed:          info.Failed,
		Releasing:       info.Releasing,
		Requested:       info.Requested,
		Started:         info.Started,
		StartFailed:     info.StartFailed,
		TotalRequested:  info.TotalRequested,
		NodeFailed:      info.NodeFailed,
		Preempted:       info.Preempted,
		FailedRecently:  info.FailedRecently,
		FailureMessage:  clone(info.FailureMessage),
		Containers:      writeList(info.Containers),
	}
}

// UnmarshalComponent converts an envelope to a component status.
func UnmarshalComponent(w *wire.ComponentInfo) *types.ComponentStatus {
	if w == nil {
		w = &wire.ComponentInfo{}
	}
	return &types.ComponentStatus{
		Name:            w.Name,
		Priority:        w.Priority,
		PlacementPolicy: w.PlacementPolicy,
		Actual:          w.Actual,
		Completed:       w.Completed,
		Desired:         w.Desired,
		Failed:          w.Failed,
		Releasing:       w.Releasing,
		Requested:       w.Requested,
		Started:         w.Started,
		StartFailed:     w.StartFailed,
		TotalRequested:  w.TotalRequested,
		NodeFailed:      w.NodeFailed,
		Preempted:       w.Preempted,
		FailedRecently:  w.FailedRecently,
		FailureMessage:  present(w.HasFailureMessage(), w.GetFailureMessage()),
		Containers:      readList(w.Containers),
	}
}

// MarshalComponents converts a component listing.
func MarshalComponents(infos []types.ComponentStatus) *wire.ListComponentsResponse {
	resp := &wire.ListComponentsResponse{Components: make([]*wire.ComponentInfo, 0, len(infos))}
	for i := range infos {
		resp.Components = append(resp.Components, MarshalComponent(&infos[i]))
	}
	return resp
}

// UnmarshalComponents converts a component listing. The result is never nil.
func UnmarshalComponents(w *wire.ListComponentsResponse) []types.ComponentStatus {
	if w == nil {
		return []types.ComponentStatus{}
	}
	out := make([]types.ComponentStatus, 0, len(w.Components))
	for _, c := range w.Components {
		out = append(out, *UnmarshalComponent(c))
	}
	return out
}

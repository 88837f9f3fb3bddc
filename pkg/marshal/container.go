package marshal

import (
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

// MarshalContainer converts a container status to its envelope. Host and
// HostURL go to their own optional wire fields.
func MarshalContainer(info *types.ContainerStatus) *wire.ContainerInfo {
	return &wire.ContainerInfo{
		ContainerId: info.ContainerID,
		Component:   info.Component,
		AppVersion:  info.AppVersion,
		CreateTime:  info.CreateTime,
		StartTime:   info.StartTime,
		State:       info.State,
		Released:    clone(info.Released),
		ExitCode:    clone(info.ExitCode),
		Diagnostics: clone(info.Diagnostics),
		Host:        clone(info.Host),
		HostURL:     clone(info.HostURL),
		Placement:   clone(info.Placement),
		Output:      writeList(info.Output),
	}
}

// UnmarshalContainer converts an envelope to a container status.
//
// The domain host may come from either optional wire field. When both are
// present hostURL wins over host. HostURL mirrors the wire hostURL as is.
func UnmarshalContainer(w *wire.ContainerInfo) *types.ContainerStatus {
	if w == nil {
		w = &wire.ContainerInfo{}
	}
	info := &types.ContainerStatus{
		ContainerID: w.ContainerId,
		Component:   w.Component,
		AppVersion:  w.AppVersion,
		CreateTime:  w.CreateTime,
		StartTime:   w.StartTime,
		State:       w.State,
		Released:    present(w.HasReleased(), w.GetReleased()),
		ExitCode:    present(w.HasExitCode(), w.GetExitCode()),
		Diagnostics: present(w.HasDiagnostics(), w.GetDiagnostics()),
		HostURL:     present(w.HasHostURL(), w.GetHostURL()),
		Placement:   present(w.HasPlacement(), w.GetPlacement()),
		Output:      readList(w.Output),
	}
	switch {
	case w.HasHostURL():
		info.Host = present(true, w.GetHostURL())
	case w.HasHost():
		info.Host = present(true, w.GetHost())
	}
	return info
}

// MarshalLiveContainers converts the live container listing.
func MarshalLiveContainers(infos []types.ContainerStatus) *wire.GetLiveContainersResponse {
	resp := &wire.GetLiveContainersResponse{Containers: make([]*wire.ContainerInfo, 0, len(infos))}
	for i := range infos {
		resp.Containers = append(resp.Containers, MarshalContainer(&infos[i]))
	}
	return resp
}

// UnmarshalLiveContainers converts the live container listing, preserving
// wire order. The result is never nil.
func UnmarshalLiveContainers(w *wire.GetLiveContainersResponse) []types.ContainerStatus {
	if w == nil {
		return []types.ContainerStatus{}
	}
	out := make([]types.ContainerStatus, 0, len(w.Containers))
	for _, c := range w.Containers {
		out = append(out, *UnmarshalContainer(c))
	}
	return out
}

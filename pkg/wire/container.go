package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	containerID          protowire.Number = 1
	containerComponent   protowire.Number = 2
	containerReleased    protowire.Number = 3
	containerState       protowire.Number = 4
	containerExitCode    protowire.Number = 5
	containerDiagnostics protowire.Number = 6
	containerCreateTime  protowire.Number = 7
	containerStartTime   protowire.Number = 8
	containerOutput      protowire.Number = 9
	containerHost        protowire.Number = 10
	containerHostURL     protowire.Number = 11
	containerPlacement   protowire.Number = 12
	containerAppVersion  protowire.Number = 13
)

// ContainerInfo is the wire form of a container status.
//
// Host and HostURL are independent optional fields that both describe where
// the container runs; readers decide which one to trust.
type ContainerInfo struct {
	ContainerId string
	Component   string
	Released    *bool
	State       int32
	ExitCode    *int32
	Diagnostics *string
	CreateTime  int64
	StartTime   int64
	Output      []string
	Host        *string
	HostURL     *string
	Placement   *string
	AppVersion  string
}

func (m *ContainerInfo) HasReleased() bool    { return m != nil && m.Released != nil }
func (m *ContainerInfo) HasExitCode() bool    { return m != nil && m.ExitCode != nil }
func (m *ContainerInfo) HasDiagnostics() bool { return m != nil && m.Diagnostics != nil }
func (m *ContainerInfo) HasHost() bool        { return m != nil && m.Host != nil }
func (m *ContainerInfo) HasHostURL() bool     { return m != nil && m.HostURL != nil }
func (m *ContainerInfo) HasPlacement() bool   { return m != nil && m.Placement != nil }

func (m *ContainerInfo) GetReleased() bool {
	if m == nil {
		return false
	}
	return getOr(m.Released)
}

func (m *ContainerInfo) GetExitCode() int32 {
	if m == nil {
		return 0
	}
	return getOr(m.ExitCode)
}

func (m *ContainerInfo) GetDiagnostics() string {
	if m == nil {
		return ""
	}
	return getOr(m.Diagnostics)
}

func (m *ContainerInfo) GetHost() string {
	if m == nil {
		return ""
	}
	return getOr(m.Host)
}

func (m *ContainerInfo) GetHostURL() string {
	if m == nil {
		return ""
	}
	return getOr(m.HostURL)
}

func (m *ContainerInfo) GetPlacement() string {
	if m == nil {
		return ""
	}
	return getOr(m.Placement)
}

func (m *ContainerInfo) Marshal() ([]byte, error) {
	b := appendString(nil, containerID, m.ContainerId)
	b = appendString(b, containerComponent, m.Component)
	if m.Released != nil {
		b = appendBool(b, containerReleased, *m.Released)
	}
	b = appendInt32(b, containerState, m.State)
	if m.ExitCode != nil {
		b = appendInt32(b, containerExitCode, *m.ExitCode)
	}
	if m.Diagnostics != nil {
		b = appendString(b, containerDiagnostics, *m.Diagnostics)
	}
	b = appendInt64(b, containerCreateTime, m.CreateTime)
	b = appendInt64(b, containerStartTime, m.StartTime)
	for _, line := range m.Output {
		b = appendString(b, containerOutput, line)
	}
	if m.Host != nil {
		b = appendString(b, containerHost, *m.Host)
	}
	if m.HostURL != nil {
		b = appendString(b, containerHostURL, *m.HostURL)
	}
	if m.Placement != nil {
		b = appendString(b, containerPlacement, *m.Placement)
	}
	b = appendString(b, containerAppVersion, m.AppVersion)
	return b, nil
}

func (m *ContainerInfo) Unmarshal(b []byte) error {
	*m = ContainerInfo{}
	return walk("ContainerInfo", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case containerID:
			return consumeString(typ, b, &m.ContainerId)
		case containerComponent:
			return consumeString(typ, b, &m.Component)
		case containerReleased:
			return consumeBool(typ, b, set(&m.Released))
		case containerState:
			return consumeInt32(typ, b, &m.State)
		case containerExitCode:
			return consumeInt32(typ, b, set(&m.ExitCode))
		case containerDiagnostics:
			return consumeString(typ, b, set(&m.Diagnostics))
		case containerCreateTime:
			return consumeInt64(typ, b, &m.CreateTime)
		case containerStartTime:
			return consumeInt64(typ, b, &m.StartTime)
		case containerOutput:
			return consumeStrings(typ, b, &m.Output)
		case containerHost:
			return consumeString(typ, b, set(&m.Host))
		case containerHostURL:
			return consumeString(typ, b, set(&m.HostURL))
		case containerPlacement:
			return consumeString(typ, b, set(&m.Placement))
		case containerAppVersion:
			return consumeString(typ, b, &m.AppVersion)
		}
		return 0, nil
	})
}

// Field 1 carried container names in older releases and is no longer written.
const liveContainersContainers protowire.Number = 2

// GetLiveContainersResponse lists the containers the application still holds.
type GetLiveContainersResponse struct {
	Containers []*ContainerInfo
}

func (m *GetLiveContainersResponse) Marshal() ([]byte, error) {
	var b []byte
	var err error
	for _, c := range m.Containers {
		if b, err = appendMessage(b, liveContainersContainers, c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *GetLiveContainersResponse) Unmarshal(b []byte) error {
	*m = GetLiveContainersResponse{}
	return walk("GetLiveContainersResponse", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != liveContainersContainers {
			return 0, nil
		}
		c := &ContainerInfo{}
		n, err := consumeMessage(typ, b, c)
		if err != nil {
			return 0, err
		}
		m.Containers = append(m.Containers, c)
		return n, nil
	})
}

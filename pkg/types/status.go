package types

// LivenessStatus reports whether the application master has satisfied all of
// its outstanding container requests.
type LivenessStatus struct {
	AllRequestsSatisfied bool  `json:"allRequestsSatisfied"`
	RequestsOutstanding  int32 `json:"requestsOutstanding"`
}

// ComponentStatus is the role-level view of one application component:
// identity, placement and the request/allocation counters.
type ComponentStatus struct {
	Name            string `json:"name"`
	Priority        int32  `json:"priority"`
	PlacementPolicy int32  `json:"placementPolicy"`

	Actual         int32 `json:"actual"`
	Completed      int32 `json:"completed"`
	Desired        int32 `json:"desired"`
	Failed         int32 `json:"failed"`
	Releasing      int32 `json:"releasing"`
	Requested      int32 `json:"requested"`
	Started        int32 `json:"started"`
	StartFailed    int32 `json:"startFailed"`
	TotalRequested int32 `json:"totalRequested"`
	NodeFailed     int32 `json:"nodeFailed"`
	Preempted      int32 `json:"preempted"`
	FailedRecently int32 `json:"failedRecently"`

	// FailureMessage is the last failure reported for the component, if any.
	FailureMessage *string `json:"failureMessage,omitempty"`

	// Containers lists the IDs of the component's containers in allocation order.
	Containers []string `json:"containers,omitempty"`
}

// ContainerStatus describes one container instance of a component.
type ContainerStatus struct {
	ContainerID string `json:"containerId"`
	Component   string `json:"component"`
	AppVersion  string `json:"appVersion"`
	CreateTime  int64  `json:"createTime"`
	StartTime   int64  `json:"startTime"`
	State       int32  `json:"state"`

	Released    *bool   `json:"released,omitempty"`
	ExitCode    *int32  `json:"exitCode,omitempty"`
	Diagnostics *string `json:"diagnostics,omitempty"`
	Host        *string `json:"host,omitempty"`
	HostURL     *string `json:"hostUrl,omitempty"`
	Placement   *string `json:"placement,omitempty"`

	// Output holds the last lines captured from the container's launch.
	Output []string `json:"output,omitempty"`
}

// IsReleased reports whether the container has been handed back to the cluster.
func (c *ContainerStatus) IsReleased() bool {
	return c.Released != nil && *c.Released
}

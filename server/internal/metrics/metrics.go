// Package metrics renders application status as a Prometheus text
// exposition for GET /metrics.
package metrics

import (
	"bytes"
	"log/slog"
	"net/http"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/server/internal/store"
)

const namespace = "slider_"

// componentCounters lists the per-component counters exported as gauges.
var componentCounters = []struct {
	name string
	help string
	get  func(*types.ComponentStatus) int32
}{
	{"desired", "Containers the component should have.", func(c *types.ComponentStatus) int32 { return c.Desired }},
	{"actual", "Containers the component has.", func(c *types.ComponentStatus) int32 { return c.Actual }},
	{"releasing", "Containers being released.", func(c *types.ComponentStatus) int32 { return c.Releasing }},
	{"requested", "Outstanding container requests.", func(c *types.ComponentStatus) int32 { return c.Requested }},
	{"failed", "Containers that failed.", func(c *types.ComponentStatus) int32 { return c.Failed }},
	{"failed_recently", "Containers that failed recently.", func(c *types.ComponentStatus) int32 { return c.FailedRecently }},
	{"node_failed", "Containers lost to node failure.", func(c *types.ComponentStatus) int32 { return c.NodeFailed }},
	{"preempted", "Containers preempted by the scheduler.", func(c *types.ComponentStatus) int32 { return c.Preempted }},
	{"started", "Containers started.", func(c *types.ComponentStatus) int32 { return c.Started }},
	{"start_failed", "Containers that failed to start.", func(c *types.ComponentStatus) int32 { return c.StartFailed }},
	{"completed", "Containers that completed.", func(c *types.ComponentStatus) int32 { return c.Completed }},
	{"total_requested", "Containers requested since the application started.", func(c *types.ComponentStatus) int32 { return c.TotalRequested }},
}

// Gather snapshots st into metric families, sorted by name.
func Gather(st *store.Store) []*dto.MetricFamily {
	l := st.Liveness()
	satisfied := 0.0
	if l.AllRequestsSatisfied {
		satisfied = 1
	}

	out := []*dto.MetricFamily{
		gauge("liveness_all_requests_satisfied", "1 when every container request is satisfied.",
			sample(satisfied)),
		gauge("liveness_requests_outstanding", "Container requests not yet satisfied.",
			sample(float64(l.RequestsOutstanding))),
		gauge("live_containers", "Containers reported live within the retention window.",
			sample(float64(len(st.Containers())))),
	}

	comps := st.Components()
	for _, cc := range componentCounters {
		ms := make([]*dto.Metric, 0, len(comps))
		for i := range comps {
			m := sample(float64(cc.get(&comps[i])))
			m.Label = []*dto.LabelPair{{Name: proto.String("component"), Value: proto.String(comps[i].Name)}}
			ms = append(ms, m)
		}
		out = append(out, gauge("component_"+cc.name, cc.help, ms...))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Handler serves the exposition of st in the Prometheus text format.
func Handler(st *store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var buf bytes.Buffer
		for _, mf := range Gather(st) {
			if len(mf.Metric) == 0 {
				continue
			}
			if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
				slog.Error("metrics: encode family", "family", mf.GetName(), "err", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		w.Write(buf.Bytes()) //nolint:errcheck
	})
}

func gauge(name, help string, ms ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: ms,
	}
}

func sample(v float64) *dto.Metric {
	return &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(v)}}
}

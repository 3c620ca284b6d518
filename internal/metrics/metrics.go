package metrics

import (
	"net/http"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Registry holds the process counters. All fields are safe for concurrent
// use; the store and handlers increment them directly.
type Registry struct {
	PinsCreated         atomic.Int64
	Polls               atomic.Int64
	Regenerations       atomic.Int64
	Submits             atomic.Int64
	Reaped              atomic.Int64
	GenerationExhausted atomic.Int64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// GaugeSnapshot is the point-in-time store state exposed alongside the
// counters. The store provides it via the callback passed to Handler so
// this package does not depend on the store.
type GaugeSnapshot struct {
	Live       int
	Filled     int
	Namespaces int
}

// Handler returns an http.Handler that writes the registry in Prometheus
// text exposition format. gauges is called once per scrape; it may be nil.
func (r *Registry) Handler(gauges func() GaugeSnapshot) http.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		families := []*dto.MetricFamily{
			counter("pinbox_pins_created_total", "Pins issued, including regenerations.", r.PinsCreated.Load()),
			counter("pinbox_polls_total", "Poll requests handled.", r.Polls.Load()),
			counter("pinbox_regenerations_total", "Polls that regenerated an unknown or expired pin.", r.Regenerations.Load()),
			counter("pinbox_submits_total", "Payload submissions accepted.", r.Submits.Load()),
			counter("pinbox_reaped_total", "Expired entries removed by the reaper.", r.Reaped.Load()),
			counter("pinbox_generation_exhausted_total", "Pin issuance attempts that ran out of retries.", r.GenerationExhausted.Load()),
		}
		if gauges != nil {
			snap := gauges()
			families = append(families,
				gauge("pinbox_pins_live", "Live entries currently in the store.", int64(snap.Live)),
				gauge("pinbox_pins_filled", "Live entries holding a payload.", int64(snap.Filled)),
				gauge("pinbox_namespaces", "Namespaces with at least one live entry.", int64(snap.Namespaces)),
			)
		}

		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return
			}
		}
	})
}

func counter(name, help string, v int64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: proto.Float64(float64(v))}},
		},
	}
}

func gauge(name, help string, v int64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: proto.Float64(float64(v))}},
		},
	}
}

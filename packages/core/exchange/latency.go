package exchange

import (
	"fmt"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

const (
	latencyMinMs   = 0
	latencyMaxMs   = 3_600_000
	latencySigFigs = 3
)

// LatencyView summarizes response durations of a selection.
type LatencyView struct {
	hist *hdrhistogram.Histogram
}

func newLatencyView(pairs []*Pair) *LatencyView {
	h := hdrhistogram.New(latencyMinMs, latencyMaxMs, latencySigFigs)
	for _, p := range pairs {
		if p.response == nil {
			continue
		}
		// Out-of-range durations are clamped so RecordValue cannot fail.
		ms := min(max(p.response.DurationMs(), latencyMinMs), latencyMaxMs)
		_ = h.RecordValue(ms)
	}
	return &LatencyView{hist: h}
}

func (l *LatencyView) Count() int64 { return l.hist.TotalCount() }

// Percentile returns the duration in milliseconds at the given percentile (0-100).
func (l *LatencyView) Percentile(p float64) int64 {
	if l.hist.TotalCount() == 0 {
		return 0
	}
	return l.hist.ValueAtQuantile(p)
}

func (l *LatencyView) Kind() value.Kind { return value.KindObject }

func (l *LatencyView) String() string {
	return fmt.Sprintf("p50=%dms p95=%dms p99=%dms", l.Percentile(50), l.Percentile(95), l.Percentile(99))
}

func (l *LatencyView) Field(name string) (value.Value, bool) {
	if name == "count" {
		return value.Int(l.hist.TotalCount()), true
	}
	if l.hist.TotalCount() == 0 {
		switch name {
		case "min", "max", "p50", "p90", "p95", "p99":
			return value.Int(0), true
		case "mean":
			return value.Float(0), true
		}
		return nil, false
	}
	switch name {
	case "min":
		return value.Int(l.hist.Min()), true
	case "max":
		return value.Int(l.hist.Max()), true
	case "mean":
		return value.Float(l.hist.Mean()), true
	case "p50":
		return value.Int(l.Percentile(50)), true
	case "p90":
		return value.Int(l.Percentile(90)), true
	case "p95":
		return value.Int(l.Percentile(95)), true
	case "p99":
		return value.Int(l.Percentile(99)), true
	}
	return nil, false
}

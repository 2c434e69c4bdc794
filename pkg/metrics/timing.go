// Package metrics records how long dt's hot paths take: flattening,
// search filtering, row derivation, moves, dataset loads and rendering.
//
// Recording is on unless DT_METRICS=0. dt --stats prints what was
// recorded when it exits, and the state inspector shows the averages.
//
//	func deriveRows() {
//	    defer metrics.Timer(metrics.DeriveRows)()
//	    // ...
//	}
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("DT_METRICS") != "0")
}

// Enabled reports whether durations are being recorded.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns recording on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// Metric accumulates the durations of one operation. Safe for concurrent
// use.
type Metric struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	max   atomic.Int64 // ns
	min   atomic.Int64 // ns, 0 until the first sample
}

// registry holds every metric in the order the table prints them.
var registry []*Metric

func register(name string) *Metric {
	m := &Metric{name: name}
	registry = append(registry, m)
	return m
}

var (
	Flatten     = register("flatten")
	Filter      = register("search_filter")
	DeriveRows  = register("derive_rows")
	MoveNodes   = register("move_nodes")
	DatasetLoad = register("dataset_load")
	UIRender    = register("ui_render")
	Snapshot    = register("snapshot_export")
)

// Timer starts timing m. Call the returned function when the operation
// ends, usually with defer.
func Timer(m *Metric) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Record adds one sample.
func (m *Metric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	for old := m.max.Load(); ns > old; old = m.max.Load() {
		if m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for old := m.min.Load(); old == 0 || ns < old; old = m.min.Load() {
		if m.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric's table name.
func (m *Metric) Name() string {
	return m.name
}

// Count returns the number of samples.
func (m *Metric) Count() int64 {
	return m.count.Load()
}

func (m *Metric) reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// Stats is a point-in-time summary of one metric, in milliseconds.
type Stats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Stats summarizes the samples recorded so far.
func (m *Metric) Stats() Stats {
	count, total := m.count.Load(), m.total.Load()
	s := Stats{
		Name:    m.name,
		Count:   count,
		TotalMs: ms(total),
		MaxMs:   ms(m.max.Load()),
		MinMs:   ms(m.min.Load()),
	}
	if count > 0 {
		s.AvgMs = ms(total / count)
	}
	return s
}

func ms(ns int64) float64 {
	return float64(ns) / float64(time.Millisecond)
}

// Recorded returns the stats of every metric that has samples.
func Recorded() []Stats {
	out := make([]Stats, 0, len(registry))
	for _, m := range registry {
		if m.Count() > 0 {
			out = append(out, m.Stats())
		}
	}
	return out
}

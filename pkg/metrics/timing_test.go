package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func resetAll(t *testing.T) {
	t.Helper()
	for _, m := range registry {
		m.reset()
	}
	t.Cleanup(func() {
		for _, m := range registry {
			m.reset()
		}
	})
}

func TestRecordTracksMinMaxAvg(t *testing.T) {
	SetEnabled(true)
	m := &Metric{name: "test"}
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)
	m.Record(6 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Fatalf("count = %d, want 3", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 6 || s.AvgMs != 4 || s.TotalMs != 12 {
		t.Errorf("stats = %+v", s)
	}

	m.reset()
	if s := m.Stats(); s.Count != 0 || s.AvgMs != 0 || s.MinMs != 0 {
		t.Errorf("reset did not clear the metric: %+v", s)
	}
}

func TestRecordConcurrent(t *testing.T) {
	SetEnabled(true)
	m := &Metric{name: "concurrent"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Record(time.Duration(i+1) * time.Microsecond)
		}(i)
	}
	wg.Wait()
	s := m.Stats()
	if s.Count != 50 {
		t.Errorf("count = %d, want 50", s.Count)
	}
	if s.MaxMs != 0.05 {
		t.Errorf("max = %vms", s.MaxMs)
	}
	if s.MinMs != 0.001 {
		t.Errorf("min = %vms", s.MinMs)
	}
}

func TestDisabledTimerRecordsNothing(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)
	m := &Metric{name: "off"}
	Timer(m)()
	m.Record(time.Second)
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d samples", m.Count())
	}
	Timer(nil)()
}

func TestTimerRecordsOneSample(t *testing.T) {
	SetEnabled(true)
	m := &Metric{name: "timer"}
	stop := Timer(m)
	time.Sleep(time.Millisecond)
	stop()
	if s := m.Stats(); s.Count != 1 || s.MaxMs < 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestWriteJSONAndTable(t *testing.T) {
	SetEnabled(true)
	resetAll(t)

	DeriveRows.Record(3 * time.Millisecond)

	var buf bytes.Buffer
	if err := WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var r Report
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !r.Enabled || len(r.Timings) != 1 || r.Timings[0].Name != "derive_rows" {
		t.Errorf("report = %+v", r)
	}

	buf.Reset()
	if err := WriteTable(&buf); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if !strings.Contains(buf.String(), "derive_rows") {
		t.Errorf("table missing metric:\n%s", buf.String())
	}

	MoveNodes.Record(time.Millisecond)
	if got := Summary(); got != "derive_rows 3.00ms\nmove_nodes 1.00ms" {
		t.Errorf("summary = %q", got)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	resetAll(t)
	var buf bytes.Buffer
	if err := WriteTable(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no timings") {
		t.Errorf("got %q", buf.String())
	}
	if Summary() != "" {
		t.Errorf("summary = %q, want empty", Summary())
	}
}

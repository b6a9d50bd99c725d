package stats

import (
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"io"
	"sort"
)

// ResultOK is the result label of an operation that left no error behind.
const ResultOK = "none"

// sampleSize is the reservoir size of the document size histogram
const sampleSize = 1028

// IRecorder receives one observation per store operation.
type IRecorder interface {
	// Observe records that op finished with result (the name of the error kind,
	// ResultOK on success). documentBytes is the size of the document written
	// by the operation, 0 if nothing was written.
	Observe(op, result string, documentBytes int)
}

// Nop returns a recorder that discards all observations
func Nop() IRecorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) Observe(string, string, int) {}

// --------------------------------------------------------------------------
// Collector
// --------------------------------------------------------------------------

// Collector is an IRecorder that keeps operation counters in a VictoriaMetrics
// set, the distribution of written document sizes in a histogram and a tally
// of failures per error kind. It is safe for concurrent use.
type Collector struct {
	prefix   string
	set      *metrics.Set
	sizes    gometrics.Histogram
	failures *xsync.MapOf[string, *xsync.Counter]
}

// NewCollector creates a collector whose metric names start with prefix.
func NewCollector(prefix string) *Collector {
	c := &Collector{
		prefix:   prefix,
		set:      metrics.NewSet(),
		sizes:    gometrics.NewHistogram(gometrics.NewUniformSample(sampleSize)),
		failures: xsync.NewMapOf[string, *xsync.Counter](),
	}

	// the histogram is exported through gauges so a single scrape carries everything
	c.set.NewGauge(prefix+"_document_bytes_max", func() float64 {
		return float64(c.sizes.Max())
	})
	c.set.NewGauge(prefix+"_document_bytes_mean", func() float64 {
		return c.sizes.Mean()
	})
	c.set.NewGauge(prefix+"_document_bytes_p95", func() float64 {
		return c.sizes.Percentile(0.95)
	})

	return c
}

// Observe implements IRecorder
func (c *Collector) Observe(op, result string, documentBytes int) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_operations_total{op=%q,result=%q}`, c.prefix, op, result)).Inc()

	if documentBytes > 0 {
		c.sizes.Update(int64(documentBytes))
	}

	if result != ResultOK {
		counter, _ := c.failures.LoadOrCompute(result, func() *xsync.Counter {
			return xsync.NewCounter()
		})
		counter.Inc()
	}
}

// WritePrometheus writes all metrics in the Prometheus text exposition format
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// Snapshot
// --------------------------------------------------------------------------

// SizeStats describes the sizes of documents written so far
type SizeStats struct {
	Count int64   `json:"count"`
	Min   int64   `json:"min"`
	Max   int64   `json:"max"`
	Mean  float64 `json:"mean"`
	P95   float64 `json:"p95"`
}

// Snapshot is a point-in-time copy of the collector state
type Snapshot struct {
	DocumentBytes SizeStats        `json:"document_bytes"`
	Failures      map[string]int64 `json:"failures"`
}

// FailureKinds returns the failure kinds of the snapshot in ascending order
func (s Snapshot) FailureKinds() []string {
	kinds := make([]string, 0, len(s.Failures))
	for k := range s.Failures {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Snapshot returns the current document size statistics and failure counts
func (c *Collector) Snapshot() Snapshot {
	h := c.sizes.Snapshot()
	snap := Snapshot{
		DocumentBytes: SizeStats{
			Count: h.Count(),
			Min:   h.Min(),
			Max:   h.Max(),
			Mean:  h.Mean(),
			P95:   h.Percentile(0.95),
		},
		Failures: make(map[string]int64),
	}
	c.failures.Range(func(kind string, counter *xsync.Counter) bool {
		snap.Failures[kind] = counter.Value()
		return true
	})
	return snap
}

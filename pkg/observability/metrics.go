package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

const (
	metricInsertsTotal   = "rbtree.inserts.total"
	metricRotationsTotal = "rbtree.rotations.total"
	metricRecolorsTotal  = "rbtree.recolors.total"
	metricHeight         = "rbtree.height"
	metricInsertDuration = "rbtree.insert.duration.seconds"

	attrCase = "case"
	attrKind = "kind"
)

// insertBucketBoundaries covers 100ns to 10ms: a single insert is a handful of
// comparisons and at most two rotations.
var insertBucketBoundaries = []float64{1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 1e-4, 1e-3, 1e-2}

// metricBuilder accumulates OTel instrument creation errors,
// enabling batch construction with a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) gauge(name, desc, unit string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return g
}

// setErr records the first instrument creation error.
func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// TreeMetrics holds the OTel instruments describing red-black tree maintenance.
type TreeMetrics struct {
	inserts        metric.Int64Counter
	rotations      metric.Int64Counter
	recolors       metric.Int64Counter
	height         metric.Int64Gauge
	insertDuration metric.Float64Histogram
}

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	b := &metricBuilder{meter: mt}

	tm := &TreeMetrics{
		inserts:   b.counter(metricInsertsTotal, "Total number of inserted values", "{insert}"),
		rotations: b.counter(metricRotationsTotal, "Restructures by fixup case", "{restructure}"),
		recolors:  b.counter(metricRecolorsTotal, "Recoloring steps by kind", "{recolor}"),
		height:    b.gauge(metricHeight, "Nodes on the longest root-to-leaf path", "{node}"),
		insertDuration: b.histogram(metricInsertDuration, "Insert duration in seconds", "s",
			insertBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return tm, nil
}

// Record publishes the fixup counters accumulated by one or more inserts,
// the resulting tree height and the time they took.
func (tm *TreeMetrics) Record(ctx context.Context, delta rbtree.Stats, height int, duration time.Duration) {
	if delta.Inserts > 0 {
		tm.inserts.Add(ctx, delta.Inserts)
		tm.insertDuration.Record(ctx, duration.Seconds()/float64(delta.Inserts))
	}

	for _, restructure := range []struct {
		name  string
		count int64
	}{
		{"left-left", delta.LeftLeft},
		{"left-right", delta.LeftRight},
		{"right-left", delta.RightLeft},
		{"right-right", delta.RightRight},
	} {
		if restructure.count > 0 {
			tm.rotations.Add(ctx, restructure.count, metric.WithAttributes(attribute.String(attrCase, restructure.name)))
		}
	}

	if delta.Recolors > 0 {
		tm.recolors.Add(ctx, delta.Recolors, metric.WithAttributes(attribute.String(attrKind, "uncle")))
	}

	if delta.RootRecolors > 0 {
		tm.recolors.Add(ctx, delta.RootRecolors, metric.WithAttributes(attribute.String(attrKind, "root")))
	}

	tm.height.Record(ctx, int64(height))
}

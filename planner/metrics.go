package planner

import (
	"github.com/squareup/rangeplan/metrics"
)

// Metrics holds the planning counters. All methods are nil safe so a scan node without
// metrics wired pays nothing; observability never becomes a control flow dependency.
type Metrics struct {
	partitionsPruned metrics.Counter
	rangesGenerated  metrics.Counter
	blocksNoLocation metrics.Counter
}

func NewMetrics(factory metrics.Factory) (*Metrics, error) {
	partitionsPruned, err := factory.CreateCounter("scan_partitions_pruned_total",
		"Number of partitions discarded by static partition pruning")
	if err != nil {
		return nil, err
	}
	rangesGenerated, err := factory.CreateCounter("scan_ranges_generated_total",
		"Number of scan ranges handed to the executor")
	if err != nil {
		return nil, err
	}
	blocksNoLocation, err := factory.CreateCounter("scan_blocks_missing_locations_total",
		"Number of blocks skipped because no replica locations were available")
	if err != nil {
		return nil, err
	}
	return &Metrics{
		partitionsPruned: partitionsPruned,
		rangesGenerated:  rangesGenerated,
		blocksNoLocation: blocksNoLocation,
	}, nil
}

func (m *Metrics) addPartitionsPruned(n int) {
	if m == nil || m.partitionsPruned == nil || n <= 0 {
		return
	}
	m.partitionsPruned.Add(float64(n))
}

func (m *Metrics) addRangesGenerated(n int) {
	if m == nil || m.rangesGenerated == nil || n <= 0 {
		return
	}
	m.rangesGenerated.Add(float64(n))
}

func (m *Metrics) incBlocksNoLocation() {
	if m == nil || m.blocksNoLocation == nil {
		return
	}
	m.blocksNoLocation.Inc()
}

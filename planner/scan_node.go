package planner

import (
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/discovery"
	"github.com/squareup/rangeplan/errors"
	"github.com/squareup/rangeplan/filter"
)

// SelectivityEstimator yields the fraction of rows expected to survive the scan's active
// predicates, used to scale the pruned row count aggregate.
type SelectivityEstimator interface {
	Selectivity() float64
}

type fullSelectivity struct{}

func (fullSelectivity) Selectivity() float64 { return 1.0 }

// PlanNode is the capability the enclosing plan tree composes scan planning through.
type PlanNode interface {
	Finalize() error

	ScanRangeLocations(maxScanRangeLength int64) ([]*ScanRangeLocations, error)

	ExplainString() string
}

type plannerState int

const (
	stateConstructed plannerState = iota
	stateFinalized
	stateRangesGenerated
)

// ScanNode plans the scan of a single table: it prunes the static partition list against the
// key filters, estimates cardinality and byte totals, and produces the scan ranges plus
// replica locations the executor will read. One instance serves exactly one planning pass:
// construct, Finalize once, then ScanRangeLocations.
type ScanNode struct {
	tbl        *catalog.Table
	keyFilters []filter.KeyFilter

	// predicate on the partition key of a dynamically partitioned table, and its foreign
	// translation recorded by Finalize
	partitionFilter     *filter.ColumnFilter
	partitionFilterExpr *filter.ForeignExpr

	resolver    *discovery.Resolver
	estimator   SelectivityEstimator
	planMetrics *Metrics

	partitions  []*catalog.Partition
	cardinality int64
	totalBytes  int64
	numNodes    int
	state       plannerState
}

var _ PlanNode = &ScanNode{}

func NewScanNode(tbl *catalog.Table, keyFilters []filter.KeyFilter) *ScanNode {
	return &ScanNode{
		tbl:         tbl,
		keyFilters:  keyFilters,
		estimator:   fullSelectivity{},
		cardinality: -1,
	}
}

// SetPartitionFilter records the predicate on a dynamically partitioned table's partition
// key column. When set, partition discovery at range generation time replaces the static
// partition list entirely.
func (s *ScanNode) SetPartitionFilter(f *filter.ColumnFilter) {
	s.partitionFilter = f
}

func (s *ScanNode) SetResolver(r *discovery.Resolver) {
	s.resolver = r
}

func (s *ScanNode) SetSelectivityEstimator(e SelectivityEstimator) {
	s.estimator = e
}

func (s *ScanNode) SetMetrics(m *Metrics) {
	s.planMetrics = m
}

// Finalize prunes partitions and computes the cardinality and byte totals. For a dynamic
// table it also translates the partition filter to its foreign form; the actual discovery
// happens later, during range generation. Must be called exactly once, before anything reads
// the node's stats or ranges.
func (s *ScanNode) Finalize() error {
	if s.state != stateConstructed {
		return errors.NewPlannerStateError(s.tbl.FullName(), "finalize called more than once")
	}
	if s.keyFilters == nil && s.tbl.PartitionCount() > 0 {
		return errors.NewPlannerStateError(s.tbl.FullName(), "key filters not set")
	}
	log.Debugf("collecting partitions for table %s", s.tbl.FullName())
	selected, cardinality, totalBytes, err := prunePartitions(s.tbl, s.keyFilters)
	if err != nil {
		return err
	}
	s.partitions = selected
	s.cardinality = cardinality
	s.totalBytes = totalBytes
	s.planMetrics.addPartitionsPruned(s.tbl.PartitionCount() - len(selected))

	if s.partitionFilter != nil {
		expr, err := filter.Translate(s.partitionFilter)
		if err != nil {
			return err
		}
		s.partitionFilterExpr = expr
	}

	if s.cardinality > 0 {
		sel := s.estimator.Selectivity()
		log.Debugf("table %s cardinality=%d selectivity=%f", s.tbl.FullName(), s.cardinality, sel)
		s.cardinality = int64(math.Round(float64(s.cardinality) * sel))
	}
	s.numNodes = s.tbl.NumNodes
	log.Debugf("finalized scan of %s: cardinality=%d #nodes=%d", s.tbl.FullName(), s.cardinality, s.numNodes)
	s.state = stateFinalized
	return nil
}

// ScanRangeLocations returns the scan ranges plus their replica locations, splitting blocks
// at maxScanRangeLength (non positive means never split). For a table with a recorded
// partition filter the files come from dynamic discovery and carry partition id 0; otherwise
// every selected partition's files are cut, carrying the partition's id.
func (s *ScanNode) ScanRangeLocations(maxScanRangeLength int64) ([]*ScanRangeLocations, error) {
	if s.state == stateConstructed {
		return nil, errors.NewPlannerStateError(s.tbl.FullName(), "scan ranges requested before finalize")
	}
	var result []*ScanRangeLocations
	if s.partitionFilterExpr != nil {
		if s.resolver == nil {
			return nil, errors.NewPartitionDiscoveryError(s.tbl.SchemaName, s.tbl.Name,
				"no partition discovery service configured")
		}
		files, err := s.resolver.Resolve(s.tbl, s.partitionFilterExpr)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			result = appendFileRanges(result, file, 0, maxScanRangeLength, s.planMetrics)
		}
	} else {
		for _, partition := range s.partitions {
			for _, file := range partition.Files {
				result = appendFileRanges(result, file, partition.ID, maxScanRangeLength, s.planMetrics)
			}
		}
	}
	s.planMetrics.addRangesGenerated(len(result))
	s.state = stateRangesGenerated
	return result, nil
}

// Cardinality is the estimated row count after pruning and selectivity scaling, -1 when
// unknown. Only valid after Finalize.
func (s *ScanNode) Cardinality() int64 {
	return s.cardinality
}

// TotalBytes is the raw byte sum of the selected partitions. Only valid after Finalize.
func (s *ScanNode) TotalBytes() int64 {
	return s.totalBytes
}

// NumNodes is the table's host count estimate. Only valid after Finalize.
func (s *ScanNode) NumNodes() int {
	return s.numNodes
}

// SelectedPartitions returns the partitions that survived pruning, in ascending id order.
func (s *ScanNode) SelectedPartitions() []*catalog.Partition {
	return s.partitions
}

// ExplainString renders the scan for explain output: table name, surviving partition count,
// human readable size and any predicate text. Purely presentational.
func (s *ScanNode) ExplainString() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "table=%s #partitions=%d size=%s\n", s.tbl.FullName(), len(s.partitions), printBytes(s.totalBytes))
	preds := s.predicateString()
	if preds != "" {
		fmt.Fprintf(&sb, "predicates: %s\n", preds)
	}
	return sb.String()
}

func (s *ScanNode) predicateString() string {
	var parts []string
	for _, f := range s.keyFilters {
		if f != nil {
			parts = append(parts, f.String())
		}
	}
	if s.partitionFilter != nil {
		parts = append(parts, s.partitionFilter.String())
	}
	return strings.Join(parts, " and ")
}

// printBytes renders a byte count in TB, GB, MB or KB with 2 decimal points, e.g. 5000 comes
// out as "4.88KB". A value at or below a unit threshold stays in the smaller unit.
func printBytes(value int64) string {
	const kb = int64(1024)
	const mb = kb * 1024
	const gb = mb * 1024
	const tb = gb * 1024

	result := float64(value)
	if value > tb {
		return fmt.Sprintf("%.2fTB", result/float64(tb))
	}
	if value > gb {
		return fmt.Sprintf("%.2fGB", result/float64(gb))
	}
	if value > mb {
		return fmt.Sprintf("%.2fMB", result/float64(mb))
	}
	if value > kb {
		return fmt.Sprintf("%.2fKB", result/float64(kb))
	}
	return fmt.Sprintf("%dB", value)
}

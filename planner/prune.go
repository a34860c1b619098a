package planner

import (
	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/errors"
	"github.com/squareup/rangeplan/filter"
)

// prunePartitions selects the partitions whose key tuples pass every non nil key filter at
// the same ordinal position and aggregates their stats. For an unpartitioned table it just
// returns the table level row estimate. The returned cardinality is the sum of the selected
// partitions' known row counts, falling back to the table estimate when no selected
// partition knew its count; totalBytes is always the raw sum of selected partition sizes.
func prunePartitions(tbl *catalog.Table, keyFilters []filter.KeyFilter) ([]*catalog.Partition, int64, int64, error) {
	if tbl.PartitionCount() == 0 {
		return nil, tbl.NumRows, 0, nil
	}
	if len(keyFilters) != tbl.NumClusteringCols {
		return nil, 0, 0, errors.NewKeyFilterMismatchError(tbl.SchemaName, tbl.Name, len(keyFilters), tbl.NumClusteringCols)
	}
	var selected []*catalog.Partition
	cardinality := int64(0)
	totalBytes := int64(0)
	hasValidPartitionCardinality := false
	for _, p := range tbl.Partitions() {
		if len(p.Files) == 0 {
			// no point scanning partitions that have no data
			continue
		}
		if len(p.Key) != tbl.NumClusteringCols {
			return nil, 0, 0, errors.Errorf("partition %d of table %s has %d key values, expected %d",
				p.ID, tbl.FullName(), len(p.Key), tbl.NumClusteringCols)
		}
		matching := true
		for i, keyFilter := range keyFilters {
			if keyFilter != nil && !keyFilter.Matches(p.Key[i]) {
				matching = false
				break
			}
		}
		if !matching {
			// outside the key filters
			continue
		}
		// partitions are immutable so referencing them is fine
		selected = append(selected, p)

		// ignore partitions with missing stats in the hope they don't matter enough to
		// change the planning outcome
		if p.NumRows > 0 {
			cardinality += p.NumRows
			hasValidPartitionCardinality = true
		}
		totalBytes += p.Size
	}
	if !hasValidPartitionCardinality {
		// none of the selected partitions knew its row count, fall back on the table stats
		cardinality = tbl.NumRows
	}
	log.Debugf("pruned table %s to %d of %d partitions, totalBytes=%d", tbl.FullName(),
		len(selected), tbl.PartitionCount(), totalBytes)
	return selected, cardinality, totalBytes, nil
}

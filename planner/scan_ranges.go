package planner

import (
	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/catalog"
)

// ScanRange is one contiguous byte interval of a file, the unit of work handed to the
// executor. PartitionID is 0 for files resolved through dynamic partition discovery.
type ScanRange struct {
	Path        string
	Offset      int64
	Length      int64
	PartitionID int64
	FileSize    int64
}

// ScanRangeLocation is a replica eligible to serve a range, with the volume id the executor
// uses for local disk affinity.
type ScanRangeLocation struct {
	Address  string
	VolumeID int
}

type ScanRangeLocations struct {
	Range     ScanRange
	Locations []ScanRangeLocation
}

// appendFileRanges cuts the file's blocks into scan ranges no longer than
// maxScanRangeLength and appends them to result. A non positive maxScanRangeLength means
// blocks are never split. Blocks without any replica locations contribute no ranges; that is
// a best effort data gap, not an error. Output order is block order then increasing offset,
// so the full result is deterministic for a given file list.
func appendFileRanges(result []*ScanRangeLocations, file *catalog.File, partitionID int64,
	maxScanRangeLength int64, planMetrics *Metrics) []*ScanRangeLocations {
	for _, block := range file.Blocks {
		if len(block.Replicas) == 0 {
			// we didn't get locations for this block, just ignore it
			log.Debugf("no locations for block at offset %d of file %s, skipping it", block.Offset, file.Path)
			planMetrics.incBlocksNoLocation()
			continue
		}
		locations := make([]ScanRangeLocation, len(block.Replicas))
		for i, replica := range block.Replicas {
			locations[i] = ScanRangeLocation{Address: replica.Address, VolumeID: replica.VolumeID}
		}
		currentOffset := block.Offset
		remainingLength := block.Length
		for remainingLength > 0 {
			currentLength := remainingLength
			if maxScanRangeLength > 0 && remainingLength > maxScanRangeLength {
				currentLength = maxScanRangeLength
			}
			result = append(result, &ScanRangeLocations{
				Range: ScanRange{
					Path:        file.Path,
					Offset:      currentOffset,
					Length:      currentLength,
					PartitionID: partitionID,
					FileSize:    block.FileSize,
				},
				Locations: locations,
			})
			remainingLength -= currentLength
			currentOffset += currentLength
		}
	}
	return result
}

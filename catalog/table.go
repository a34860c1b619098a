package catalog

import (
	"fmt"

	"github.com/google/btree"
)

// The catalog model is immutable from the moment it is constructed, so tables, partitions,
// files and blocks are shared by reference between scan nodes planning over the same table.
// The one exception is the block list of a dynamically discovered file, which is attached in
// place by the block metadata loader before the file reaches the planner.

// Replica is one copy of a block on a data node. VolumeID identifies the local disk holding
// the copy and is used by the executor for disk affinity, -1 when the volume is unknown.
type Replica struct {
	Address  string `json:"address"`
	VolumeID int    `json:"volume_id"`
}

// Block is a contiguous chunk of a file. FileSize is denormalized from the enclosing file so
// scan ranges can be emitted without a back reference.
type Block struct {
	Offset   int64     `json:"offset"`
	Length   int64     `json:"length"`
	FileSize int64     `json:"file_size"`
	Replicas []Replica `json:"replicas,omitempty"`
}

// File is a data file belonging to a partition, or discovered dynamically. Modified is epoch
// milliseconds.
type File struct {
	Path     string   `json:"path"`
	Length   int64    `json:"length"`
	Modified int64    `json:"modified,omitempty"`
	Blocks   []*Block `json:"blocks,omitempty"`
}

// Partition holds the data for one clustering key tuple. NumRows <= 0 means the partition has
// no row count stats.
type Partition struct {
	ID      int64         `json:"id"`
	Key     []interface{} `json:"key"`
	NumRows int64         `json:"num_rows,omitempty"`
	Size    int64         `json:"size,omitempty"`
	Files   []*File       `json:"files,omitempty"`
}

// Less orders partitions by id so planning output is deterministic.
func (p *Partition) Less(than btree.Item) bool {
	return p.ID < than.(*Partition).ID
}

// TableInfo holds the scalar attributes of a table. NumRows is the table level row estimate,
// -1 when unknown. DynamicPartitions marks tables whose partitions are not statically
// enumerable and must be discovered through the listing service.
type TableInfo struct {
	SchemaName        string `json:"schema_name"`
	Name              string `json:"name"`
	NumClusteringCols int    `json:"num_clustering_cols,omitempty"`
	NumRows           int64  `json:"num_rows,omitempty"`
	NumNodes          int    `json:"num_nodes,omitempty"`
	StorageRoot       string `json:"storage_root,omitempty"`
	DynamicPartitions bool   `json:"dynamic_partitions,omitempty"`
}

type Table struct {
	TableInfo
	partitions *btree.BTree
}

func NewTable(info TableInfo) *Table {
	return &Table{TableInfo: info, partitions: btree.New(8)}
}

func (t *Table) FullName() string {
	return fmt.Sprintf("%s.%s", t.SchemaName, t.Name)
}

func (t *Table) AddPartition(p *Partition) {
	t.partitions.ReplaceOrInsert(p)
}

func (t *Table) PartitionCount() int {
	return t.partitions.Len()
}

// Partitions returns the table's partitions in ascending id order.
func (t *Table) Partitions() []*Partition {
	parts := make([]*Partition, 0, t.partitions.Len())
	t.partitions.Ascend(func(item btree.Item) bool {
		parts = append(parts, item.(*Partition))
		return true
	})
	return parts
}

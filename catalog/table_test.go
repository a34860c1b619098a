package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionsReturnedInIDOrder(t *testing.T) {
	tbl := NewTable(TableInfo{SchemaName: "test", Name: "sales", NumClusteringCols: 1})
	tbl.AddPartition(&Partition{ID: 30, Key: []interface{}{int64(3)}})
	tbl.AddPartition(&Partition{ID: 10, Key: []interface{}{int64(1)}})
	tbl.AddPartition(&Partition{ID: 20, Key: []interface{}{int64(2)}})

	require.Equal(t, 3, tbl.PartitionCount())
	parts := tbl.Partitions()
	require.Equal(t, int64(10), parts[0].ID)
	require.Equal(t, int64(20), parts[1].ID)
	require.Equal(t, int64(30), parts[2].ID)
}

func TestFullName(t *testing.T) {
	tbl := NewTable(TableInfo{SchemaName: "test", Name: "sales"})
	require.Equal(t, "test.sales", tbl.FullName())
}

func TestTableFromDescriptor(t *testing.T) {
	descJSON := `{
		"schema_name": "test",
		"name": "sales",
		"num_clustering_cols": 1,
		"num_rows": 90000,
		"num_nodes": 3,
		"partitions": [
			{
				"id": 1,
				"key": [5],
				"num_rows": 1000,
				"size": 1048576,
				"files": [
					{
						"path": "/data/f1",
						"length": 1048576,
						"blocks": [
							{
								"offset": 0,
								"length": 1048576,
								"file_size": 1048576,
								"replicas": [{"address": "host1:2049", "volume_id": 2}]
							}
						]
					}
				]
			},
			{"id": 2, "key": [10], "num_rows": 2000, "size": 2097152}
		]
	}`
	desc := &TableDescriptor{}
	require.NoError(t, json.Unmarshal([]byte(descJSON), desc))
	tbl := TableFromDescriptor(desc)

	require.Equal(t, "test.sales", tbl.FullName())
	require.Equal(t, 2, tbl.PartitionCount())
	parts := tbl.Partitions()
	// JSON numbers in key tuples come back as int64, not float64
	require.Equal(t, int64(5), parts[0].Key[0])
	require.Equal(t, int64(10), parts[1].Key[0])
	require.Equal(t, 1, len(parts[0].Files))
	block := parts[0].Files[0].Blocks[0]
	require.Equal(t, int64(1048576), block.Length)
	require.Equal(t, 1, len(block.Replicas))
	require.Equal(t, "host1:2049", block.Replicas[0].Address)
	require.Equal(t, 2, block.Replicas[0].VolumeID)
}

package catalog

// TableDescriptor is the JSON form of a table and its static partitions, as loaded by the
// rangeplan tool and test fixtures.
type TableDescriptor struct {
	TableInfo
	Partitions []*Partition `json:"partitions,omitempty"`
}

// TableFromDescriptor builds a Table from its JSON form. JSON numbers decode as float64, so
// integral key values are normalized back to int64 before they are matched against key
// filters.
func TableFromDescriptor(desc *TableDescriptor) *Table {
	tbl := NewTable(desc.TableInfo)
	for _, p := range desc.Partitions {
		for i, kv := range p.Key {
			if fv, ok := kv.(float64); ok && fv == float64(int64(fv)) {
				p.Key[i] = int64(fv)
			}
		}
		tbl.AddPartition(p)
	}
	return tbl
}

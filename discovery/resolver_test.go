package discovery

import (
	"encoding/json"
	"testing"

	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/errors"
	"github.com/squareup/rangeplan/filter"
	"github.com/stretchr/testify/require"
)

type capturingLister struct {
	req   *ListRequest
	files []*catalog.File
	err   error
}

func (c *capturingLister) ListFiles(req *ListRequest) ([]*catalog.File, error) {
	c.req = req
	if c.err != nil {
		return nil, c.err
	}
	return c.files, nil
}

type stubLoader struct {
	loaded []*catalog.File
	err    error
}

func (s *stubLoader) LoadBlockMetadata(files []*catalog.File) error {
	if s.err != nil {
		return s.err
	}
	s.loaded = files
	for _, f := range files {
		f.Blocks = []*catalog.Block{{Offset: 0, Length: f.Length, FileSize: f.Length}}
	}
	return nil
}

func eventsTable() *catalog.Table {
	return catalog.NewTable(catalog.TableInfo{
		SchemaName:        "test",
		Name:              "events",
		StorageRoot:       "s3://warehouse/events",
		DynamicPartitions: true,
	})
}

func rangePredicate(t *testing.T) *filter.ForeignExpr {
	f := filter.NewColumnFilter("ts",
		&filter.Cmp{Op: filter.OpGE, Left: &filter.ColRef{Col: "ts"}, Right: &filter.IntLit{Val: 5}},
		&filter.Cmp{Op: filter.OpLE, Left: &filter.ColRef{Col: "ts"}, Right: &filter.IntLit{Val: 10}},
	)
	expr, err := filter.Translate(f)
	require.NoError(t, err)
	return expr
}

func TestResolveBuildsRequestAndLoadsBlocks(t *testing.T) {
	stubs := []*catalog.File{
		{Path: "s3://warehouse/events/f1", Length: 1024, Modified: 1700000000000},
		{Path: "s3://warehouse/events/f2", Length: 2048, Modified: 1700000001000},
	}
	lister := &capturingLister{files: stubs}
	loader := &stubLoader{}
	resolver := NewResolver(lister, loader)

	files, err := resolver.Resolve(eventsTable(), rangePredicate(t))
	require.NoError(t, err)
	require.Equal(t, 2, len(files))

	require.Equal(t, "s3://warehouse/events", lister.req.StorageRoot)
	require.Equal(t, "test", lister.req.SchemaName)
	require.Equal(t, "events", lister.req.TableName)
	var pred filter.ForeignExpr
	require.NoError(t, json.Unmarshal(lister.req.Predicate, &pred))
	require.Equal(t, filter.ForeignOpAnd, pred.Op)

	// blocks are attached to the stubs in place, in one batched call
	require.Equal(t, 2, len(loader.loaded))
	for _, f := range files {
		require.Equal(t, 1, len(f.Blocks))
		require.Equal(t, f.Length, f.Blocks[0].Length)
	}
}

func TestResolveWithoutPredicate(t *testing.T) {
	lister := &capturingLister{}
	resolver := NewResolver(lister, &stubLoader{})
	_, err := resolver.Resolve(eventsTable(), nil)
	require.NoError(t, err)
	require.Nil(t, lister.req.Predicate)
}

func TestListingFailureWrapped(t *testing.T) {
	cause := errors.Error("no route to host")
	resolver := NewResolver(&capturingLister{err: cause}, &stubLoader{})
	_, err := resolver.Resolve(eventsTable(), rangePredicate(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "listing files for table test.events")
	require.Contains(t, err.Error(), "no route to host")
	require.Equal(t, cause, errors.Cause(err))
}

func TestLoaderFailureWrapped(t *testing.T) {
	cause := errors.Error("metadata service unavailable")
	resolver := NewResolver(&capturingLister{}, &stubLoader{err: cause})
	_, err := resolver.Resolve(eventsTable(), rangePredicate(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading block metadata for table test.events")
	require.Equal(t, cause, errors.Cause(err))
}

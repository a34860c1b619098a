package discovery

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/errors"
	"github.com/squareup/rangeplan/filter"
)

// ListRequest carries everything the external listing service needs to enumerate the files
// matching a predicate: the table's storage root, its logical identity and the predicate in
// serialized foreign form. It replaces the shared configuration objects the service used to
// be driven through.
type ListRequest struct {
	StorageRoot string `json:"storage_root"`
	SchemaName  string `json:"schema_name"`
	TableName   string `json:"table_name"`
	Predicate   []byte `json:"predicate,omitempty"`
}

// FileLister enumerates the files under a table's storage root that match the request's
// predicate. The returned files are stubs: path, length and modification time only, no block
// metadata.
type FileLister interface {
	ListFiles(req *ListRequest) ([]*catalog.File, error)
}

// BlockLoader attaches block and replica metadata to file stubs in place. It is a batched
// call since location lookups are the expensive part.
type BlockLoader interface {
	LoadBlockMetadata(files []*catalog.File) error
}

// Resolver performs predicate driven partition discovery for tables whose partitions are not
// statically enumerable. Any failure is fatal for the planning pass; discovery is never
// retried on partial results.
type Resolver struct {
	lister FileLister
	loader BlockLoader
}

func NewResolver(lister FileLister, loader BlockLoader) *Resolver {
	return &Resolver{lister: lister, loader: loader}
}

func (r *Resolver) Resolve(tbl *catalog.Table, pred *filter.ForeignExpr) ([]*catalog.File, error) {
	var predBytes []byte
	if pred != nil {
		var err error
		predBytes, err = json.Marshal(pred)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	req := &ListRequest{
		StorageRoot: tbl.StorageRoot,
		SchemaName:  tbl.SchemaName,
		TableName:   tbl.Name,
		Predicate:   predBytes,
	}
	files, err := r.lister.ListFiles(req)
	if err != nil {
		return nil, errors.Wrapf(err, "listing files for table %s under %s", tbl.FullName(), tbl.StorageRoot)
	}
	log.Debugf("discovered %d files for table %s", len(files), tbl.FullName())
	if err := r.loader.LoadBlockMetadata(files); err != nil {
		return nil, errors.Wrapf(err, "loading block metadata for table %s", tbl.FullName())
	}
	return files, nil
}

package s3

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/discovery"
	"github.com/squareup/rangeplan/errors"
)

// Lister is a FileLister over an S3 compatible object store. S3 cannot evaluate the pushed
// down predicate, so every object under the table's storage root is returned; the predicate
// still travels in the request for backends that can use it.
type Lister struct {
	Region   string
	Endpoint string
}

var _ discovery.FileLister = &Lister{}

func NewLister(region string, endpoint string) *Lister {
	return &Lister{Region: region, Endpoint: endpoint}
}

func (l *Lister) ListFiles(req *discovery.ListRequest) ([]*catalog.File, error) {
	bucket, prefix, err := splitStorageRoot(req.StorageRoot)
	if err != nil {
		return nil, err
	}
	s3Config := &aws.Config{
		Region:      aws.String(l.Region),
		Credentials: credentials.NewEnvCredentials(),
	}
	if l.Endpoint != "" {
		s3Config.Endpoint = aws.String(l.Endpoint)
	}
	s3Session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, errors.Wrap(err, "error making new session")
	}
	client := awss3.New(s3Session)
	var files []*catalog.File
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	err = client.ListObjectsV2Pages(input, func(page *awss3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			file := &catalog.File{
				Path:   "s3://" + bucket + "/" + aws.StringValue(obj.Key),
				Length: aws.Int64Value(obj.Size),
			}
			if obj.LastModified != nil {
				file.Modified = obj.LastModified.UnixNano() / 1e6
			}
			files = append(files, file)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing objects in bucket %s", bucket)
	}
	log.Debugf("listed %d objects under %s for table %s.%s", len(files), req.StorageRoot, req.SchemaName, req.TableName)
	return files, nil
}

func splitStorageRoot(root string) (string, string, error) {
	trimmed := strings.TrimPrefix(root, "s3://")
	if trimmed == root || trimmed == "" {
		return "", "", errors.Errorf("invalid s3 storage root %s", root)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	bucket := parts[0]
	prefix := ""
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}

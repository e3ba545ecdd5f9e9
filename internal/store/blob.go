package store

import (
	"context"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/LawrenceCirillo/Alan/pkg/api"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStore keeps blueprints in a gocloud.dev bucket, supporting S3, GCS,
// Azure Blob Storage, local files and memory
type BlobStore struct {
	bucket *blob.Bucket
	prefix string
}

var _ Store = (*BlobStore)(nil)

func NewBlobStore(
	ctx context.Context, bucketURL, prefix string,
) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &BlobStore{bucket: bucket, prefix: prefix}, nil
}

func (s *BlobStore) Put(ctx context.Context, bp *api.WorkflowBlueprint) error {
	data, err := encode(bp)
	if err != nil {
		return err
	}
	return s.bucket.WriteAll(ctx, s.keyFor(bp.WorkflowID), data, nil)
}

func (s *BlobStore) Get(
	ctx context.Context, id api.WorkflowID,
) (*api.WorkflowBlueprint, error) {
	data, err := s.bucket.ReadAll(ctx, s.keyFor(id))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

func (s *BlobStore) Close() error {
	return s.bucket.Close()
}

func (s *BlobStore) keyFor(id api.WorkflowID) string {
	return s.prefix + string(id) + ".json"
}

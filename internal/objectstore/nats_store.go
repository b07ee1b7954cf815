// Package objectstore provides a NATS-based implementation of the ObjectStore interface.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const headerContentType = "Content-Type"

// contentTypes maps object key extensions to the Content-Type stored with the object.
var contentTypes = map[string]string{
	".wav": "audio/wav",
	".txt": "text/plain; charset=utf-8",
	".md":  "text/markdown; charset=utf-8",
}

// NatsObjectStore implements the core.ObjectStore interface using NATS JetStream.
type NatsObjectStore struct {
	bucket string
	store  nats.ObjectStore
}

// New creates the bucket, or binds to it when it already exists.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsObjectStore, error) {
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Storage for the %s bucket.", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucketName, err)
		}

		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to existing object store bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsObjectStore{
		bucket: bucketName,
		store:  store,
	}, nil
}

// Download retrieves an object from the NATS object store.
func (n *NatsObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := n.store.Get(key, nats.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", key, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close object '%s': %w", key, closeErr)
	}

	return data, nil
}

// Upload saves an object, tagging it with a Content-Type derived from the key.
func (n *NatsObjectStore) Upload(ctx context.Context, key string, data []byte) error {
	meta := &nats.ObjectMeta{Name: key}

	if contentType, ok := ContentType(key); ok {
		meta.Headers = nats.Header{}
		meta.Headers.Set(headerContentType, contentType)
	}

	_, err := n.store.Put(meta, bytes.NewReader(data), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to put object '%s' to bucket '%s': %w", key, n.bucket, err)
	}

	return nil
}

// ContentTypeOf returns the Content-Type stored with key, or "" when none was set.
func (n *NatsObjectStore) ContentTypeOf(ctx context.Context, key string) (string, error) {
	info, err := n.store.GetInfo(key, nats.Context(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to stat object '%s' in bucket '%s': %w", key, n.bucket, err)
	}

	return info.Headers.Get(headerContentType), nil
}

// ContentType returns the Content-Type for key's extension.
func ContentType(key string) (string, bool) {
	contentType, ok := contentTypes[strings.ToLower(path.Ext(key))]

	return contentType, ok
}

// SplitStore downloads job input from one bucket and uploads results to another.
type SplitStore struct {
	input  *NatsObjectStore
	output *NatsObjectStore
}

// NewSplit opens the input and output buckets. An empty inputBucket reads from the
// output bucket.
func NewSplit(jetstreamContext nats.JetStreamContext, inputBucket, outputBucket string) (*SplitStore, error) {
	output, err := New(jetstreamContext, outputBucket)
	if err != nil {
		return nil, err
	}

	if inputBucket == "" || inputBucket == outputBucket {
		return &SplitStore{input: output, output: output}, nil
	}

	input, err := New(jetstreamContext, inputBucket)
	if err != nil {
		return nil, err
	}

	return &SplitStore{input: input, output: output}, nil
}

// Download reads key from the input bucket.
func (s *SplitStore) Download(ctx context.Context, key string) ([]byte, error) {
	return s.input.Download(ctx, key)
}

// Upload writes key to the output bucket.
func (s *SplitStore) Upload(ctx context.Context, key string, data []byte) error {
	return s.output.Upload(ctx, key, data)
}

// Package blobstore uploads evidence payloads to the configured object storage and removes
// them again when they are never attached to a case.
package blobstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/linesmerrill/party-cms-api/config"
)

// go generate: mockery --name Store

// Backend names accepted in BLOB_BACKEND
const (
	BackendCloudinary = "cloudinary"
	BackendS3         = "s3"
)

// Object is a stored blob. ResourceType is the backend's own classification of the blob
// (image, video or raw on Cloudinary) and is needed to destroy it again.
type Object struct {
	URL          string
	PublicID     string
	ResourceType string
}

// Store is an object storage the evidence ingestor can upload to
type Store interface {
	Upload(ctx context.Context, payload []byte, name, folder string) (Object, error)
	Destroy(ctx context.Context, obj Object) error
	Backend() string
}

// New builds the store selected by conf.Backend
func New(ctx context.Context, conf config.BlobConfig) (Store, error) {
	switch conf.Backend {
	case "", BackendCloudinary:
		return NewCloudinary(conf.CloudinaryURL)
	case BackendS3:
		return NewS3(ctx, S3Config{
			Bucket:        conf.S3Bucket,
			Region:        conf.S3Region,
			Endpoint:      conf.S3Endpoint,
			PublicBaseURL: conf.S3PublicBaseURL,
		})
	}
	return nil, errors.Errorf("unknown blob backend %q", conf.Backend)
}

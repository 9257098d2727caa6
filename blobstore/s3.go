package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds configuration for S3
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional, for MinIO or LocalStack
	// PublicBaseURL is prepended to object keys to build the stored URL. Defaults to the
	// virtual hosted bucket URL.
	PublicBaseURL string
}

// S3 stores blobs in an S3 compatible bucket. The public id of an object is its key.
type S3 struct {
	client  s3API
	bucket  string
	baseURL string
}

// NewS3 creates an S3 backed store
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3(client, cfg), nil
}

func newS3(client s3API, cfg S3Config) *S3 {
	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(base, "/")}
}

// Backend returns the backend name recorded in the upload ledger
func (s *S3) Backend() string {
	return BackendS3
}

// Upload writes payload to folder/name
func (s *S3) Upload(ctx context.Context, payload []byte, name, folder string) (Object, error) {
	key := path.Join(folder, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(http.DetectContentType(payload)),
	})
	if err != nil {
		return Object{}, errors.Wrap(err, "s3 put failed")
	}
	return Object{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

// Destroy deletes the object whose key is the public id
func (s *S3) Destroy(ctx context.Context, obj Object) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(obj.PublicID),
	})
	return errors.Wrap(err, "s3 delete failed")
}

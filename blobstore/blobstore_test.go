package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/party-cms-api/config"
)

type fakeCloudinary struct {
	mock.Mock
}

func (f *fakeCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	ret := f.Called(ctx, file, params)
	res, _ := ret.Get(0).(*uploader.UploadResult)
	return res, ret.Error(1)
}

func (f *fakeCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	ret := f.Called(ctx, params)
	res, _ := ret.Get(0).(*uploader.DestroyResult)
	return res, ret.Error(1)
}

type fakeS3 struct {
	mock.Mock
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	ret := f.Called(ctx, params)
	res, _ := ret.Get(0).(*s3.PutObjectOutput)
	return res, ret.Error(1)
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	ret := f.Called(ctx, params)
	res, _ := ret.Get(0).(*s3.DeleteObjectOutput)
	return res, ret.Error(1)
}

func TestCloudinaryUpload(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Upload", mock.Anything, mock.Anything, uploader.UploadParams{
		PublicID:     "abc",
		Folder:       "disciplinary/images",
		ResourceType: "auto",
	}).Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/abc.png", PublicID: "disciplinary/images/abc", ResourceType: "image"}, nil)

	c := &Cloudinary{api: fake}
	obj, err := c.Upload(context.Background(), []byte("png"), "abc", "disciplinary/images")

	require.NoError(t, err)
	assert.Equal(t, Object{URL: "https://res.cloudinary.com/x/abc.png", PublicID: "disciplinary/images/abc", ResourceType: "image"}, obj)
	assert.Equal(t, BackendCloudinary, c.Backend())
}

func TestCloudinaryUploadErrorInBody(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil)

	_, err := (&Cloudinary{api: fake}).Upload(context.Background(), []byte("x"), "abc", "f")
	assert.EqualError(t, err, "cloudinary upload failed: Invalid image file")
}

func TestCloudinaryUploadError(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := (&Cloudinary{api: fake}).Upload(context.Background(), []byte("x"), "abc", "f")
	assert.EqualError(t, err, "cloudinary upload failed: connection reset")
}

func TestCloudinaryDestroy(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "ok", ResourceType: "image"}).
		Return(&uploader.DestroyResult{Result: "ok"}, nil)
	fake.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "bad", ResourceType: "image"}).
		Return(&uploader.DestroyResult{Error: api.ErrorResp{Message: "Invalid signature"}}, nil)

	c := &Cloudinary{api: fake}
	assert.NoError(t, c.Destroy(context.Background(), Object{PublicID: "ok"}))
	assert.EqualError(t, c.Destroy(context.Background(), Object{PublicID: "bad"}), "cloudinary destroy failed: Invalid signature")
}

func TestCloudinaryDestroyUsesResourceType(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "disciplinary/evidence/doc", ResourceType: "raw"}).
		Return(&uploader.DestroyResult{Result: "ok"}, nil)

	c := &Cloudinary{api: fake}
	assert.NoError(t, c.Destroy(context.Background(), Object{PublicID: "disciplinary/evidence/doc", ResourceType: "raw"}))
	fake.AssertExpectations(t)
}

func TestCloudinaryDestroyNotFound(t *testing.T) {
	fake := &fakeCloudinary{}
	fake.On("Destroy", mock.Anything, mock.Anything).Return(&uploader.DestroyResult{Result: "not found"}, nil)

	err := (&Cloudinary{api: fake}).Destroy(context.Background(), Object{PublicID: "disciplinary/evidence/doc"})
	assert.EqualError(t, err, `cloudinary destroy of image/disciplinary/evidence/doc returned "not found"`)
}

func TestS3Upload(t *testing.T) {
	fake := &fakeS3{}
	fake.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "evidence" && *in.Key == "disciplinary/evidence/abc"
	})).Return(&s3.PutObjectOutput{}, nil)

	s := newS3(fake, S3Config{Bucket: "evidence", Region: "eu-west-1"})
	obj, err := s.Upload(context.Background(), []byte("%PDF-1.4"), "abc", "disciplinary/evidence")

	require.NoError(t, err)
	assert.Equal(t, "https://evidence.s3.eu-west-1.amazonaws.com/disciplinary/evidence/abc", obj.URL)
	assert.Equal(t, "disciplinary/evidence/abc", obj.PublicID)
	assert.Equal(t, BackendS3, s.Backend())
}

func TestS3UploadPublicBaseURL(t *testing.T) {
	fake := &fakeS3{}
	fake.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	s := newS3(fake, S3Config{Bucket: "evidence", PublicBaseURL: "https://cdn.example.org/"})
	obj, err := s.Upload(context.Background(), []byte("x"), "abc", "disciplinary/photos")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/disciplinary/photos/abc", obj.URL)
}

func TestS3Destroy(t *testing.T) {
	fake := &fakeS3{}
	fake.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "disciplinary/photos/abc"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	s := newS3(fake, S3Config{Bucket: "evidence"})
	assert.NoError(t, s.Destroy(context.Background(), Object{PublicID: "disciplinary/photos/abc"}))
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.BlobConfig{Backend: "ftp"})
	assert.EqualError(t, err, `unknown blob backend "ftp"`)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), config.BlobConfig{Backend: BackendS3})
	assert.EqualError(t, err, "s3 bucket is not set")
}

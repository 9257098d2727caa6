package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	t.Setenv("BLOB_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "evidence")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
	assert.Equal(t, "s3", conf.Blob.Backend)
	assert.Equal(t, "evidence", conf.Blob.S3Bucket)
	assert.NotNil(t, conf.Logger)
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 512000, conf.Upload.MaxImageBytes)
	assert.Equal(t, 5242880, conf.Upload.MaxDocumentBytes)
	assert.Equal(t, 30*time.Second, conf.Upload.Timeout)
	assert.Equal(t, 4, conf.Upload.Concurrency)
	assert.Equal(t, "0 * * * *", conf.Sweep.Schedule)
	assert.Equal(t, 24*time.Hour, conf.Sweep.MinAge)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
upload:
  maxImageBytes: 1024
  timeout: 5s
sweep:
  schedule: "*/15 * * * *"
`), 0o600)
	require.NoError(t, err)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, conf.Upload.MaxImageBytes)
	assert.Equal(t, 5*time.Second, conf.Upload.Timeout)
	assert.Equal(t, 5242880, conf.Upload.MaxDocumentBytes)
	assert.Equal(t, "*/15 * * * *", conf.Sweep.Schedule)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "error it borked, bad request"}`, rr.Body.String())
}

func TestErrorStatusEscapes(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus(`status transition rejected`, http.StatusBadRequest, rr, errors.New(`"ARCHIVED" is final`))

	assert.JSONEq(t, `{"response": "status transition rejected, \"ARCHIVED\" is final"}`, rr.Body.String())
}

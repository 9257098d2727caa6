package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/party-cms-api/api"
	"github.com/linesmerrill/party-cms-api/api/handlers"
	"github.com/linesmerrill/party-cms-api/policy"
)

func signatureRequest(actor policy.Actor) *http.Request {
	req := httptest.NewRequest("POST", "/api/v1/generate-signature", nil)
	return req.WithContext(api.WithActor(req.Context(), actor))
}

func TestCloudinaryHandler_GenerateSignature(t *testing.T) {
	c := handlers.CloudinaryHandler{
		UploadPreset: "disciplinary",
		APISecret:    "shhh",
		Now:          func() time.Time { return time.Unix(1710000000, 0) },
	}
	rr := httptest.NewRecorder()
	c.GenerateSignature(rr, signatureRequest(policy.Actor{ID: "admin-1", Role: policy.Admin}))

	require.Equal(t, http.StatusOK, rr.Code)
	var m map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, "1710000000", m["timestamp"])
	assert.Equal(t, "disciplinary", m["uploadPreset"])
	assert.NotEmpty(t, m["signature"])

	again := httptest.NewRecorder()
	c.GenerateSignature(again, signatureRequest(policy.Actor{ID: "admin-2", Role: policy.SuperAdmin}))
	assert.Equal(t, rr.Body.String(), again.Body.String())
}

func TestCloudinaryHandler_GenerateSignatureForbidden(t *testing.T) {
	c := handlers.CloudinaryHandler{APISecret: "shhh"}
	rr := httptest.NewRecorder()
	c.GenerateSignature(rr, signatureRequest(policy.Actor{ID: "user-1", Role: policy.User}))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCloudinaryHandler_GenerateSignatureNotConfigured(t *testing.T) {
	c := handlers.CloudinaryHandler{}
	rr := httptest.NewRecorder()
	c.GenerateSignature(rr, signatureRequest(policy.Actor{ID: "admin-1", Role: policy.Admin}))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	cldapi "github.com/cloudinary/cloudinary-go/v2/api"

	"github.com/linesmerrill/party-cms-api/api"
	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/policy"
)

var errMissingSecret = errors.New("CLOUDINARY_API_SECRET is not set")

// CloudinaryHandler signs direct browser uploads to Cloudinary
type CloudinaryHandler struct {
	UploadPreset string
	APISecret    string
	Now          func() time.Time
}

// GenerateSignature generates a signature for Cloudinary uploads
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFrom(r.Context())
	if !policy.Allow(actor.Role, policy.GenerateSignature, "") {
		config.ErrorStatus("not allowed to sign uploads", http.StatusForbidden, w, fmt.Errorf("role %s", actor.Role))
		return
	}
	if c.APISecret == "" {
		config.ErrorStatus("upload signing is not configured", http.StatusServiceUnavailable, w, errMissingSecret)
		return
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	timestamp := strconv.FormatInt(now().Unix(), 10)
	params := url.Values{
		"timestamp":     []string{timestamp},
		"upload_preset": []string{c.UploadPreset},
	}
	signature, err := cldapi.SignParameters(params, c.APISecret)
	if err != nil {
		config.ErrorStatus("failed to sign upload", http.StatusInternalServerError, w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{
		"timestamp":    timestamp,
		"signature":    signature,
		"uploadPreset": c.UploadPreset,
	})
}

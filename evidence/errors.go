package evidence

import "github.com/pkg/errors"

var (
	// ErrUndecodable is returned when a payload is neither a base64 data URI nor bare base64
	ErrUndecodable = errors.New("evidence payload could not be decoded")
	// ErrPayloadTooLarge is returned when a decoded payload exceeds the field's ceiling
	ErrPayloadTooLarge = errors.New("evidence payload too large")
	// ErrUploadFailed is returned when the blob store rejects an upload
	ErrUploadFailed = errors.New("evidence upload failed")
	// ErrUploadTimeout is returned when an upload does not finish within its deadline
	ErrUploadTimeout = errors.New("evidence upload timed out")
)

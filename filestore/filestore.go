// Package filestore defines the file provider contract shared by storage backends.
//
// A Provider turns an UploadRequest into a stored object and hands back a
// backend-independent key that later Delete and retrieval calls refer to.
// Implementations live in sub-packages (cloudinarywr, miniowr) and can be
// wrapped by the decorators in tracingwr and metricswr.
package filestore

import (
	"context"
	"io"
)

// Provider defines the file provider contract.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Identifier returns the name a host uses to select this provider (e.g. "cloudinary").
	Identifier() string

	// Upload stores the request content and returns its public URL and key.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// Delete removes the object referenced by req.FileKey.
	// Providers may treat delete as best-effort and never return an error.
	Delete(ctx context.Context, req DeleteRequest) error

	// GetAsBuffer fetches the whole object into memory.
	GetAsBuffer(ctx context.Context, req FileRequest) ([]byte, error)

	// GetDownloadStream returns a single-pass reader over the object.
	// The caller is responsible for closing it.
	GetDownloadStream(ctx context.Context, req FileRequest) (io.ReadCloser, error)

	// GetPresignedDownloadURL returns a URL the object can be downloaded from.
	GetPresignedDownloadURL(ctx context.Context, req FileRequest) (string, error)
}

// UploadRequest describes a file to upload.
//
// Content may be a base64 encoded string, a []byte, an io.Reader or any value
// that can be coerced to a string. See NormalizeContent.
type UploadRequest struct {
	Filename string `json:"filename"  validate:"required"`
	MimeType string `json:"mime_type"`
	Content  any    `json:"content"   validate:"required"`
}

// UploadResult is returned by a successful upload.
// Key never carries a provider folder prefix.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// DeleteRequest references a previously returned UploadResult.Key.
type DeleteRequest struct {
	FileKey string `json:"file_key" validate:"required"`
}

// FileRequest references a stored object for retrieval operations.
type FileRequest struct {
	FileKey string `json:"file_key" validate:"required"`
}

// ContentTyper is implemented by download streams that know the stored content type.
// Decorators pass streams through unchanged, so hosts can check for it on any provider.
type ContentTyper interface {
	ContentType() string
}

// StreamContentType returns the content type reported by rc, or "" when rc does not know it.
func StreamContentType(rc io.Reader) string {
	if ct, ok := rc.(ContentTyper); ok {
		return ct.ContentType()
	}
	return ""
}

package filestore

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Common MIME content types seen by providers.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeSVG  = "image/svg+xml"

	ContentTypeMP4  = "video/mp4"
	ContentTypeMP3  = "audio/mpeg"
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
	ContentTypeZIP  = "application/zip"

	ContentTypeOctetStream = "application/octet-stream"
)

const imagePrefix = "image/"

// IsImage reports whether the MIME type belongs to the image family.
// An empty MIME type is not an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, imagePrefix)
}

// ResolveContentType returns declared when set. Otherwise it guesses from the
// filename extension and finally sniffs the data.
func ResolveContentType(declared, filename string, data []byte) string {
	if declared != "" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	if len(data) == 0 {
		return ContentTypeOctetStream
	}
	return http.DetectContentType(data)
}

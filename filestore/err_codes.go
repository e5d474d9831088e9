package filestore

// Error codes for filestore operations.
const (
	// CodeFileNotFound is returned when a file does not exist for the given key.
	CodeFileNotFound = "FILE_NOT_FOUND"

	// CodeInvalidOptions is returned when provider options fail validation.
	CodeInvalidOptions = "INVALID_PROVIDER_OPTIONS"

	// CodeInvalidContent is returned when upload content can't be turned into bytes.
	CodeInvalidContent = "INVALID_CONTENT"

	// CodeUploadFailed is returned when the remote side rejects or fails an upload.
	CodeUploadFailed = "UPLOAD_FAILED"

	// CodeNoUploadResult is returned when an upload reports no error but also no result.
	CodeNoUploadResult = "NO_UPLOAD_RESULT"

	// CodeFetchFailed is returned when downloading a stored object fails.
	CodeFetchFailed = "FETCH_FAILED"

	// CodeDeleteFailed is returned by providers whose delete is not best-effort.
	CodeDeleteFailed = "DELETE_FAILED"

	// CodeUnknownProvider is returned when a host asks for a provider identifier it doesn't know.
	CodeUnknownProvider = "UNKNOWN_PROVIDER"
)

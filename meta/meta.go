// Package meta carries request metadata through context.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID identifies a request across services and log lines.
	TraceID ContextKey = "trace_id"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// Provider names the file provider serving the request.
	Provider ContextKey = "file_provider"
)

//nolint:gochecknoglobals // fixed key order used for extraction
var allKeys = []ContextKey{
	TraceID,
	IPAddress,
	UserAgent,
	ServiceName,
	ServiceVersion,
	Provider,
}

// InjectMetaToContext adds the non-empty values of data to ctx.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns every known, non-empty string value found in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the string value stored under key, or "" when missing.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

package meta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/fileprovider/meta"
)

func TestInjectAndExtract(t *testing.T) {
	tests := []struct {
		name     string
		data     map[meta.ContextKey]string
		expected map[meta.ContextKey]string
	}{
		{
			name:     "single value",
			data:     map[meta.ContextKey]string{meta.TraceID: "abc-123"},
			expected: map[meta.ContextKey]string{meta.TraceID: "abc-123"},
		},
		{
			name: "skips empty values",
			data: map[meta.ContextKey]string{
				meta.TraceID:  "trace-1",
				meta.Provider: "",
			},
			expected: map[meta.ContextKey]string{meta.TraceID: "trace-1"},
		},
		{
			name: "ignores unknown keys",
			data: map[meta.ContextKey]string{
				meta.ContextKey("custom"): "value",
				meta.Provider:             "cloudinary",
			},
			expected: map[meta.ContextKey]string{meta.Provider: "cloudinary"},
		},
		{
			name:     "empty map",
			data:     map[meta.ContextKey]string{},
			expected: map[meta.ContextKey]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := meta.InjectMetaToContext(context.Background(), tc.data)
			assert.Equal(t, tc.expected, meta.ExtractMetaFromContext(ctx))
		})
	}
}

func TestExtract_IgnoresNonStringValues(t *testing.T) {
	ctx := context.WithValue(context.Background(), meta.TraceID, 12345)
	ctx = context.WithValue(ctx, meta.ServiceName, "filesvc")

	assert.Equal(t,
		map[meta.ContextKey]string{meta.ServiceName: "filesvc"},
		meta.ExtractMetaFromContext(ctx),
	)
}

func TestFind(t *testing.T) {
	ctx := meta.InjectMetaToContext(context.Background(), map[meta.ContextKey]string{
		meta.IPAddress: "10.0.0.1",
	})

	assert.Equal(t, "10.0.0.1", meta.Find(ctx, meta.IPAddress))
	assert.Empty(t, meta.Find(ctx, meta.UserAgent))
}

func TestServiceInfo(t *testing.T) {
	meta.SetServiceInfo("filesvc", "v1.0.0")
	meta.SetServiceInfo("ignored", "v9")

	assert.Equal(t, "filesvc", meta.ServiceNameValue())
	assert.Equal(t, "v1.0.0", meta.ServiceVersionValue())
}

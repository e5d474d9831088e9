package alert_test

import (
	"context"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/fileprovider/observability/alert"
	"github.com/rise-and-shine/fileprovider/val"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg alert.Config
	require.NoError(t, defaults.Set(&cfg))

	assert.False(t, cfg.Enable)
	assert.Equal(t, "3s", cfg.SendTimeout.String())
	require.NoError(t, val.ValidateSchema(cfg))
}

func TestConfig_EnabledNeedsAddress(t *testing.T) {
	err := val.ValidateSchema(alert.Config{Enable: true})
	require.Error(t, err)
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := alert.NewProvider(alert.Config{}, "filesvc", "test")
	require.NoError(t, err)
	assert.IsType(t, alert.NoopProvider{}, p)

	require.NoError(t, p.SendError(context.Background(), "CODE", "msg", "GET /files/:key", nil))
	require.NoError(t, p.Close())
}

func TestNewProvider_Sentinel(t *testing.T) {
	// grpc.NewClient does not dial, so an unreachable address is fine here
	p, err := alert.NewProvider(alert.Config{Enable: true, SentinelHost: "127.0.0.1", SentinelPort: 1, SendTimeout: time.Second}, "filesvc", "test")
	require.NoError(t, err)
	assert.NotNil(t, p)
	require.NoError(t, p.Close())
}

package testutil

import (
	"testing"

	"github.com/lepinkainen/marquee/internal/config"
	"github.com/spf13/viper"
)

// ResetConfig resets viper before the test and again when it completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*testConfigOptions)

type testConfigOptions struct {
	apiKey       string
	fallbackKeys []string
	baseURL      string
}

// WithOMDBAPIKey sets the primary OMDb API key.
func WithOMDBAPIKey(key string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.apiKey = key
	}
}

// WithFallbackKeys sets the fallback OMDb API keys.
func WithFallbackKeys(keys ...string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.fallbackKeys = keys
	}
}

// WithBaseURL points the OMDb client at a test server.
func WithBaseURL(url string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.baseURL = url
	}
}

// SetTestConfig resets viper, applies the defaults and then stores the
// favorites database inside env. Rate limiting is disabled so tests against
// fake servers run at full speed. Viper is reset again when the test completes.
func SetTestConfig(t *testing.T, env *TestEnv, opts ...SetTestConfigOption) {
	t.Helper()

	ResetConfig(t)
	config.SetDefaults()

	options := testConfigOptions{apiKey: "test-omdb-key"}
	for _, opt := range opts {
		opt(&options)
	}

	viper.Set(config.KeyOMDBAPIKey, options.apiKey)
	viper.Set(config.KeyFallbackKeys, options.fallbackKeys)
	viper.Set(config.KeyRequestsPerSecond, 0)
	viper.Set(config.KeyFavoritesDB, env.Path("data", "favorites.db"))
	if options.baseURL != "" {
		viper.Set(config.KeyBaseURL, options.baseURL)
	}
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so a previously unset key keeps the test value.
	})
}
